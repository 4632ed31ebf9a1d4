package fingerprint

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// DeviceID derives a deterministic device identifier from the stable
// fingerprint components: user-agent, accept-language and subnet. The
// exact IP is excluded so a device keeps its id across dynamic address
// churn within the same network block. Returns an empty string when all
// three inputs are empty.
func DeviceID(f Fingerprint) string {
	if f.UserAgent == "" && f.AcceptLanguage == "" && f.Subnet == "" {
		return ""
	}

	sum := blake2b.Sum256([]byte(f.UserAgent + "|" + f.AcceptLanguage + "|" + f.Subnet))
	return hex.EncodeToString(sum[:16])
}
