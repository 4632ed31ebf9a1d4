package fingerprint

import (
	"fmt"
	"net/http"
	"net/netip"

	"github.com/adfluent/sessionguard/pkg/clientip"
)

// Fingerprint is an immutable snapshot of request-identifying attributes
// used to detect likely session theft. It is deliberately low-entropy:
// the goal is recognizing a returning device, not identifying a user.
type Fingerprint struct {
	IP             string `json:"ip"`
	Subnet         string `json:"subnet"`
	UserAgent      string `json:"user_agent"`
	AcceptLanguage string `json:"accept_language"`
	AcceptEncoding string `json:"accept_encoding"`
}

// Extract derives a fingerprint from the request metadata. It is a pure
// function with no failure mode: missing headers become empty strings.
func Extract(r *http.Request) Fingerprint {
	ip := clientip.GetIP(r)
	return Fingerprint{
		IP:             ip,
		Subnet:         Subnet(ip),
		UserAgent:      r.UserAgent(),
		AcceptLanguage: r.Header.Get("Accept-Language"),
		AcceptEncoding: r.Header.Get("Accept-Encoding"),
	}
}

// Subnet truncates an IP address to its network prefix: the first three
// octets for IPv4, a /48 prefix for IPv6. This absorbs carrier-assigned
// dynamic IP churn within a provider's address block. Invalid input
// yields an empty string.
func Subnet(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ""
	}

	if addr.Is4() || addr.Is4In6() {
		b := addr.As4()
		return fmt.Sprintf("%d.%d.%d", b[0], b[1], b[2])
	}

	prefix, err := addr.Prefix(48)
	if err != nil {
		return ""
	}
	return prefix.String()
}
