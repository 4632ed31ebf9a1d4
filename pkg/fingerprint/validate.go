package fingerprint

import "regexp"

// Difference markers recorded by Validate for each attribute that does
// not match exactly.
const (
	DiffIPChanged        = "ip_changed"
	DiffIPMismatch       = "ip_mismatch"
	DiffUserAgentVersion = "user_agent_version"
	DiffUserAgentChanged = "user_agent_mismatch"
	DiffLanguageChanged  = "language_changed"
	DiffEncodingChanged  = "encoding_changed"
)

// Score weights. IP and user-agent carry most of the weight: together
// they are the strongest cheaply-forgeable-but-rarely-coincidentally-
// matching signal available without client cooperation.
const (
	scoreIPExact   = 40
	scoreIPSubnet  = 20
	scoreUAExact   = 30
	scoreUAVersion = 20
	scoreLanguage  = 15
	scoreEncoding  = 15

	// MaxScore is the score of a fingerprint validated against itself.
	MaxScore = scoreIPExact + scoreUAExact + scoreLanguage + scoreEncoding

	// StrictThreshold is the minimum acceptance score under strict mode.
	StrictThreshold = 85
	// LenientThreshold is the minimum acceptance score otherwise.
	LenientThreshold = 60
)

// versionRe matches version-number substrings such as "124.0.6367.91"
// inside a user-agent string. Stripping them lets a browser minor-version
// bump score as drift rather than a device change.
var versionRe = regexp.MustCompile(`\d+(?:[._]\d+)*`)

// Validation is the outcome of scoring a current fingerprint against a
// stored one.
type Validation struct {
	Valid       bool     `json:"valid"`
	Score       int      `json:"score"`
	Differences []string `json:"differences,omitempty"`
}

// Validate scores current against stored with weighted points out of 100
// and applies the strict or lenient acceptance threshold. This is a
// heuristic anomaly score, not a cryptographic proof: it trades false
// rejections of roaming users against false acceptances of replayed
// tokens.
func Validate(current, stored Fingerprint, strict bool) Validation {
	v := Validation{}

	switch {
	case current.IP == stored.IP:
		v.Score += scoreIPExact
	case current.Subnet != "" && current.Subnet == stored.Subnet:
		v.Score += scoreIPSubnet
		v.Differences = append(v.Differences, DiffIPChanged)
	default:
		v.Differences = append(v.Differences, DiffIPMismatch)
	}

	switch {
	case current.UserAgent == stored.UserAgent:
		v.Score += scoreUAExact
	case stripVersions(current.UserAgent) == stripVersions(stored.UserAgent):
		v.Score += scoreUAVersion
		v.Differences = append(v.Differences, DiffUserAgentVersion)
	default:
		v.Differences = append(v.Differences, DiffUserAgentChanged)
	}

	if current.AcceptLanguage == stored.AcceptLanguage {
		v.Score += scoreLanguage
	} else {
		v.Differences = append(v.Differences, DiffLanguageChanged)
	}

	if current.AcceptEncoding == stored.AcceptEncoding {
		v.Score += scoreEncoding
	} else {
		v.Differences = append(v.Differences, DiffEncodingChanged)
	}

	threshold := LenientThreshold
	if strict {
		threshold = StrictThreshold
	}
	v.Valid = v.Score >= threshold

	return v
}

func stripVersions(ua string) string {
	return versionRe.ReplaceAllString(ua, "")
}
