package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adfluent/sessionguard/pkg/fingerprint"
)

func baseFingerprint() fingerprint.Fingerprint {
	return fingerprint.Fingerprint{
		IP:             "198.51.100.7",
		Subnet:         "198.51.100",
		UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) Chrome/124.0.6367.91",
		AcceptLanguage: "en-US,en;q=0.9",
		AcceptEncoding: "gzip, br",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("identical fingerprint scores 100 under both thresholds", func(t *testing.T) {
		t.Parallel()

		f := baseFingerprint()
		for _, strict := range []bool{false, true} {
			v := fingerprint.Validate(f, f, strict)
			assert.True(t, v.Valid)
			assert.Equal(t, 100, v.Score)
			assert.Empty(t, v.Differences)
		}
	})

	t.Run("same subnet scores partial IP points", func(t *testing.T) {
		t.Parallel()

		current := baseFingerprint()
		current.IP = "198.51.100.99"

		v := fingerprint.Validate(current, baseFingerprint(), false)
		assert.Equal(t, 80, v.Score)
		assert.True(t, v.Valid)
		assert.Equal(t, []string{fingerprint.DiffIPChanged}, v.Differences)
	})

	t.Run("IP mismatch boundary: 60 passes lenient, fails strict", func(t *testing.T) {
		t.Parallel()

		current := baseFingerprint()
		current.IP = "203.0.113.5"
		current.Subnet = "203.0.113"

		lenient := fingerprint.Validate(current, baseFingerprint(), false)
		assert.Equal(t, 60, lenient.Score)
		assert.True(t, lenient.Valid)
		assert.Equal(t, []string{fingerprint.DiffIPMismatch}, lenient.Differences)

		strict := fingerprint.Validate(current, baseFingerprint(), true)
		assert.Equal(t, 60, strict.Score)
		assert.False(t, strict.Valid)
	})

	t.Run("browser version bump scores as drift", func(t *testing.T) {
		t.Parallel()

		current := baseFingerprint()
		current.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) Chrome/125.0.6422.60"

		v := fingerprint.Validate(current, baseFingerprint(), false)
		assert.Equal(t, 90, v.Score)
		assert.True(t, v.Valid)
		assert.Equal(t, []string{fingerprint.DiffUserAgentVersion}, v.Differences)
	})

	t.Run("different user agent records mismatch", func(t *testing.T) {
		t.Parallel()

		current := baseFingerprint()
		current.UserAgent = "curl/8.5.0"

		v := fingerprint.Validate(current, baseFingerprint(), false)
		assert.Equal(t, 70, v.Score)
		assert.Contains(t, v.Differences, fingerprint.DiffUserAgentChanged)
	})

	t.Run("stolen token replay rejected under both thresholds", func(t *testing.T) {
		t.Parallel()

		// Different network and different client: 0 + 0 + 15 + 15 = 30.
		current := baseFingerprint()
		current.IP = "203.0.113.5"
		current.Subnet = "203.0.113"
		current.UserAgent = "curl/8.5.0"

		for _, strict := range []bool{false, true} {
			v := fingerprint.Validate(current, baseFingerprint(), strict)
			assert.Equal(t, 30, v.Score)
			assert.False(t, v.Valid)
			assert.Contains(t, v.Differences, fingerprint.DiffIPMismatch)
			assert.Contains(t, v.Differences, fingerprint.DiffUserAgentChanged)
		}
	})

	t.Run("soft attribute changes recorded", func(t *testing.T) {
		t.Parallel()

		current := baseFingerprint()
		current.AcceptLanguage = "de-DE"
		current.AcceptEncoding = "identity"

		v := fingerprint.Validate(current, baseFingerprint(), false)
		assert.Equal(t, 70, v.Score)
		assert.ElementsMatch(t, []string{
			fingerprint.DiffLanguageChanged,
			fingerprint.DiffEncodingChanged,
		}, v.Differences)
	})

	t.Run("everything different scores zero", func(t *testing.T) {
		t.Parallel()

		current := fingerprint.Fingerprint{
			IP:             "203.0.113.5",
			Subnet:         "203.0.113",
			UserAgent:      "curl/8.5.0",
			AcceptLanguage: "fr-FR",
			AcceptEncoding: "identity",
		}

		v := fingerprint.Validate(current, baseFingerprint(), false)
		assert.Equal(t, 0, v.Score)
		assert.False(t, v.Valid)
		assert.Len(t, v.Differences, 4)
	})
}
