package fingerprint_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adfluent/sessionguard/pkg/fingerprint"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("captures request attributes", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "198.51.100.7:4321"
		r.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")
		r.Header.Set("Accept-Language", "en-US,en;q=0.9")
		r.Header.Set("Accept-Encoding", "gzip, br")

		f := fingerprint.Extract(r)
		assert.Equal(t, "198.51.100.7", f.IP)
		assert.Equal(t, "198.51.100", f.Subnet)
		assert.Equal(t, "Mozilla/5.0 (X11; Linux x86_64)", f.UserAgent)
		assert.Equal(t, "en-US,en;q=0.9", f.AcceptLanguage)
		assert.Equal(t, "gzip, br", f.AcceptEncoding)
	})

	t.Run("missing headers become empty strings", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "203.0.113.9:1234"

		f := fingerprint.Extract(r)
		assert.Equal(t, "203.0.113.9", f.IP)
		assert.Empty(t, f.UserAgent)
		assert.Empty(t, f.AcceptLanguage)
		assert.Empty(t, f.AcceptEncoding)
	})

	t.Run("prefers forwarded IP", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", "203.0.113.60")

		f := fingerprint.Extract(r)
		assert.Equal(t, "203.0.113.60", f.IP)
		assert.Equal(t, "203.0.113", f.Subnet)
	})
}

func TestSubnet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ip       string
		expected string
	}{
		{"ipv4 truncated to three octets", "192.168.10.55", "192.168.10"},
		{"ipv4 low octets", "10.0.0.1", "10.0.0"},
		{"ipv6 /48 prefix", "2001:db8:abcd:12::1", "2001:db8:abcd::/48"},
		{"invalid yields empty", "not-an-ip", ""},
		{"empty yields empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, fingerprint.Subnet(tt.ip))
		})
	}
}

func TestDeviceID(t *testing.T) {
	t.Parallel()

	base := fingerprint.Fingerprint{
		UserAgent:      "Mozilla/5.0 (X11; Linux x86_64)",
		AcceptLanguage: "en-US",
		Subnet:         "198.51.100",
	}

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		t.Parallel()

		other := base
		other.IP = "198.51.100.99" // exact IP must not affect the id
		assert.Equal(t, fingerprint.DeviceID(base), fingerprint.DeviceID(other))
		assert.Len(t, fingerprint.DeviceID(base), 32)
	})

	t.Run("changing any component changes the id", func(t *testing.T) {
		t.Parallel()

		ua := base
		ua.UserAgent = "curl/8.5.0"
		lang := base
		lang.AcceptLanguage = "de-DE"
		subnet := base
		subnet.Subnet = "203.0.113"

		ids := map[string]struct{}{
			fingerprint.DeviceID(base):   {},
			fingerprint.DeviceID(ua):     {},
			fingerprint.DeviceID(lang):   {},
			fingerprint.DeviceID(subnet): {},
		}
		assert.Len(t, ids, 4)
	})

	t.Run("all-empty inputs yield empty id", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, fingerprint.DeviceID(fingerprint.Fingerprint{IP: "1.2.3.4"}))
	})
}
