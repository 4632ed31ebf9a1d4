package guard

import (
	"net/http"
	"strings"
	"time"
)

// Transport defines how session tokens travel between client and
// server. Token reports ok=false for absent or malformed input — a
// garbled cookie is "no session present", never an error.
type Transport interface {
	// Token extracts the session token from the request.
	Token(r *http.Request) (token string, ok bool)

	// Set sends the session token in the response. secure marks the
	// cookie Secure when the request arrived over encrypted transport.
	Set(w http.ResponseWriter, token string, ttl time.Duration, secure bool)

	// Clear removes the session token from the response.
	Clear(w http.ResponseWriter)
}

// validToken reports whether the value looks like a session token:
// non-empty, bounded length, base64url alphabet only. Anything else is
// treated as no token present.
func validToken(token string) bool {
	if token == "" || len(token) > 128 {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// CookieTransport carries the session token in a same-site, http-only
// cookie.
type CookieTransport struct {
	name string
}

// NewCookieTransport creates a cookie-based transport using the given
// cookie name.
func NewCookieTransport(name string) *CookieTransport {
	return &CookieTransport{name: name}
}

func (t *CookieTransport) Token(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(t.name)
	if err != nil || !validToken(cookie.Value) {
		return "", false
	}
	return cookie.Value, true
}

func (t *CookieTransport) Set(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   secure,
	})
}

func (t *CookieTransport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// HeaderTransport carries the session token as a bearer-style header
// value.
type HeaderTransport struct {
	name   string
	prefix string
}

// HeaderOption configures a HeaderTransport.
type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix sets a value prefix such as "Bearer ".
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) { t.prefix = prefix }
}

// NewHeaderTransport creates a header-based transport using the given
// header name.
func NewHeaderTransport(name string, opts ...HeaderOption) *HeaderTransport {
	t := &HeaderTransport{name: name}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *HeaderTransport) Token(r *http.Request) (string, bool) {
	value := r.Header.Get(t.name)
	if t.prefix != "" {
		if !strings.HasPrefix(value, t.prefix) {
			return "", false
		}
		value = strings.TrimPrefix(value, t.prefix)
	}
	if !validToken(value) {
		return "", false
	}
	return value, true
}

func (t *HeaderTransport) Set(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	w.Header().Set(t.name, t.prefix+token)
}

func (t *HeaderTransport) Clear(w http.ResponseWriter) {
	w.Header().Del(t.name)
}

// CompositeTransport tries transports in order on read and fans out on
// write. The first transport that yields a token wins.
type CompositeTransport struct {
	transports []Transport
}

// NewCompositeTransport combines multiple transports.
func NewCompositeTransport(transports ...Transport) *CompositeTransport {
	return &CompositeTransport{transports: transports}
}

func (t *CompositeTransport) Token(r *http.Request) (string, bool) {
	for _, transport := range t.transports {
		if token, ok := transport.Token(r); ok {
			return token, true
		}
	}
	return "", false
}

func (t *CompositeTransport) Set(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	for _, transport := range t.transports {
		transport.Set(w, token, ttl, secure)
	}
}

func (t *CompositeTransport) Clear(w http.ResponseWriter) {
	for _, transport := range t.transports {
		transport.Clear(w)
	}
}
