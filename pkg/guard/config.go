package guard

import "time"

// Config is the guard's tunable surface. Every toggle is independent.
type Config struct {
	// EnableRotation turns periodic session token replacement on or off.
	EnableRotation bool `env:"GUARD_ENABLE_ROTATION" envDefault:"true"`

	// EnableFingerprinting turns hijack detection on or off.
	EnableFingerprinting bool `env:"GUARD_ENABLE_FINGERPRINTING" envDefault:"true"`

	// EnableLocationTracking populates coarse location metadata on new
	// sessions via the configured LocationResolver.
	EnableLocationTracking bool `env:"GUARD_ENABLE_LOCATION_TRACKING" envDefault:"false"`

	// SessionTimeout is the inactivity window before a session expires.
	SessionTimeout time.Duration `env:"GUARD_SESSION_TIMEOUT" envDefault:"30m"`

	// MaxConcurrentSessions caps simultaneous sessions per user; the
	// least-recently-active surplus is evicted. 0 disables the cap.
	MaxConcurrentSessions int `env:"GUARD_MAX_CONCURRENT_SESSIONS" envDefault:"5"`

	// RotationInterval is the age at which a session token is replaced.
	RotationInterval time.Duration `env:"GUARD_ROTATION_INTERVAL" envDefault:"1h"`

	// StrictFingerprinting raises the validation threshold from 60 to 85.
	StrictFingerprinting bool `env:"GUARD_STRICT_FINGERPRINTING" envDefault:"false"`

	// LogSecurityEvents enables the audit log.
	LogSecurityEvents bool `env:"GUARD_LOG_SECURITY_EVENTS" envDefault:"true"`

	// AllowDeviceRemembering enables deterministic device-id derivation
	// on new sessions.
	AllowDeviceRemembering bool `env:"GUARD_ALLOW_DEVICE_REMEMBERING" envDefault:"false"`

	// DeviceRememberDays is the retention horizon for remembered-device
	// trust. Trust elevation itself is not implemented; the knob is
	// carried for the workflow that will.
	DeviceRememberDays int `env:"GUARD_DEVICE_REMEMBER_DAYS" envDefault:"30"`

	// CookieName is the session cookie name.
	CookieName string `env:"GUARD_COOKIE_NAME" envDefault:"sid"`

	// HeaderName is the bearer-style session header name.
	HeaderName string `env:"GUARD_HEADER_NAME" envDefault:"X-Session-Token"`

	// SweepInterval is the cadence of the background expiry sweep
	// started by StartSweeper. 0 disables it.
	SweepInterval time.Duration `env:"GUARD_SWEEP_INTERVAL" envDefault:"5m"`
}

// DefaultConfig returns the default guard configuration.
func DefaultConfig() Config {
	return Config{
		EnableRotation:        true,
		EnableFingerprinting:  true,
		SessionTimeout:        30 * time.Minute,
		MaxConcurrentSessions: 5,
		RotationInterval:      time.Hour,
		LogSecurityEvents:     true,
		DeviceRememberDays:    30,
		CookieName:            "sid",
		HeaderName:            "X-Session-Token",
		SweepInterval:         5 * time.Minute,
	}
}
