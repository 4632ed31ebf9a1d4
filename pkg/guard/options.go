package guard

import (
	"log/slog"
	"time"

	"github.com/adfluent/sessionguard/pkg/secevent"
)

// Option is a functional option for configuring the Guard.
type Option func(*Guard)

// WithConfig sets the full configuration.
func WithConfig(config Config) Option {
	return func(g *Guard) { g.config = config }
}

// WithEventLogger sets the security event logger. Without one, no
// events are recorded.
func WithEventLogger(events secevent.Logger) Option {
	return func(g *Guard) { g.events = events }
}

// WithTransport overrides the default header+cookie composite
// transport.
func WithTransport(transport Transport) Option {
	return func(g *Guard) { g.transport = transport }
}

// WithLocationResolver sets the IP-to-location hook used when location
// tracking is enabled.
func WithLocationResolver(resolver LocationResolver) Option {
	return func(g *Guard) { g.locate = resolver }
}

// WithLogger sets the slog logger for internal diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(g *Guard) {
		if log != nil {
			g.log = log
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(g *Guard) {
		if clock != nil {
			g.clock = clock
		}
	}
}
