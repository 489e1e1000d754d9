package asyncnet

import "time"

const (
	DefaultMaxDepth = 1000                 // default outbound queue capacity.
	DefaultIdleWait = 5 * time.Millisecond // default worker back-off when idle.
)

// Config contains configuration options for a Server.
type Config struct {
	// MaxDepth is the most reports the outbound queue holds. Default is 1000.
	MaxDepth int
	// InboundDepth bounds the inbound queue. Zero leaves it unbounded.
	InboundDepth int
	// IdleWait is how long the worker sleeps after an iteration that moved
	// no data. Send wakes it early. Default is 5ms.
	IdleWait time.Duration
	// ShutdownTimeout bounds the wait in Stop. Zero waits indefinitely.
	ShutdownTimeout time.Duration
	// Logger receives lifecycle and transport events. Default discards them.
	Logger Logger
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth: DefaultMaxDepth,
		IdleWait: DefaultIdleWait,
		Logger:   &NoopLogger{},
	}
}

func (c *Config) applyDefaults() {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.InboundDepth < 0 {
		c.InboundDepth = 0
	}
	if c.IdleWait <= 0 {
		c.IdleWait = DefaultIdleWait
	}
	if c.ShutdownTimeout < 0 {
		c.ShutdownTimeout = 0
	}
	if c.Logger == nil {
		c.Logger = &NoopLogger{}
	}
}
