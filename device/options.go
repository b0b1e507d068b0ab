package device

import (
	"time"

	"github.com/moffa90/go-hexboot/bootloader"
	"github.com/moffa90/go-hexboot/protocol"
)

// DefaultSettleDelay is the pause between answering a reboot request and
// rebooting.
const DefaultSettleDelay = 500 * time.Millisecond

// Config holds the server configuration.
type Config struct {
	// Logger is used for logging requests and responses (optional)
	Logger bootloader.Logger

	// SettleDelay is the pause before a requested reboot
	SettleDelay time.Duration

	// BufferSize is the receive buffer size, terminator included
	BufferSize int
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		SettleDelay: DefaultSettleDelay,
		BufferSize:  protocol.DefaultBufferSize,
	}
}

// Option is a functional option for configuring the Server.
type Option func(*Config)

// WithLogger sets a logger for the control loop.
func WithLogger(logger bootloader.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithSettleDelay sets the pause between answering a reboot request and
// rebooting.
//
// Example:
//
//	srv := device.NewServer(port, device.WithSettleDelay(0))
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) {
		c.SettleDelay = d
	}
}

// WithBufferSize sets the receive buffer size. Longer request lines are
// answered with DATA_OVERFLOW.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}
