package host

import (
	"time"

	"github.com/moffa90/go-hexboot/bootloader"
)

// Default request timeouts.
const (
	DefaultTimeout      = 500 * time.Millisecond
	DefaultEraseTimeout = 2 * time.Second
	DefaultWriteTimeout = 1 * time.Second
)

// Config holds the client and uploader configuration.
type Config struct {
	// ProgressCallback is called during Upload to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger bootloader.Logger

	// Timeout bounds every request except erase and write
	Timeout time.Duration

	// EraseTimeout bounds <ERASE_SECTOR> requests
	EraseTimeout time.Duration

	// WriteTimeout bounds <WRITE_HEX_RECORD> requests
	WriteTimeout time.Duration

	// Target, if set, must match the bootloader's board identity before
	// anything is erased
	Target *Target

	// Launch starts the new firmware after a successful upload
	Launch bool
}

// Target identifies the board an image was built for.
type Target struct {
	BoardName       string
	HardwareVersion string
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Timeout:      DefaultTimeout,
		EraseTimeout: DefaultEraseTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}
}

// Option is a functional option for configuring the Client and Uploader.
type Option func(*Config)

// WithProgressCallback sets a callback function to track upload progress.
//
// Example:
//
//	up := host.NewUploader(client,
//	    host.WithProgressCallback(func(p host.Progress) {
//	        fmt.Printf("%.1f%% complete\n", p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for client and uploader operations.
//
// Example:
//
//	client := host.NewClient(port, host.WithLogger(myLogger))
func WithLogger(logger bootloader.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTimeout sets the timeout of all requests except erase and write.
//
// Example:
//
//	client := host.NewClient(port, host.WithTimeout(time.Second))
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithEraseTimeout sets the timeout of sector erase requests.
func WithEraseTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.EraseTimeout = timeout
	}
}

// WithWriteTimeout sets the timeout of hex record write requests.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.WriteTimeout = timeout
	}
}

// WithTarget makes Upload refuse devices whose board name or hardware
// version differ from the given ones.
//
// Example:
//
//	up := host.NewUploader(client, host.WithTarget("NucleoF446RE", "1.0"))
func WithTarget(boardName, hardwareVersion string) Option {
	return func(c *Config) {
		c.Target = &Target{BoardName: boardName, HardwareVersion: hardwareVersion}
	}
}

// WithLaunch makes Upload start the new firmware when it is done.
func WithLaunch(launch bool) Option {
	return func(c *Config) {
		c.Launch = launch
	}
}
