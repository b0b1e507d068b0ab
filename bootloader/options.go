package bootloader

// Config holds the bootloader configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger Logger
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{}
}

// Option is a functional option for configuring the Bootloader.
type Option func(*Config)

// WithLogger sets a logger for bootloader operations.
//
// Example:
//
//	bl := bootloader.New(flash, manager, cfg, bootloader.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
