package config

const (
	DefaultAddr     = "127.0.0.1:7411"
	DefaultLogLevel = "info"

	DefaultMaxRedirects = 10
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:         0,
		FollowRedirects: BoolPtr(true),
		MaxRedirects:    DefaultMaxRedirects,
		Output:          "console",
		NoColor:         BoolPtr(false),
		Verbose:         BoolPtr(false),
		Addr:            DefaultAddr,
		LogLevel:        DefaultLogLevel,
	}
}
