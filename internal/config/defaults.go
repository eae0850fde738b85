package config

const (
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	defaultMaxEntryMiB = 256
	defaultMaxWidth    = 600
	defaultJPEGQuality = 85
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Parse: Parse{
			Concurrency: 0,
			MaxEntryMiB: defaultMaxEntryMiB,
		},
		Cover: Cover{
			MaxWidth:    defaultMaxWidth,
			JPEGQuality: defaultJPEGQuality,
		},
	}
}
