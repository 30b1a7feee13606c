// internal/logger/config.go
package logger

type Config struct {
	LogFile     string
	MaxSize     int  // megabytes
	MaxAge      int  // days
	MaxBackups  int  // files
	Compress    bool // gzip rotated files
	Development bool
	Console     bool // also write to stdout; off when a TUI owns the terminal
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		LogFile:     "tokenstats.log",
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: false,
		Console:     true,
	}
}
