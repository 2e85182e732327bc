// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	Qualtrics  QualtricsConfig  `mapstructure:"qualtrics"`
	Duplicator DuplicatorConfig `mapstructure:"duplicator"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// QualtricsConfig holds the survey platform endpoint and credentials.
type QualtricsConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Token    string `mapstructure:"token"`
	UserID   string `mapstructure:"user_id"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds, 0 disables
}

// RequestTimeout returns the HTTP timeout for platform calls.
func (q QualtricsConfig) RequestTimeout() time.Duration {
	return GetDuration(q.Timeout)
}

type DuplicatorConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency"` // 0 means one request per course at once
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}
