package duplicator

import (
	"fmt"

	"survey-duplicator/internal/common/config"
)

type Config struct {
	// MaxConcurrency caps in-flight copy requests. Zero sends every course at once.
	MaxConcurrency int
}

func DefaultConfig() *Config {
	return &Config{MaxConcurrency: 0}
}

// ConfigFromApp derives the batch settings from the application config.
func ConfigFromApp(appCfg *config.Config) *Config {
	cfg := DefaultConfig()
	if appCfg != nil {
		cfg.MaxConcurrency = appCfg.Duplicator.MaxConcurrency
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative")
	}
	return nil
}
