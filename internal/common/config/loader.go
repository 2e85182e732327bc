// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "survey-duplicator/internal/common/errors"
)

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"qualtrics.endpoint":         "QUALTRICS_ENDPOINT",
	"qualtrics.token":            "QUALTRICS_TOKEN",
	"qualtrics.user_id":          "QUALTRICS_USER_ID",
	"qualtrics.timeout":          "QUALTRICS_TIMEOUT",
	"duplicator.max_concurrency": "DUPLICATOR_MAX_CONCURRENCY",
	"logging.level":              "LOGGING_LEVEL",
	"logging.format":             "LOGGING_FORMAT",
	"metrics.textfile":           "METRICS_TEXTFILE",
}

// FileEnvVar names an explicit YAML config file that replaces the ./configs lookup.
const FileEnvVar = "DUPLICATOR_CONFIG_FILE"

// Load reads .env (if any), then the config file (if any), then the environment.
// The config file is $DUPLICATOR_CONFIG_FILE when set, otherwise
// ./configs/config.yaml. Environment variables take precedence over both files.
func Load() (*Config, error) {
	loadEnvFile()

	if path := os.Getenv(FileEnvVar); path != "" {
		return LoadFromFile(path)
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.NewConfigurationError(fmt.Sprintf("error reading config file: %v", err))
		}
	}

	return unmarshal(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("failed to read config file %s: %v", path, err))
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(key, env)
	}

	v.SetDefault("qualtrics.timeout", 30000)
	v.SetDefault("duplicator.max_concurrency", 0)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("failed to unmarshal config: %v", err))
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found between the working directory and the module root.
// Variables already present in the environment are not overridden.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in YAML values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	cfg.Qualtrics.Endpoint = strings.TrimSpace(cfg.Qualtrics.Endpoint)

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Qualtrics.Endpoint == "" {
		return apperrors.NewConfigurationError("QUALTRICS_ENDPOINT is required")
	}
	if cfg.Qualtrics.Token == "" {
		return apperrors.NewConfigurationError("QUALTRICS_TOKEN is required")
	}
	if cfg.Qualtrics.UserID == "" {
		return apperrors.NewConfigurationError("QUALTRICS_USER_ID is required")
	}

	if cfg.Qualtrics.Timeout < 0 {
		return apperrors.NewConfigurationError("QUALTRICS_TIMEOUT must not be negative")
	}
	if cfg.Duplicator.MaxConcurrency < 0 {
		return apperrors.NewConfigurationError("DUPLICATOR_MAX_CONCURRENCY must not be negative")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
