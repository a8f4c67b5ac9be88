package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment overrides, e.g. TRYFI_TRYFI_PASSWORD
const EnvPrefix = "TRYFI"

// Load loads the configuration from file and environment. Without an explicit path a
// missing config file is fine as long as the environment carries the credentials.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// keys without a default are unknown to Unmarshal unless bound
	for _, key := range []string{"tryfi.username", "tryfi.password", "sentry.dsn", "filter.default_expression"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tryfi"))
		}

		v.AddConfigPath("/etc/tryfi/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("tryfi.url", "https://api.tryfi.com")
	v.SetDefault("tryfi.timeout", 30*time.Second)
	v.SetDefault("tryfi.strict_refresh", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.environment", "production")

	v.SetDefault("display.show_details", false)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TryFi.URL == "" {
		return fmt.Errorf("tryfi.url is required")
	}

	if cfg.TryFi.Username == "" {
		return fmt.Errorf("tryfi.username is required")
	}

	if cfg.TryFi.Password == "" || cfg.TryFi.Password == "your-password-here" {
		return fmt.Errorf("tryfi.password must be set")
	}

	if cfg.TryFi.Timeout <= 0 {
		return fmt.Errorf("tryfi.timeout must be positive")
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if cfg.Sentry.Enabled && cfg.Sentry.DSN == "" {
		return fmt.Errorf("sentry.dsn is required when sentry is enabled")
	}

	for name, expression := range cfg.Filter.Presets {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter preset %q has an empty expression", name)
		}
	}

	return nil
}
