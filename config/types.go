package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TryFi   TryFiConfig   `mapstructure:"tryfi"`
	Logging LoggingConfig `mapstructure:"logging"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Display DisplayConfig `mapstructure:"display"`
}

// TryFiConfig holds the account credentials and API connection details
type TryFiConfig struct {
	URL      string        `mapstructure:"url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
	// StrictRefresh skips pets without a device on refresh too
	StrictRefresh bool `mapstructure:"strict_refresh"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// SentryConfig enables error reporting
type SentryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// FilterConfig contains the default pet filter and named presets
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default_expression"`
	Presets           map[string]string `mapstructure:"presets"`
}

// DisplayConfig contains output settings
type DisplayConfig struct {
	ShowDetails bool `mapstructure:"show_details"`
}
