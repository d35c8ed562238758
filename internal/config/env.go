package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., VERBOSITY_PROGRESS).
type EnvConfig struct {
	// DBURL is the database connection URL. Empty disables persistence.
	// Env: DB_URL
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty, json or plain).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// ReportFormat is the summary report format (text or yaml).
	// Env: REPORT_FORMAT (default: text)
	ReportFormat string `envconfig:"REPORT_FORMAT" default:"text"`

	// Verbosity gates diagnostics written to the run log.
	Verbosity VerbosityEnv `envconfig:"VERBOSITY"`
}

// VerbosityEnv holds environment configuration for diagnostics.
type VerbosityEnv struct {
	// Env: VERBOSITY_PROGRESS (default: false)
	Progress bool `envconfig:"PROGRESS" default:"false"`

	// Env: VERBOSITY_MESSAGES (default: false)
	Messages bool `envconfig:"MESSAGES" default:"false"`

	// Env: VERBOSITY_WARNINGS (default: false)
	Warnings bool `envconfig:"WARNINGS" default:"false"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	return LoadFromEnvWithPrefix("")
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "CGC" would require CGC_DB_URL instead of DB_URL.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() (AppConfig, error) {
	format, ok := ParseReportFormat(e.ReportFormat)
	if !ok {
		return AppConfig{}, fmt.Errorf("REPORT_FORMAT: unknown report format %q", e.ReportFormat)
	}

	return NewAppConfigWithOptions(
		WithDBURL(e.DBURL),
		WithLogLevel(e.LogLevel),
		WithLogFormat(parseLogFormat(e.LogFormat)),
		WithReportFormat(format),
		WithVerbosity(NewVerbosity(e.Verbosity.Progress, e.Verbosity.Messages, e.Verbosity.Warnings)),
	), nil
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	case "plain", "text":
		return LogFormatPlain
	default:
		return LogFormatPretty
	}
}
