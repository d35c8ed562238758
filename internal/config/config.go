// Package config provides application configuration.
package config

import (
	"log/slog"
	"strings"
)

// Default configuration values.
const (
	DefaultLogLevel     = "INFO"
	DefaultLogFormat    = LogFormatPretty
	DefaultReportFormat = ReportFormatText
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
	LogFormatPlain  LogFormat = "plain"
)

// ReportFormat represents the summary report format.
type ReportFormat string

// ReportFormat values.
const (
	ReportFormatText ReportFormat = "text"
	ReportFormatYAML ReportFormat = "yaml"
)

// ParseReportFormat parses a report format name. ok is false for unknown names.
func ParseReportFormat(s string) (ReportFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return ReportFormatText, true
	case "yaml", "yml":
		return ReportFormatYAML, true
	default:
		return "", false
	}
}

// Verbosity selects which diagnostic classes reach the run log.
type Verbosity struct {
	progress bool
	messages bool
	warnings bool
}

// NewVerbosity creates a Verbosity.
func NewVerbosity(progress, messages, warnings bool) Verbosity {
	return Verbosity{progress: progress, messages: messages, warnings: warnings}
}

// Progress reports whether progress lines are enabled.
func (v Verbosity) Progress() bool { return v.progress }

// Messages reports whether informational messages are enabled.
func (v Verbosity) Messages() bool { return v.messages }

// Warnings reports whether warnings are enabled.
func (v Verbosity) Warnings() bool { return v.warnings }

// AppConfig holds the main application configuration.
type AppConfig struct {
	dbURL        string
	logLevel     string
	logFormat    LogFormat
	reportFormat ReportFormat
	verbosity    Verbosity
}

// NewAppConfig creates a new AppConfig with defaults. Persistence is off
// until a database URL is set.
func NewAppConfig() AppConfig {
	return AppConfig{
		logLevel:     DefaultLogLevel,
		logFormat:    DefaultLogFormat,
		reportFormat: DefaultReportFormat,
	}
}

// DBURL returns the database connection URL, empty when persistence is off.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// ReportFormat returns the summary report format.
func (c AppConfig) ReportFormat() ReportFormat { return c.reportFormat }

// Verbosity returns the diagnostic gates.
func (c AppConfig) Verbosity() Verbosity { return c.verbosity }

// PersistenceEnabled reports whether runs are stored.
func (c AppConfig) PersistenceEnabled() bool { return c.dbURL != "" }

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) {
		if level != "" {
			c.logLevel = level
		}
	}
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) {
		if format != "" {
			c.logFormat = format
		}
	}
}

// WithReportFormat sets the report format.
func WithReportFormat(format ReportFormat) AppConfigOption {
	return func(c *AppConfig) {
		if format != "" {
			c.reportFormat = format
		}
	}
}

// WithVerbosity sets the diagnostic gates.
func WithVerbosity(v Verbosity) AppConfigOption {
	return func(c *AppConfig) { c.verbosity = v }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	return NewAppConfig().Apply(opts...)
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Database credentials are masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("log_level", c.logLevel),
		slog.String("log_format", string(c.logFormat)),
		slog.String("report_format", string(c.reportFormat)),
		slog.String("db_url", c.maskedDBURL()),
		slog.Bool("progress", c.verbosity.progress),
		slog.Bool("messages", c.verbosity.messages),
		slog.Bool("warnings", c.verbosity.warnings),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(disabled)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}
