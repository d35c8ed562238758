package log

import (
	"context"
	"log/slog"

	"github.com/helixml/cgc/internal/config"
)

// Diagnostics routes run diagnostics to a Logger. Progress, messages and
// warnings pass only when their verbosity flag is set; Record and Error
// are always written.
type Diagnostics struct {
	logger    *Logger
	verbosity config.Verbosity
}

// NewDiagnostics creates Diagnostics over logger. A nil logger discards.
func NewDiagnostics(logger *Logger, verbosity config.Verbosity) *Diagnostics {
	if logger == nil {
		logger = Discard()
	}
	return &Diagnostics{logger: logger, verbosity: verbosity}
}

// Logger returns the underlying logger.
func (d *Diagnostics) Logger() *Logger { return d.logger }

// Verbosity returns the active gates.
func (d *Diagnostics) Verbosity() config.Verbosity { return d.verbosity }

// Progress logs a stage transition.
func (d *Diagnostics) Progress(ctx context.Context, msg string, args ...any) {
	if d.verbosity.Progress() {
		d.logger.InfoContext(ctx, msg, args...)
	}
}

// Message logs an informational detail.
func (d *Diagnostics) Message(ctx context.Context, msg string, args ...any) {
	if d.verbosity.Messages() {
		d.logger.InfoContext(ctx, msg, args...)
	}
}

// Warning logs a non-fatal problem.
func (d *Diagnostics) Warning(ctx context.Context, msg string, args ...any) {
	if d.verbosity.Warnings() {
		d.logger.WarnContext(ctx, msg, args...)
	}
}

// Record logs a bookkeeping line such as a written output path.
func (d *Diagnostics) Record(ctx context.Context, msg string, args ...any) {
	d.logger.InfoContext(ctx, msg, args...)
}

// Debug logs at debug level, subject only to the log level.
func (d *Diagnostics) Debug(ctx context.Context, msg string, args ...any) {
	d.logger.DebugContext(ctx, msg, args...)
}

// DebugEnabled reports whether Debug output is emitted, so callers can skip
// building large dumps.
func (d *Diagnostics) DebugEnabled(ctx context.Context) bool {
	return d.logger.Enabled(ctx, slog.LevelDebug)
}

// Error logs a fatal error.
func (d *Diagnostics) Error(ctx context.Context, msg string, err error, args ...any) {
	d.logger.ErrorContext(ctx, msg, append([]any{"error", err}, args...)...)
}
