package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiDim    = "\033[2m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// palette holds the escape sequences for each element of a line. The
// zero palette writes plain text.
type palette struct {
	reset, dim, bold             string
	debug, info, warn, errorCode string
}

var colourPalette = palette{
	reset: ansiReset, dim: ansiDim, bold: ansiBold,
	debug: ansiCyan, info: ansiGreen, warn: ansiYellow, errorCode: ansiRed,
}

// TerminalHandler formats log records as single terminal lines, coloured
// or plain.
//
// Output format:
//
//	15:04:05.000 INF merged caller=Glimmer loci=412
type TerminalHandler struct {
	writer io.Writer
	level  slog.Leveler
	colour palette
	attrs  []slog.Attr
	groups []string
	mu     *sync.Mutex
}

func newTerminalHandler(w io.Writer, opts *slog.HandlerOptions, colour bool) *TerminalHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	h := &TerminalHandler{
		writer: w,
		level:  level,
		mu:     &sync.Mutex{},
	}
	if colour {
		h.colour = colourPalette
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats a log record and writes it as one line.
func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.Grow(256)

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	p := h.colour
	h.styled(&buf, p.dim, ts.Format("15:04:05.000"))
	buf.WriteByte(' ')

	code, label := p.levelStyle(r.Level)
	h.styled(&buf, code, label)
	buf.WriteByte(' ')
	h.styled(&buf, p.bold, r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&buf, a, h.groups)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, a, h.groups)
		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

// WithAttrs returns a new handler whose attributes consist of both the
// existing attributes and attrs.
func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append(make([]slog.Attr, 0, len(h.attrs)+len(attrs)), h.attrs...), attrs...)
	return &c
}

// WithGroup returns a new handler with the given group name prepended to
// subsequent attribute keys.
func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(append(make([]string, 0, len(h.groups)+1), h.groups...), name)
	return &c
}

func (h *TerminalHandler) styled(buf *bytes.Buffer, code, text string) {
	if code == "" {
		buf.WriteString(text)
		return
	}
	buf.WriteString(code)
	buf.WriteString(text)
	buf.WriteString(h.colour.reset)
}

func (p palette) levelStyle(level slog.Level) (string, string) {
	switch {
	case level < slog.LevelInfo:
		return p.debug, "DBG"
	case level < slog.LevelWarn:
		return p.info, "INF"
	case level < slog.LevelError:
		return p.warn, "WRN"
	default:
		return p.errorCode, "ERR"
	}
}

func (h *TerminalHandler) appendAttr(buf *bytes.Buffer, a slog.Attr, groups []string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		prefix := groups
		if a.Key != "" {
			prefix = append(append(make([]string, 0, len(groups)+1), groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, ga, prefix)
		}
		return
	}

	var key strings.Builder
	for _, g := range groups {
		key.WriteString(g)
		key.WriteByte('.')
	}
	key.WriteString(a.Key)
	key.WriteByte('=')

	buf.WriteByte(' ')
	h.styled(buf, h.colour.dim, key.String())
	buf.WriteString(formatAttrValue(a.Value))
}

func formatAttrValue(v slog.Value) string {
	if v.Kind() == slog.KindString {
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"\\") {
			return fmt.Sprintf("%q", s)
		}
		return s
	}
	return v.String()
}
