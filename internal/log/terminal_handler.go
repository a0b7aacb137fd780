package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiDim    = "\033[2m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// terminalHandler formats records as single-line coloured output:
//
//	15:04:05 WARN missing text field line=12 field=text
type terminalHandler struct {
	writer io.Writer
	level  slog.Level
	attrs  []slog.Attr
	prefix string
	mu     *sync.Mutex
}

func newTerminalHandler(w io.Writer, level slog.Level) *terminalHandler {
	return &terminalHandler{writer: w, level: level, mu: &sync.Mutex{}}
}

// Enabled reports whether the handler handles records at the given level.
func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle writes one formatted record.
func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(ansiDim)
	buf.WriteString(ts.Format("15:04:05"))
	buf.WriteString(ansiReset)
	buf.WriteByte(' ')

	buf.WriteString(levelColor(r.Level))
	buf.WriteString(levelLabel(r.Level))
	buf.WriteString(ansiReset)
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

// WithAttrs returns a handler that prepends attrs to every record.
func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	return &terminalHandler{
		writer: h.writer,
		level:  h.level,
		attrs:  append(merged, attrs...),
		prefix: h.prefix,
		mu:     h.mu,
	}
}

// WithGroup returns a handler that prefixes subsequent attribute keys.
func (h *terminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &terminalHandler{
		writer: h.writer,
		level:  h.level,
		attrs:  h.attrs,
		prefix: h.prefix + name + ".",
		mu:     h.mu,
	}
}

func (h *terminalHandler) appendAttr(buf *bytes.Buffer, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			if a.Key != "" {
				ga.Key = a.Key + "." + ga.Key
			}
			h.appendAttr(buf, ga)
		}
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(ansiDim)
	buf.WriteString(h.prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(ansiReset)

	s := a.Value.String()
	if a.Value.Kind() == slog.KindString && strings.ContainsAny(s, " \t\"") {
		s = strconv.Quote(s)
	}
	buf.WriteString(s)
}

func levelColor(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return ansiCyan
	case level < slog.LevelWarn:
		return ansiGreen
	case level < slog.LevelError:
		return ansiYellow
	default:
		return ansiRed
	}
}

func levelLabel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}
