package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette holds the colours used for one handler. Colours are fixed at
// construction so output to a buffer or a pipe can be plain text.
type palette struct {
	dim   *color.Color
	msg   *color.Color
	debug *color.Color
	info  *color.Color
	warn  *color.Color
	err   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		dim:   color.New(color.Faint),
		msg:   color.New(color.Bold),
		debug: color.New(color.FgCyan),
		info:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.dim, p.msg, p.debug, p.info, p.warn, p.err} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// TerminalHandler formats log records as human readable terminal output.
//
// Output format:
//
//	15:04:05.000 INF server started addr=0.0.0.0:8080
type TerminalHandler struct {
	writer  io.Writer
	level   slog.Leveler
	attrs   []slog.Attr
	groups  []string
	palette palette
	mu      *sync.Mutex
}

// newTerminalHandler colours output only when w is stdout attached to a
// terminal.
func newTerminalHandler(w io.Writer, opts *slog.HandlerOptions) *TerminalHandler {
	f, ok := w.(*os.File)
	return newTerminalHandlerWithColor(w, opts, ok && f == os.Stdout && !color.NoColor)
}

func newTerminalHandlerWithColor(w io.Writer, opts *slog.HandlerOptions, colored bool) *TerminalHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &TerminalHandler{
		writer:  w,
		level:   level,
		palette: newPalette(colored),
		mu:      &sync.Mutex{},
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats a log record and writes it as a single line.
func (h *TerminalHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.Grow(256)

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(h.palette.dim.Sprint(ts.Format("15:04:05.000")))
	buf.WriteByte(' ')
	buf.WriteString(h.levelLabel(r.Level))
	buf.WriteByte(' ')
	buf.WriteString(h.palette.msg.Sprint(r.Message))

	if id := RequestID(ctx); id != "" {
		h.appendAttr(&buf, slog.String("request_id", id), nil)
	}
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
	merged := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	merged = append(merged, attrs...)
	clone := *h
	clone.attrs = merged
	return &clone
}

// WithGroup returns a new handler with the given group name prepended to
// subsequent attribute keys.
func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	extended := make([]string, len(h.groups)+1)
	copy(extended, h.groups)
	extended[len(h.groups)] = name
	clone := *h
	clone.groups = extended
	return &clone
}

func (h *TerminalHandler) levelLabel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return h.palette.debug.Sprint("DBG")
	case level < slog.LevelWarn:
		return h.palette.info.Sprint("INF")
	case level < slog.LevelError:
		return h.palette.warn.Sprint("WRN")
	default:
		return h.palette.err.Sprint("ERR")
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
			prefix = make([]string, len(groups)+1)
			copy(prefix, groups)
			prefix[len(groups)] = a.Key
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
	buf.WriteString(h.palette.dim.Sprint(key.String()))
	buf.WriteString(formatAttrValue(a.Value))
}

func formatAttrValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = v.String()
		}
	default:
		return v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"\\=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
