package actions

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/sethvargo/go-githubactions"
)

// =============================================================================
// Log Handler
// =============================================================================

// Handler is a slog.Handler that renders records through a runner action.
//
// Debug records become ::debug:: commands, Warn ::warning:: and Error
// ::error::, so the runner can fold and annotate them. Info records are
// written as plain lines. Attributes follow the message as key=value.
type Handler struct {
	action *githubactions.Action
	mu     *sync.Mutex
	level  slog.Leveler
	prefix string // rendered attributes from WithAttrs
	group  string // dotted group prefix for later keys
}

// NewHandler creates a Handler logging through action. A nil opts logs at Info.
func NewHandler(action *githubactions.Action, opts *slog.HandlerOptions) *Handler {
	h := &Handler{action: action, mu: &sync.Mutex{}, level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// Enabled reports whether level is at or above the configured level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes one record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(r.Message)
	buf.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&buf, h.group, a)
		return true
	})
	line := buf.String()

	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case r.Level >= slog.LevelError:
		h.action.Errorf("%s", line)
	case r.Level >= slog.LevelWarn:
		h.action.Warningf("%s", line)
	case r.Level >= slog.LevelInfo:
		h.action.Infof("%s", line)
	default:
		h.action.Debugf("%s", line)
	}
	return nil
}

// WithAttrs returns a handler that renders attrs on every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	buf.WriteString(h.prefix)
	for _, a := range attrs {
		appendAttr(&buf, h.group, a)
	}
	h2 := *h
	h2.prefix = buf.String()
	return &h2
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = h.group + name + "."
	return &h2
}

func appendAttr(buf *bytes.Buffer, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		g := group
		if a.Key != "" {
			g += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(buf, g, ga)
		}
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(group)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(quoteIfNeeded(a.Value.String()))
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"=") {
		return strconv.Quote(s)
	}
	return s
}
