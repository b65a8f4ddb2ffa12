package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug log lines.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks creates log hooks. A nil logger uses log.Default().
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// InstallLogHooks registers log hooks for all event categories.
func InstallLogHooks(logger *log.Logger) {
	h := NewLogHooks(logger)
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetTransportHooks(h)
}

func (h *LogHooks) OnParseComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("parse failed", "duration", d, "error", err)
		return
	}
	h.Logger.Debug("parsed", "nodes", nodes, "edges", edges, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.Logger.Debug("render started", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "format", format, "duration", d, "error", err)
		return
	}
	h.Logger.Debug("rendered", "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, key string) {
	h.Logger.Debug("cache hit", "key", key)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, key string) {
	h.Logger.Debug("cache miss", "key", key)
}

func (h *LogHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.Logger.Debug("cache set", "key", key, "bytes", size)
}

func (h *LogHooks) OnMessage(_ context.Context, transport, sessionID string) {
	h.Logger.Debug("message", "transport", transport, "session", sessionID)
}

func (h *LogHooks) OnReply(_ context.Context, transport, sessionID string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("reply failed", "transport", transport, "session", sessionID, "duration", d, "error", err)
		return
	}
	h.Logger.Debug("replied", "transport", transport, "session", sessionID, "duration", d)
}

var (
	_ PipelineHooks  = (*LogHooks)(nil)
	_ CacheHooks     = (*LogHooks)(nil)
	_ TransportHooks = (*LogHooks)(nil)
)
