package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger: completions and responses at
// info, the rest at debug. Failed renders and 5xx responses log at error.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ RenderHooks = LogHooks{}
	_ CacheHooks  = LogHooks{}
	_ HTTPHooks   = LogHooks{}
)

func (h LogHooks) OnRenderStart(_ context.Context, name string, formats []string) {
	h.Logger.Debug("render started", "name", name, "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, name string, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("render failed", "name", name, "err", err, "duration", d)
		return
	}
	h.Logger.Info("rendered", "name", name, "formats", formats, "duration", d)
}

func (h LogHooks) OnBindingsResolved(_ context.Context, name string, bindings, dropped int) {
	h.Logger.Debug("bindings resolved", "name", name, "bindings", bindings, "dropped", dropped)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.Logger.Error("response", "method", method, "path", path, "status", status, "duration", d)
		return
	}
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}
