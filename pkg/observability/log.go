package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a structured logger at debug level.
// It implements all hook interfaces.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetDesignerHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, strategy string) {
	h.Logger.Debug("layout start", "strategy", strategy)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, strategy string, steps int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("layout failed", "strategy", strategy, "err", err, "took", d)
		return
	}
	h.Logger.Debug("layout complete", "strategy", strategy, "steps", steps, "took", d)
}

func (h *LogHooks) OnCheckComplete(_ context.Context, profile string, violations int, d time.Duration) {
	h.Logger.Debug("compliance checked", "profile", profile, "violations", violations, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render complete", "formats", formats, "took", d, "err", err)
}

func (h *LogHooks) OnTransition(_ context.Context, from, to string) {
	h.Logger.Debug("design state", "from", from, "to", to)
}

func (h *LogHooks) OnDisposition(_ context.Context, disposition string, violations int) {
	h.Logger.Debug("violations answered", "disposition", disposition, "violations", violations)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path, requestID string) {
	h.Logger.Debug("request", "method", method, "path", path, "id", requestID)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path, requestID string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "id", requestID, "took", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ DesignerHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
