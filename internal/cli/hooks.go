package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowmap/pkg/observability"
)

// RegisterDebugHooks logs store, sizing and render events at debug level.
// main calls it for --verbose.
func (c *CLI) RegisterDebugHooks() {
	h := debugHooks{logger: c.Logger}
	observability.SetStoreHooks(h)
	observability.SetSizingHooks(h)
	observability.SetRenderHooks(h)
}

// debugHooks implements the observability hook interfaces on a logger.
type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnGet(_ context.Context, backend, key string, hit bool, d time.Duration, err error) {
	h.logger.Debug("store get", "backend", backend, "key", key, "hit", hit, "took", d, "err", err)
}

func (h debugHooks) OnSet(_ context.Context, backend, key string, size int, d time.Duration, err error) {
	h.logger.Debug("store set", "backend", backend, "key", key, "bytes", size, "took", d, "err", err)
}

func (h debugHooks) OnDelete(_ context.Context, backend, key string, err error) {
	h.logger.Debug("store delete", "backend", backend, "key", key, "err", err)
}

// OnFallback is already logged as a warning by the persister.
func (h debugHooks) OnFallback(context.Context, string, error) {}

// OnAutoResize is logged by the flowchart editor.
func (h debugHooks) OnAutoResize(context.Context, string, float64, float64, float64, float64) {}

func (h debugHooks) OnManualResize(_ context.Context, id string, w, hgt float64) {
	h.logger.Debug("manual resize", "id", id, "width", w, "height", hgt)
}

func (h debugHooks) OnManualReset(_ context.Context, id string) {
	h.logger.Debug("manual size released", "id", id)
}

func (h debugHooks) OnRenderStart(_ context.Context, formats []string, nodes int) {
	h.logger.Debug("render start", "formats", formats, "nodes", nodes)
}

func (h debugHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "took", d, "err", err)
}
