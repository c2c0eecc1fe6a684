package dimension

import "sync"

// Registry maps node kinds to engines. Lookups of unregistered kinds return
// the fallback engine.
type Registry struct {
	mu       sync.RWMutex
	engines  map[string]*Engine
	fallback *Engine
}

// NewRegistry creates a registry. A nil fallback uses default bounds and a
// shared [FontMeasurer].
func NewRegistry(fallback *Engine) *Registry {
	if fallback == nil {
		fallback = New(DefaultConfig(), nil)
	}
	return &Registry{engines: make(map[string]*Engine), fallback: fallback}
}

// NewRegistryFromConfigs builds one engine per kind, all sharing m.
func NewRegistryFromConfigs(configs map[string]Config, m Measurer) *Registry {
	if m == nil {
		m = NewFontMeasurer(MeasurerOptions{})
	}
	r := NewRegistry(New(DefaultConfig(), m))
	for kind, cfg := range configs {
		r.Register(kind, New(cfg, m))
	}
	return r
}

// Register sets the engine for kind.
func (r *Registry) Register(kind string, e *Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[kind] = e
}

// For returns the engine for kind.
func (r *Registry) For(kind string) *Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.engines[kind]; ok {
		return e
	}
	return r.fallback
}
