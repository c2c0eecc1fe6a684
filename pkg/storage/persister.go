package storage

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/matzehuels/flowmap/pkg/logging"
	"github.com/matzehuels/flowmap/pkg/observability"
)

// Persister gives a store the load/save contract editing relies on: neither
// operation returns an error. A failed load yields the default value, a
// failed save keeps the previous stored value, and both log a warning.
type Persister struct {
	store   Store
	backoff Backoff
}

// PersisterOption configures a [Persister].
type PersisterOption func(*Persister)

// WithBackoff sets the retry policy for transient errors.
func WithBackoff(b Backoff) PersisterOption {
	return func(p *Persister) { p.backoff = b }
}

// NewPersister wraps store.
func NewPersister(store Store, opts ...PersisterOption) *Persister {
	p := &Persister{store: store, backoff: DefaultBackoff}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Store returns the wrapped store.
func (p *Persister) Store() Store { return p.store }

// Load decodes the JSON stored at key into dst. If the key is missing,
// unreadable or undecodable, dst is set from def instead (def may be nil to
// leave dst untouched). Load reports whether the stored value was used.
func (p *Persister) Load(ctx context.Context, key string, dst, def any) bool {
	var (
		data []byte
		ok   bool
	)
	err := p.backoff.Retry(ctx, func() error {
		var err error
		data, ok, err = p.store.Get(ctx, key)
		return err
	})
	if err == nil && ok {
		if err = json.Unmarshal(data, dst); err == nil {
			return true
		}
	}

	if err != nil {
		logging.FromContext(ctx).Warn("failed to load, using default", "key", key, "err", err)
		observability.Store().OnFallback(ctx, key, err)
	}
	if def != nil {
		if v := reflect.ValueOf(dst); v.Kind() == reflect.Pointer && !v.IsNil() {
			v.Elem().SetZero()
		}
		if raw, mErr := json.Marshal(def); mErr == nil {
			_ = json.Unmarshal(raw, dst)
		}
	}
	return false
}

// Save stores v as JSON at key. Save reports whether the write succeeded.
func (p *Persister) Save(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err == nil {
		err = p.backoff.Retry(ctx, func() error {
			return p.store.Set(ctx, key, data)
		})
	}
	if err != nil {
		logging.FromContext(ctx).Warn("failed to save", "key", key, "err", err)
		observability.Store().OnFallback(ctx, key, err)
		return false
	}
	return true
}

// Delete removes key, logging a warning on failure.
func (p *Persister) Delete(ctx context.Context, key string) bool {
	err := p.backoff.Retry(ctx, func() error {
		return p.store.Delete(ctx, key)
	})
	if err != nil {
		logging.FromContext(ctx).Warn("failed to delete", "key", key, "err", err)
		return false
	}
	return true
}
