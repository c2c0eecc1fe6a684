package storage

import (
	"context"
	"time"

	"github.com/matzehuels/flowmap/pkg/observability"
)

// instrumented reports every operation of the wrapped store to
// observability.Store().
type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so its operations are reported to the registered store
// hooks under the given backend name.
func Instrument(backend string, s Store) Store {
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	data, ok, err := s.Store.Get(ctx, key)
	observability.Store().OnGet(ctx, s.backend, key, ok, time.Since(start), err)
	return data, ok, err
}

func (s *instrumented) Set(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := s.Store.Set(ctx, key, data)
	observability.Store().OnSet(ctx, s.backend, key, len(data), time.Since(start), err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, key string) error {
	err := s.Store.Delete(ctx, key)
	observability.Store().OnDelete(ctx, s.backend, key, err)
	return err
}
