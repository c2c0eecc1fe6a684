package storage

import (
	"context"
	"errors"
	"os"
	"sync"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

// flakyStore fails the first `failures` calls of each operation.
type flakyStore struct {
	*MemoryStore
	mu        sync.Mutex
	failures  int
	calls     int
	retryable bool
}

var errFlaky = errors.New("backend unavailable")

func (s *flakyStore) fail() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		if s.retryable {
			return Retryable(errFlaky)
		}
		return errFlaky
	}
	return nil
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.fail(); err != nil {
		return nil, false, err
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key string, data []byte) error {
	if err := s.fail(); err != nil {
		return err
	}
	return s.MemoryStore.Set(ctx, key, data)
}
