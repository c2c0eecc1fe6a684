package storage

import (
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/flowmap/pkg/errors"
)

// Config selects and configures a backend.
type Config struct {
	Backend string      `toml:"backend"` // one of Backends; empty means "file"
	Path    string      `toml:"path"`    // file directory or sqlite database path
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// Validate reports an unknown backend.
func (c Config) Validate() error {
	if c.Backend != "" && !slices.Contains(Backends, c.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q (want one of %v)", c.Backend, Backends)
	}
	return nil
}

// Open creates the configured store, wrapped with observability hooks.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backend := cfg.Backend
	if backend == "" {
		backend = BackendFile
	}

	var (
		s   Store
		err error
	)
	switch backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(cfg.Path)
	case BackendSQLite:
		s, err = NewSQLiteStore(cfg.Path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo)
	case BackendNone:
		s = NewNullStore()
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s store", backend)
	}
	return Instrument(backend, s), nil
}

// Describe returns a short human-readable location for cfg, e.g.
// "file:/home/me/.config/flowmap/data".
func Describe(cfg Config) string {
	switch cfg.Backend {
	case "", BackendFile:
		dir := cfg.Path
		if dir == "" {
			dir = DefaultFileDir()
		}
		return "file:" + dir
	case BackendSQLite:
		if cfg.Path == "" {
			return "sqlite:" + DefaultSQLitePath()
		}
		return "sqlite:" + cfg.Path
	case BackendRedis:
		return "redis:" + cfg.Redis.Addr
	case BackendMongo:
		return fmt.Sprintf("mongo:%s/%s", cfg.Mongo.Database, cfg.Mongo.Collection)
	default:
		return cfg.Backend
	}
}
