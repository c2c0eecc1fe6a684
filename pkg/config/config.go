// Package config loads flowmap's optional TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/flowmap/config.toml (or
// ~/.config/flowmap/config.toml). A missing file is not an error: every
// setting has a default.
//
//	[storage]
//	backend = "sqlite"
//	path = "/var/lib/flowmap/flowmap.db"
//
//	[server]
//	addr = ":8080"
//	cors_origins = ["http://localhost:5173"]
//
//	[font]
//	size = 18
//
//	[kinds.simple]
//	default_width = 120
//	max_width = 300
//
//	[theme]
//	node_fill = "#a7f3d0"
//
// Environment variables override the file: FLOWMAP_STORE selects the
// backend, FLOWMAP_STORE_PATH its path, FLOWMAP_REDIS_ADDR and
// FLOWMAP_MONGO_URI the servers.
package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowmap/pkg/dimension"
	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/flowchart"
	"github.com/matzehuels/flowmap/pkg/render"
	"github.com/matzehuels/flowmap/pkg/storage"
)

// AppName names the configuration and data directories.
const AppName = "flowmap"

// Environment variables read by [Config.ApplyEnv].
const (
	EnvStore     = "FLOWMAP_STORE"
	EnvStorePath = "FLOWMAP_STORE_PATH"
	EnvRedisAddr = "FLOWMAP_REDIS_ADDR"
	EnvMongoURI  = "FLOWMAP_MONGO_URI"
)

// Config is the whole configuration file.
type Config struct {
	Storage storage.Config              `toml:"storage"`
	Server  Server                      `toml:"server"`
	Font    dimension.MeasurerOptions   `toml:"font"`
	Kinds   map[string]dimension.Config `toml:"kinds"`
	Theme   render.Theme                `toml:"theme"`
}

// Server configures `flowmap serve`.
type Server struct {
	Addr         string   `toml:"addr"`
	CORSOrigins  []string `toml:"cors_origins"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
		},
		Theme: render.DefaultTheme(),
	}
}

// Dir returns the configuration directory using the XDG standard
// (~/.config/flowmap/).
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultPath returns the configuration file path.
func DefaultPath() string { return filepath.Join(Dir(), "config.toml") }

// Load reads the file at path over [Default], applies environment overrides
// and validates the result. An empty path means [DefaultPath]; a missing
// default file is not an error, a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case os.IsNotExist(err) && !explicit:
	case os.IsNotExist(err):
		return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
	case err != nil:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	default:
		if keys := md.Undecoded(); len(keys) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, keys[0].String())
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text over [Default] without reading the environment.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", keys[0].String())
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from environment variables looked up with
// lookup (usually os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvStore); ok && v != "" {
		c.Storage.Backend = v
	}
	if v, ok := lookup(EnvStorePath); ok && v != "" {
		c.Storage.Path = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		c.Storage.Redis.Addr = v
	}
	if v, ok := lookup(EnvMongoURI); ok && v != "" {
		c.Storage.Mongo.URI = v
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	for kind, kc := range c.Kinds {
		if !flowchart.Kind(kind).Valid() {
			return errors.New(errors.ErrCodeInvalidConfig, "[kinds.%s]: unknown node kind", kind)
		}
		if err := kc.WithDefaults().Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[kinds.%s]", kind)
		}
	}
	if err := c.Theme.Validate(); err != nil {
		return err
	}
	return nil
}

// Sizes builds the per-kind dimension engines, sharing one font measurer.
func (c Config) Sizes() *dimension.Registry {
	configs := make(map[string]dimension.Config, len(c.Kinds))
	for kind, kc := range c.Kinds {
		configs[kind] = kc.WithDefaults()
	}
	return dimension.NewRegistryFromConfigs(configs, dimension.NewFontMeasurer(c.Font))
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
