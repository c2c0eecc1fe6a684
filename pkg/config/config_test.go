package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/flowmap/pkg/errors"
	"github.com/matzehuels/flowmap/pkg/render"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[storage]
backend = "sqlite"
path = "/tmp/flowmap.db"

[server]
addr = ":9000"
cors_origins = ["http://localhost:5173"]
read_timeout = "5s"

[kinds.simple]
default_width = 120
max_width = 300

[theme]
node_fill = "#a7f3d0"
`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.Path != "/tmp/flowmap.db" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Server.Addr != ":9000" || len(cfg.Server.CORSOrigins) != 1 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout.Duration != 30*time.Second {
		t.Errorf("WriteTimeout default lost: %v", cfg.Server.WriteTimeout)
	}
	if cfg.Theme.NodeFill != "#a7f3d0" || cfg.Theme.Line != render.DefaultTheme().Line {
		t.Errorf("Theme = %+v", cfg.Theme)
	}

	sizes := cfg.Sizes()
	if got := sizes.For("simple").Default(); got.Width != 120 || got.Height != 80 {
		t.Errorf("simple default = %+v, want 120x80", got)
	}
	if got := sizes.For("simple").Config().MaxWidth; got != 300 {
		t.Errorf("simple max width = %v", got)
	}
	if got := sizes.For("task").Default(); got.Width != 160 {
		t.Errorf("task default = %+v", got)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", `[storage`},
		{"unknown key", "[server]\nport = 80"},
		{"unknown backend", "[storage]\nbackend = \"etcd\""},
		{"unknown kind", "[kinds.diamond]\ndefault_width = 10"},
		{"max below default", "[kinds.task]\ndefault_width = 300\nmax_width = 200"},
		{"bad colour", "[theme]\nline = \"blue\""},
		{"bad duration", "[server]\nread_timeout = \"soon\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.text); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvStore:     "redis",
		EnvRedisAddr: "cache:6379",
		EnvMongoURI:  "",
	}
	cfg := Default()
	cfg.Storage.Mongo.URI = "mongodb://keep"
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if cfg.Storage.Backend != "redis" || cfg.Storage.Redis.Addr != "cache:6379" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Mongo.URI != "mongodb://keep" {
		t.Error("empty env value should not override")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvStore, "")

	// Missing default file is fine.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() without file: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}

	// Missing explicit file is not.
	if _, err := Load(filepath.Join(dir, "nope.toml")); !errors.IsNotFound(err) {
		t.Errorf("Load(missing) = %v, want not found", err)
	}

	if DefaultPath() != filepath.Join(dir, "flowmap", "config.toml") {
		t.Errorf("DefaultPath() = %q", DefaultPath())
	}
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(DefaultPath(), []byte("[storage]\nbackend = \"memory\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvStore, "sqlite")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("env should override file, got %q", cfg.Storage.Backend)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "file"

	var buf bytes.Buffer
	if err := cfg.Write(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Parse(buf.String())
	if err != nil {
		t.Fatalf("Parse(Write()) error: %v\n%s", err, buf.String())
	}
	if got.Server.ReadTimeout != cfg.Server.ReadTimeout || got.Theme != cfg.Theme {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
