package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/pflag"

	"github.com/nhle/docket/internal/config"
	"github.com/nhle/docket/tests/testutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := testutil.IsolateConfig(t)

	cfg, err := config.Load(config.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if want := filepath.Join(home, "docket", "docket.db"); cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("Addr = %q, want :3000", cfg.Addr())
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
}

func TestLoad_Precedence(t *testing.T) {
	home := testutil.IsolateConfig(t)
	writeFile(t, filepath.Join(home, "docket", "config.yaml"), `
db_path: /yaml/docket.db
port: 4000
log_level: debug
cors_origins:
  - http://localhost:5173
`)

	cfg, err := config.Load(config.LoadOptions{})
	if err != nil {
		t.Fatalf("Load (yaml): %v", err)
	}
	if cfg.DBPath != "/yaml/docket.db" || cfg.Port != 4000 || cfg.LogLevel != "debug" {
		t.Errorf("yaml not applied: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://localhost:5173"}) {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}

	writeFile(t, ".env", "DOCKET_PORT=5000\nDOCKET_LOG_LEVEL=warn\n")
	cfg, err = config.Load(config.LoadOptions{})
	if err != nil {
		t.Fatalf("Load (.env): %v", err)
	}
	if cfg.Port != 5000 || cfg.LogLevel != "warn" {
		t.Errorf(".env did not override yaml: %+v", cfg)
	}

	t.Setenv("DOCKET_PORT", "6000")
	t.Setenv("DOCKET_CORS_ORIGINS", "http://a.test, http://b.test")
	cfg, err = config.Load(config.LoadOptions{})
	if err != nil {
		t.Fatalf("Load (env): %v", err)
	}
	if cfg.Port != 6000 {
		t.Errorf("Port = %d, want env value 6000", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.Int("port", 0, "")
	flags.String("log-level", "", "")
	if err := flags.Parse([]string{"--port", "7000"}); err != nil {
		t.Fatal(err)
	}
	cfg, err = config.Load(config.LoadOptions{Flags: flags})
	if err != nil {
		t.Fatalf("Load (flags): %v", err)
	}
	if cfg.Port != 7000 {
		t.Errorf("Port = %d, want flag value 7000", cfg.Port)
	}
	// Unset flags do not clobber lower layers.
	if cfg.DBPath != "/yaml/docket.db" {
		t.Errorf("DBPath = %q, want yaml value", cfg.DBPath)
	}
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	testutil.IsolateConfig(t)

	_, err := config.Load(config.LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port out of range", map[string]string{"DOCKET_PORT": "70000"}},
		{"unknown log level", map[string]string{"DOCKET_LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.IsolateConfig(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := config.Load(config.LoadOptions{}); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnsureDBDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "docket.db")

	if err := cfg.EnsureDBDir(); err != nil {
		t.Fatalf("EnsureDBDir: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("directory %s not created: %v", dir, err)
	}

	mem := config.Default()
	mem.DBPath = ":memory:"
	if err := mem.EnsureDBDir(); err != nil {
		t.Errorf("EnsureDBDir(:memory:): %v", err)
	}
}
