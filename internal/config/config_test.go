package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.DataDir != ".relay" {
		t.Errorf("data_dir = %q, want .relay", cfg.DataDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".relay.yml")
	content := "port: 9090\ndata_dir: /var/lib/relay\ncatalog_file: services.yml\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Port)
	}
	if cfg.DataDir != "/var/lib/relay" {
		t.Errorf("data_dir = %q", cfg.DataDir)
	}
	if cfg.CatalogFile != "services.yml" {
		t.Errorf("catalog_file = %q", cfg.CatalogFile)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RELAY_PORT", "7000")
	t.Setenv("RELAY_DATA_DIR", "/tmp/relay-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7000 {
		t.Errorf("port = %d, want 7000 from env", cfg.Port)
	}
	if cfg.DataDir != "/tmp/relay-test" {
		t.Errorf("data_dir = %q, want env override", cfg.DataDir)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port 0")
	}

	cfg = DefaultConfig()
	cfg.DataDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty data_dir")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".relay.yml")

	cfg := DefaultConfig()
	cfg.Port = 8181
	cfg.AllowAllOrigins = true
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Port != 8181 {
		t.Errorf("port = %d, want 8181", got.Port)
	}
	if !got.AllowAllOrigins {
		t.Error("allow_all_origins not round-tripped")
	}
}
