package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chunk.Size != 1000 || cfg.Chunk.Overlap != 200 {
		t.Errorf("chunk defaults = %+v", cfg.Chunk)
	}
	if cfg.Embedding.Model != "gemini-embedding-001" || cfg.Embedding.Dimensions != 1536 {
		t.Errorf("embedding defaults = %+v", cfg.Embedding)
	}
	if cfg.Predict.Horizon != 5 {
		t.Errorf("horizon = %d, want 5", cfg.Predict.Horizon)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFileOverridesAndBackfill(t *testing.T) {
	path := writeConfig(t, `
ticker_file: universe.csv
chunk:
  size: 500
logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TickerFile != "universe.csv" {
		t.Errorf("ticker_file = %q", cfg.TickerFile)
	}
	if cfg.Chunk.Size != 500 {
		t.Errorf("chunk.size = %d, want 500", cfg.Chunk.Size)
	}
	// Unset fields come back as defaults.
	if cfg.Chunk.Overlap != 200 {
		t.Errorf("chunk.overlap = %d, want default 200", cfg.Chunk.Overlap)
	}
	if cfg.DataDir != "data" {
		t.Errorf("data_dir = %q, want default", cfg.DataDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SEC_EDGAR_USER_AGENT", "Acme Corp data@acme.example")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UserAgent != "Acme Corp data@acme.example" {
		t.Errorf("user_agent = %q", cfg.UserAgent)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []string{
		"chunk:\n  size: 100\n  overlap: 100\n",
		"logging:\n  level: verbose\n",
		"predict:\n  horizon: -1\n",
	}
	for _, content := range cases {
		path := writeConfig(t, content)
		if _, err := Load(path); err == nil {
			t.Errorf("config %q passed validation", content)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
