package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanup(t *testing.T) {
	dataDir := t.TempDir()

	filingDir := filepath.Join(dataDir, "sec-edgar-filings", "AAPL", "10-K", "acc")
	if err := os.MkdirAll(filingDir, 0o755); err != nil {
		t.Fatal(err)
	}
	outJSON := filepath.Join(dataDir, "AAPL_10k_extract_output.json")
	keep := filepath.Join(dataDir, "tickers.csv")
	for _, f := range []string{outJSON, keep} {
		if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := Cleanup(dataDir); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dataDir, "sec-edgar-filings")); !os.IsNotExist(err) {
		t.Error("filing mirror still present")
	}
	if _, err := os.Stat(outJSON); !os.IsNotExist(err) {
		t.Error("extraction output still present")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("unrelated file removed: %v", err)
	}
}

func TestCleanupMissingDir(t *testing.T) {
	if err := Cleanup(filepath.Join(t.TempDir(), "never-created")); err != nil {
		t.Errorf("Cleanup on missing dir: %v", err)
	}
}
