package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Cleanup removes a run's working artifacts under dataDir: the
// sec-edgar-filings mirror and any extraction output JSON files.
// Database rows are untouched.
func Cleanup(dataDir string) error {
	mirror := filepath.Join(dataDir, "sec-edgar-filings")
	if err := os.RemoveAll(mirror); err != nil {
		return fmt.Errorf("removing filing mirror: %w", err)
	}

	return filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), "_10k_extract_output.json") {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("removing %s: %w", path, err)
			}
		}
		return nil
	})
}
