package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadTickers reads the ticker universe from a file. CSV files may
// carry a header row with a "ticker" column; plain text files hold
// symbols separated by commas or newlines. Symbols come back
// uppercased, deduplicated, in file order.
func LoadTickers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ticker file: %w", err)
	}

	var raw []string
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		raw, err = tickersFromCSV(data)
		if err != nil {
			return nil, err
		}
	} else {
		raw = strings.FieldsFunc(string(data), func(r rune) bool {
			return r == ',' || r == '\n' || r == '\r'
		})
	}

	seen := make(map[string]bool)
	tickers := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tickers = append(tickers, t)
	}

	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers found in %s", path)
	}
	return tickers, nil
}

func tickersFromCSV(data []byte) ([]string, error) {
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing ticker CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// A header row names the ticker column; without one the first
	// column is taken.
	col := 0
	start := 0
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "ticker") ||
			strings.EqualFold(strings.TrimSpace(name), "symbol") {
			col = i
			start = 1
			break
		}
	}

	var out []string
	for _, rec := range records[start:] {
		if col < len(rec) {
			out = append(out, rec[col])
		}
	}
	return out, nil
}
