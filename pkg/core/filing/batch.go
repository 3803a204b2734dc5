package filing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNoFilingHTML is returned when no downloaded 10-K HTML file can
	// be located for a ticker.
	ErrNoFilingHTML = errors.New("no downloaded 10-K HTML file found")

	// ErrAllTickersFailed is returned by a batch run only when every
	// single ticker failed. Partial failure is a success with a
	// populated Errors map.
	ErrAllTickersFailed = errors.New("extraction failed for all tickers")
)

// BatchResult aggregates a multi-ticker extraction run.
type BatchResult struct {
	Results      map[string]*Payload `json:"results"`
	OutputFiles  map[string]string   `json:"output_files"`
	Errors       map[string]string   `json:"errors"`
	TotalTickers int                 `json:"total_tickers"`
	SuccessCount int                 `json:"success_count"`
	ErrorCount   int                 `json:"error_count"`
}

// FindLatest10KHTML locates the most recently modified downloaded 10-K
// HTML file for a ticker under saveDir. The conventional
// sec-edgar-filings/<TICKER>/10-K layout is searched first, then the
// whole directory; a candidate path must contain both the ticker and
// "10-K" (case-insensitive).
func FindLatest10KHTML(saveDir, ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", ErrEmptyTicker
	}

	roots := []string{
		filepath.Join(saveDir, "sec-edgar-filings", ticker, "10-K"),
		saveDir,
	}

	var latest string
	var latestMod time.Time
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".htm" && ext != ".html" {
				return nil
			}
			upper := strings.ToUpper(path)
			if !strings.Contains(upper, ticker) || !strings.Contains(upper, "10-K") {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			if latest == "" || info.ModTime().After(latestMod) {
				latest = path
				latestMod = info.ModTime()
			}
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("scanning %s: %w", root, err)
		}
		if latest != "" {
			break
		}
	}

	if latest == "" {
		return "", fmt.Errorf("%w for ticker %q under %q", ErrNoFilingHTML, ticker, saveDir)
	}
	return latest, nil
}

// ExtractFromFile reads a downloaded 10-K HTML file and builds its
// payload. A missing file surfaces as the underlying read error.
func (e *Extractor) ExtractFromFile(path, ticker, period string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading filing HTML: %w", err)
	}
	return e.BuildPayload(string(data), ticker, period)
}

// BatchExtract runs extraction for each ticker against already
// downloaded filings under saveDir, writing one
// <TICKER>_10k_extract_output.json next to each source file. Failures
// are isolated per ticker; the call itself errors only when every
// ticker failed.
func (e *Extractor) BatchExtract(tickers []string, saveDir, period string, logger *zap.Logger) (*BatchResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &BatchResult{
		Results:      make(map[string]*Payload),
		OutputFiles:  make(map[string]string),
		Errors:       make(map[string]string),
		TotalTickers: len(tickers),
	}

	for _, ticker := range tickers {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		logger.Info("extracting 10-K sections", zap.String("ticker", ticker))

		htmlFile, err := FindLatest10KHTML(saveDir, ticker)
		if err != nil {
			result.Errors[ticker] = err.Error()
			logger.Warn("ticker failed", zap.String("ticker", ticker), zap.Error(err))
			continue
		}

		payload, err := e.ExtractFromFile(htmlFile, ticker, period)
		if err != nil {
			result.Errors[ticker] = err.Error()
			logger.Warn("ticker failed", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		result.Results[ticker] = payload

		outPath := outputPath(htmlFile, ticker)
		if err := writeJSONFile(outPath, payload); err != nil {
			result.Errors[ticker] = err.Error()
			delete(result.Results, ticker)
			logger.Warn("ticker failed", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		result.OutputFiles[ticker] = outPath

		logger.Info("ticker complete",
			zap.String("ticker", ticker),
			zap.Int("mda_len", len(payload.MDAText)),
			zap.Int("risk_len", len(payload.RiskText)))
	}

	result.SuccessCount = len(result.Results)
	result.ErrorCount = len(result.Errors)

	logger.Info("extraction run complete",
		zap.Int("total", result.TotalTickers),
		zap.Int("success", result.SuccessCount),
		zap.Int("errors", result.ErrorCount))

	if result.TotalTickers > 0 && result.SuccessCount == 0 {
		return result, ErrAllTickersFailed
	}
	return result, nil
}

// outputPath builds the per-ticker JSON output path next to the source
// filing HTML file.
func outputPath(htmlFile, ticker string) string {
	prefix := strings.ToUpper(strings.TrimSpace(ticker))
	if prefix == "" {
		prefix = "UNKNOWN"
	}
	return filepath.Join(filepath.Dir(htmlFile), prefix+"_10k_extract_output.json")
}

// writeJSONFile writes an indented JSON payload, creating parent
// directories when needed.
func writeJSONFile(path string, payload any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing output JSON: %w", err)
	}
	return nil
}
