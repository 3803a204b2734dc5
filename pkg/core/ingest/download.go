package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrAllDownloadsFailed is returned by DownloadAll only when every
// ticker failed. Partial failure is reported through the error map.
var ErrAllDownloadsFailed = errors.New("download failed for all tickers")

// Downloader fetches the latest 10-K primary document for each ticker
// and mirrors it to disk under the conventional
// sec-edgar-filings/<TICKER>/10-K/<accession>/ layout, which the
// extraction stage discovers by walking.
type Downloader struct {
	client  *EDGARClient
	saveDir string
	logger  *zap.Logger
}

// NewDownloader builds a downloader writing under saveDir.
func NewDownloader(client *EDGARClient, saveDir string, logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{client: client, saveDir: saveDir, logger: logger}
}

// Download fetches the latest 10-K for one ticker and returns the path
// of the saved HTML document. An already downloaded filing with the
// same accession number is reused without refetching.
func (d *Downloader) Download(ctx context.Context, ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", errors.New("ticker cannot be empty")
	}

	filing, err := d.client.Latest10K(ctx, ticker)
	if err != nil {
		return "", fmt.Errorf("locating latest 10-K for %s: %w", ticker, err)
	}

	dir := filepath.Join(d.saveDir, "sec-edgar-filings", ticker, "10-K", filing.AccessionNumber)
	path := filepath.Join(dir, filing.PrimaryDocument)
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		d.logger.Info("filing already downloaded",
			zap.String("ticker", ticker),
			zap.String("accession", filing.AccessionNumber))
		return path, nil
	}

	body, err := d.client.FetchDocument(ctx, filing.URL)
	if err != nil {
		return "", fmt.Errorf("downloading 10-K for %s: %w", ticker, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating filing directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("writing filing HTML: %w", err)
	}

	d.logger.Info("downloaded 10-K",
		zap.String("ticker", ticker),
		zap.String("accession", filing.AccessionNumber),
		zap.Int("bytes", len(body)))
	return path, nil
}

// DownloadAll downloads the latest 10-K for every ticker. Failures are
// isolated per ticker; the call errors only when all tickers failed.
func (d *Downloader) DownloadAll(ctx context.Context, tickers []string) (map[string]string, map[string]string, error) {
	paths := make(map[string]string)
	failures := make(map[string]string)

	for _, ticker := range tickers {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		path, err := d.Download(ctx, ticker)
		if err != nil {
			failures[ticker] = err.Error()
			d.logger.Warn("ticker download failed", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		paths[ticker] = path
	}

	if len(tickers) > 0 && len(paths) == 0 {
		return paths, failures, ErrAllDownloadsFailed
	}
	return paths, failures, nil
}
