// Package pipeline orchestrates the download -> extract -> chunk ->
// embed -> load flow across the ticker universe.
package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"finstream/pkg/core/filing"
)

// ErrAllTickersFailed is returned by Run only when no ticker made it
// through the pipeline. Partial failure is reported via the summary.
var ErrAllTickersFailed = errors.New("pipeline failed for all tickers")

// FilingDownloader fetches the latest 10-K for a ticker and returns
// the saved HTML path. Implementations may hit SEC EDGAR or reuse a
// local mirror.
type FilingDownloader interface {
	Download(ctx context.Context, ticker string) (string, error)
}

// SectionExtractor turns a downloaded filing into a section payload.
type SectionExtractor interface {
	ExtractFromFile(path, ticker, period string) (*filing.Payload, error)
}

// ChunkSink persists a payload's sections downstream and reports how
// many chunks were written.
type ChunkSink interface {
	Load(ctx context.Context, payload *filing.Payload) (int, error)
}

// TickerResult records one ticker's successful pass.
type TickerResult struct {
	Ticker       string `json:"ticker"`
	FilingPath   string `json:"filing_path"`
	Period       string `json:"period"`
	ChunksLoaded int    `json:"chunks_loaded"`
}

// RunSummary aggregates a pipeline run.
type RunSummary struct {
	RunID        string                   `json:"run_id"`
	Results      map[string]*TickerResult `json:"results"`
	Errors       map[string]string        `json:"errors"`
	TotalTickers int                      `json:"total_tickers"`
	SuccessCount int                      `json:"success_count"`
	ErrorCount   int                      `json:"error_count"`
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	downloader FilingDownloader
	extractor  SectionExtractor
	sink       ChunkSink
	period     string // optional period override passed to extraction
	logger     *zap.Logger
}

// NewOrchestrator builds an orchestrator. A nil logger disables
// logging.
func NewOrchestrator(downloader FilingDownloader, extractor SectionExtractor, sink ChunkSink, period string, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		downloader: downloader,
		extractor:  extractor,
		sink:       sink,
		period:     period,
		logger:     logger,
	}
}

// Run executes the pipeline for every ticker. Failures are isolated
// per ticker; the call errors only when all tickers failed.
func (o *Orchestrator) Run(ctx context.Context, tickers []string) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:        uuid.NewString(),
		Results:      make(map[string]*TickerResult),
		Errors:       make(map[string]string),
		TotalTickers: len(tickers),
	}
	o.logger.Info("pipeline run starting",
		zap.String("run_id", summary.RunID),
		zap.Int("tickers", len(tickers)))

	for _, ticker := range tickers {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if err := ctx.Err(); err != nil {
			summary.Errors[ticker] = err.Error()
			continue
		}

		result, err := o.runTicker(ctx, ticker)
		if err != nil {
			summary.Errors[ticker] = err.Error()
			o.logger.Warn("ticker failed", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		summary.Results[ticker] = result
		o.logger.Info("ticker complete",
			zap.String("ticker", ticker),
			zap.Int("chunks", result.ChunksLoaded))
	}

	summary.SuccessCount = len(summary.Results)
	summary.ErrorCount = len(summary.Errors)
	o.logger.Info("pipeline run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("success", summary.SuccessCount),
		zap.Int("errors", summary.ErrorCount))

	if summary.TotalTickers > 0 && summary.SuccessCount == 0 {
		return summary, ErrAllTickersFailed
	}
	return summary, nil
}

func (o *Orchestrator) runTicker(ctx context.Context, ticker string) (*TickerResult, error) {
	path, err := o.downloader.Download(ctx, ticker)
	if err != nil {
		return nil, err
	}

	payload, err := o.extractor.ExtractFromFile(path, ticker, o.period)
	if err != nil {
		return nil, err
	}

	chunks, err := o.sink.Load(ctx, payload)
	if err != nil {
		return nil, err
	}

	return &TickerResult{
		Ticker:       ticker,
		FilingPath:   path,
		Period:       payload.Period,
		ChunksLoaded: chunks,
	}, nil
}
