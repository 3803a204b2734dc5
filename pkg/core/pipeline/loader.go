package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"finstream/pkg/core/chunk"
	"finstream/pkg/core/embed"
	"finstream/pkg/core/filing"
	"finstream/pkg/core/store"
)

// ChunkUpserter is the slice of the chunk store the loader needs.
type ChunkUpserter interface {
	UpsertChunks(ctx context.Context, rows []store.ChunkRow) error
}

// ChunkEmbedLoader implements ChunkSink: it windows each extracted
// section, embeds the windows and upserts them keyed by filing.
type ChunkEmbedLoader struct {
	chunker  *chunk.Chunker
	embedder embed.Embedder
	repo     ChunkUpserter
	logger   *zap.Logger
}

// NewChunkEmbedLoader builds a loader. A nil chunker uses the default
// window size; a nil logger disables logging.
func NewChunkEmbedLoader(chunker *chunk.Chunker, embedder embed.Embedder, repo ChunkUpserter, logger *zap.Logger) *ChunkEmbedLoader {
	if chunker == nil {
		chunker = chunk.NewDefault()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChunkEmbedLoader{chunker: chunker, embedder: embedder, repo: repo, logger: logger}
}

// Load chunks and embeds both sections of a payload and upserts the
// rows. MD&A text is stored as item_7, risk factors as item_1a; an
// empty section is skipped. Returns the number of chunks written.
func (l *ChunkEmbedLoader) Load(ctx context.Context, payload *filing.Payload) (int, error) {
	filingYear, err := strconv.Atoi(payload.Period)
	if err != nil {
		return 0, fmt.Errorf("payload for %s has no usable filing year (period %q)", payload.Ticker, payload.Period)
	}

	sections := []struct {
		itemCode string
		text     string
	}{
		{"item_7", payload.MDAText},
		{"item_1a", payload.RiskText},
	}

	var rows []store.ChunkRow
	var texts []string
	for _, section := range sections {
		if section.text == "" {
			l.logger.Warn("section empty, skipping",
				zap.String("ticker", payload.Ticker),
				zap.String("item", section.itemCode))
			continue
		}
		for i, piece := range l.chunker.Split(section.text) {
			rows = append(rows, store.ChunkRow{
				Ticker:       payload.Ticker,
				FilingYear:   filingYear,
				FilingType:   "10-K",
				FilingPeriod: "FY",
				ItemCode:     section.itemCode,
				ChunkIndex:   i,
				ChunkText:    piece,
			})
			texts = append(texts, piece)
		}
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("no extractable sections for %s", payload.Ticker)
	}

	vectors, err := l.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding chunks for %s: %w", payload.Ticker, err)
	}
	if len(vectors) != len(rows) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(rows))
	}
	for i := range rows {
		rows[i].Embedding = vectors[i]
	}

	if err := l.repo.UpsertChunks(ctx, rows); err != nil {
		return 0, fmt.Errorf("storing chunks for %s: %w", payload.Ticker, err)
	}
	return len(rows), nil
}
