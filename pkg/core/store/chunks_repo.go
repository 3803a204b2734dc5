package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChunkRow is one embedded text chunk of a filing section, keyed by
// (ticker, filing_year, filing_type, filing_period, item_code,
// chunk_index).
type ChunkRow struct {
	Ticker       string
	FilingYear   int
	FilingType   string // "10-K"
	FilingPeriod string // "FY"
	ItemCode     string // "item_7" or "item_1a"
	ChunkIndex   int
	ChunkText    string
	Embedding    []float32
}

// ChunksRepo provides storage for embedded filing chunks.
type ChunksRepo struct {
	pool *pgxpool.Pool
}

// NewChunksRepo creates a new chunks repository.
func NewChunksRepo(pool *pgxpool.Pool) *ChunksRepo {
	return &ChunksRepo{pool: pool}
}

// UpsertChunks writes all rows in one transaction. Re-running a
// pipeline for the same filing overwrites text, embedding and
// processed_at in place.
func (r *ChunksRepo) UpsertChunks(ctx context.Context, rows []ChunkRow) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO sec_filing_chunks (
			ticker, filing_year, filing_type, filing_period,
			item_code, chunk_index, chunk_text, embedding, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::vector, NOW())
		ON CONFLICT (ticker, filing_year, filing_type, filing_period, item_code, chunk_index)
		DO UPDATE SET
			chunk_text = EXCLUDED.chunk_text,
			embedding = EXCLUDED.embedding,
			processed_at = NOW()
	`

	for _, row := range rows {
		_, err := tx.Exec(ctx, query,
			row.Ticker, row.FilingYear, row.FilingType, row.FilingPeriod,
			row.ItemCode, row.ChunkIndex, row.ChunkText, vectorLiteral(row.Embedding),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert chunk %s/%s/%d: %w",
				row.Ticker, row.ItemCode, row.ChunkIndex, err)
		}
	}

	return tx.Commit(ctx)
}

// CountChunks returns how many chunks are stored for a ticker and
// filing year.
func (r *ChunksRepo) CountChunks(ctx context.Context, ticker string, filingYear int) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("database pool not configured")
	}

	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sec_filing_chunks WHERE ticker = $1 AND filing_year = $2`,
		ticker, filingYear,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// vectorLiteral renders a float32 slice as a pgvector input literal,
// e.g. "[0.1,0.2,0.3]".
func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
