package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PredictionRow is one forecast close price for a future trading day.
type PredictionRow struct {
	TickerID       string
	Date           time.Time
	PredictedClose float64
	Model          string // e.g. "linreg_prev_close"
	RunID          string
}

// PredictionsRepo provides storage for price forecasts.
type PredictionsRepo struct {
	pool *pgxpool.Pool
}

// NewPredictionsRepo creates a new predictions repository.
func NewPredictionsRepo(pool *pgxpool.Pool) *PredictionsRepo {
	return &PredictionsRepo{pool: pool}
}

// UpsertPredictions writes forecast rows, replacing earlier forecasts
// for the same ticker, date and model.
func (r *PredictionsRepo) UpsertPredictions(ctx context.Context, rows []PredictionRow) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO fact_price_prediction
			(ticker_id, date, predicted_close, model, run_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (ticker_id, date, model) DO UPDATE SET
			predicted_close = EXCLUDED.predicted_close,
			run_id = EXCLUDED.run_id,
			created_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, row.TickerID, row.Date, row.PredictedClose, row.Model, row.RunID)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert predictions: %w", err)
		}
	}
	return nil
}
