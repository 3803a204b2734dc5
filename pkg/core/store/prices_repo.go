package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PriceBar is one daily OHLCV row of fact_price_daily. TickerID is the
// plain ticker symbol.
type PriceBar struct {
	TickerID string
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int64
}

// PricesRepo provides storage for daily price bars.
type PricesRepo struct {
	pool *pgxpool.Pool
}

// NewPricesRepo creates a new prices repository.
func NewPricesRepo(pool *pgxpool.Pool) *PricesRepo {
	return &PricesRepo{pool: pool}
}

// LatestDates returns the most recent loaded date per ticker. Tickers
// with no rows are absent from the map.
func (r *PricesRepo) LatestDates(ctx context.Context, tickers []string) (map[string]time.Time, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ticker_id, MAX(date) AS last_date
		FROM fact_price_daily
		WHERE ticker_id = ANY($1)
		GROUP BY ticker_id
	`, tickers)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest dates: %w", err)
	}
	defer rows.Close()

	latest := make(map[string]time.Time)
	for rows.Next() {
		var ticker string
		var date time.Time
		if err := rows.Scan(&ticker, &date); err != nil {
			return nil, fmt.Errorf("failed to scan latest date row: %w", err)
		}
		latest[ticker] = date
	}
	return latest, rows.Err()
}

// UpsertBars writes price bars in one batched round trip, overwriting
// OHLCV on (ticker_id, date) conflicts.
func (r *PricesRepo) UpsertBars(ctx context.Context, bars []PriceBar) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	if len(bars) == 0 {
		return nil
	}

	query := `
		INSERT INTO fact_price_daily
			(ticker_id, date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker_id, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	batch := &pgx.Batch{}
	for _, bar := range bars {
		batch.Queue(query,
			bar.TickerID, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range bars {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert price bars: %w", err)
		}
	}
	return nil
}

// DailyBars reads a ticker's bars in ascending date order, the input
// shape the forecaster expects.
func (r *PricesRepo) DailyBars(ctx context.Context, ticker string, limit int) ([]PriceBar, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	query := `
		SELECT ticker_id, date, open, high, low, close, volume
		FROM (
			SELECT ticker_id, date, open, high, low, close, volume
			FROM fact_price_daily
			WHERE ticker_id = $1
			ORDER BY date DESC
			LIMIT $2
		) recent
		ORDER BY date ASC
	`
	if limit <= 0 {
		limit = 250
	}

	rows, err := r.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily bars: %w", err)
	}
	defer rows.Close()

	var bars []PriceBar
	for rows.Next() {
		var b PriceBar
		if err := rows.Scan(&b.TickerID, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan price bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}
