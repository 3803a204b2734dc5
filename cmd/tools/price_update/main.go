package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"finstream/pkg/core/ingest"
	"finstream/pkg/core/market"
	"finstream/pkg/core/store"
	"finstream/pkg/core/utils"
)

// Incrementally refreshes fact_price_daily: each ticker resumes from
// the day after its last stored bar, or one day back for tickers never
// loaded before.
func main() {
	tickerFile := flag.String("tickers", "tickers.csv", "ticker file (csv or txt)")
	startFlag := flag.String("start", "", "inclusive start date override (YYYY-MM-DD)")
	endFlag := flag.String("end", "", "inclusive end date (YYYY-MM-DD), defaults to today")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	logger := utils.NewLogger(*logLevel)
	defer logger.Sync()

	if err := run(context.Background(), *tickerFile, *startFlag, *endFlag, logger); err != nil {
		logger.Fatal("price update failed", zap.Error(err))
	}
}

func run(ctx context.Context, tickerFile, startFlag, endFlag string, logger *zap.Logger) error {
	tickers, err := ingest.LoadTickers(tickerFile)
	if err != nil {
		return err
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if endFlag != "" {
		if end, err = time.Parse("2006-01-02", endFlag); err != nil {
			return err
		}
	}
	var overrideStart time.Time
	if startFlag != "" {
		if overrideStart, err = time.Parse("2006-01-02", startFlag); err != nil {
			return err
		}
	}

	if err := store.InitDB(ctx); err != nil {
		return err
	}
	defer store.Close()

	client, err := market.NewClientFromEnv()
	if err != nil {
		return err
	}

	repo := store.NewPricesRepo(store.GetPool())
	latest, err := repo.LatestDates(ctx, tickers)
	if err != nil {
		return err
	}

	for _, ticker := range tickers {
		start := overrideStart
		if start.IsZero() {
			if last, ok := latest[ticker]; ok {
				start = last.AddDate(0, 0, 1)
			} else {
				start = end.AddDate(0, 0, -1)
			}
		}
		if start.After(end) {
			logger.Info("ticker already current", zap.String("ticker", ticker))
			continue
		}

		bars, err := client.DailyBars(ticker, start, end)
		if err != nil {
			logger.Warn("fetch failed", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		if len(bars) == 0 {
			logger.Warn("no bars returned", zap.String("ticker", ticker))
			continue
		}

		if err := repo.UpsertBars(ctx, bars); err != nil {
			logger.Warn("upsert failed", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		logger.Info("prices updated",
			zap.String("ticker", ticker),
			zap.Int("bars", len(bars)),
			zap.Time("from", start),
			zap.Time("to", end))
	}
	return nil
}
