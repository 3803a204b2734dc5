package main

import (
	"context"
	"flag"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"finstream/pkg/core/ingest"
	"finstream/pkg/core/predict"
	"finstream/pkg/core/store"
	"finstream/pkg/core/utils"
)

// Forecasts the next trading days' close per ticker from stored daily
// bars and writes the results to fact_price_prediction.
func main() {
	tickerFile := flag.String("tickers", "tickers.csv", "ticker file (csv or txt)")
	horizon := flag.Int("horizon", predict.DefaultHorizon, "business days to forecast")
	lookback := flag.Int("lookback", 250, "historical bars used to fit the model")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	logger := utils.NewLogger(*logLevel)
	defer logger.Sync()

	if err := run(context.Background(), *tickerFile, *horizon, *lookback, logger); err != nil {
		logger.Fatal("prediction failed", zap.Error(err))
	}
}

func run(ctx context.Context, tickerFile string, horizon, lookback int, logger *zap.Logger) error {
	tickers, err := ingest.LoadTickers(tickerFile)
	if err != nil {
		return err
	}

	if err := store.InitDB(ctx); err != nil {
		return err
	}
	defer store.Close()

	prices := store.NewPricesRepo(store.GetPool())
	predictions := store.NewPredictionsRepo(store.GetPool())
	runID := uuid.NewString()
	logger.Info("prediction run starting", zap.String("run_id", runID))

	for _, ticker := range tickers {
		bars, err := prices.DailyBars(ctx, ticker, lookback)
		if err != nil {
			logger.Warn("loading bars failed", zap.String("ticker", ticker), zap.Error(err))
			continue
		}

		forecasts, err := predict.Forecast(ticker, bars, horizon)
		if err != nil {
			logger.Warn("forecast skipped", zap.String("ticker", ticker), zap.Error(err))
			continue
		}

		rows := make([]store.PredictionRow, len(forecasts))
		for i, f := range forecasts {
			rows[i] = store.PredictionRow{
				TickerID:       f.Ticker,
				Date:           f.Date,
				PredictedClose: f.Close,
				Model:          predict.ModelName,
				RunID:          runID,
			}
		}
		if err := predictions.UpsertPredictions(ctx, rows); err != nil {
			logger.Warn("storing forecasts failed", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		logger.Info("forecasts stored",
			zap.String("ticker", ticker),
			zap.Int("days", len(rows)))
	}
	return nil
}
