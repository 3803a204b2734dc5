package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"finstream/pkg/core/chunk"
	"finstream/pkg/core/config"
	"finstream/pkg/core/embed"
	"finstream/pkg/core/filing"
	"finstream/pkg/core/ingest"
	"finstream/pkg/core/pipeline"
	"finstream/pkg/core/store"
	"finstream/pkg/core/utils"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	tickerFile := flag.String("tickers", "", "ticker file override")
	cleanup := flag.Bool("cleanup", false, "remove downloaded filings and extraction JSON after the run")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if *tickerFile != "" {
		cfg.TickerFile = *tickerFile
	}

	logger := utils.NewLogger(cfg.Logging.Level)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *cleanup, logger); err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, cleanup bool, logger *zap.Logger) error {
	tickers, err := ingest.LoadTickers(cfg.TickerFile)
	if err != nil {
		return err
	}
	logger.Info("loaded ticker universe", zap.Int("count", len(tickers)))

	if err := store.InitDB(ctx); err != nil {
		return err
	}
	defer store.Close()

	embedder, err := embed.NewGeminiEmbedder(ctx, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	if err != nil {
		return err
	}

	chunker, err := chunk.New(cfg.Chunk.Size, cfg.Chunk.Overlap)
	if err != nil {
		return err
	}

	client := ingest.NewEDGARClient(cfg.UserAgent)
	downloader := ingest.NewDownloader(client, cfg.DataDir, logger)
	loader := pipeline.NewChunkEmbedLoader(chunker, embedder, store.NewChunksRepo(store.GetPool()), logger)
	orchestrator := pipeline.NewOrchestrator(downloader, filing.NewDefault(), loader, cfg.Period, logger)

	summary, runErr := orchestrator.Run(ctx, tickers)
	if summary != nil {
		out, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(out))
	}

	if cleanup {
		if err := pipeline.Cleanup(cfg.DataDir); err != nil {
			logger.Warn("cleanup failed", zap.Error(err))
		}
	}
	return runErr
}
