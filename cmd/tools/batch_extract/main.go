package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"

	"finstream/pkg/core/filing"
	"finstream/pkg/core/ingest"
	"finstream/pkg/core/utils"
)

// Runs section extraction against already downloaded filings, without
// touching the database. Useful for inspecting extraction quality on
// its own.
func main() {
	tickerFile := flag.String("tickers", "", "ticker file (csv or txt)")
	tickerList := flag.String("symbols", "", "comma-separated tickers, overrides -tickers")
	saveDir := flag.String("dir", "data", "directory holding downloaded filings")
	period := flag.String("period", "", "filing period override, e.g. \"September 28, 2024\"")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	var tickers []string
	var err error
	switch {
	case *tickerList != "":
		for _, t := range strings.Split(*tickerList, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tickers = append(tickers, t)
			}
		}
	case *tickerFile != "":
		tickers, err = ingest.LoadTickers(*tickerFile)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		log.Fatal("Error: provide -tickers or -symbols")
	}

	logger := utils.NewLogger(*logLevel)
	defer logger.Sync()

	result, runErr := filing.NewDefault().BatchExtract(tickers, *saveDir, *period, logger)
	if result != nil {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
	}
	if runErr != nil {
		log.Fatalf("Error: %v", runErr)
	}
}
