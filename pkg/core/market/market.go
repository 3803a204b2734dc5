// Package market pulls daily OHLCV bars from the Alpaca market data
// API for the price fact table.
package market

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"finstream/pkg/core/store"
)

// Client wraps the Alpaca market data client.
type Client struct {
	md *marketdata.Client
}

// NewClientFromEnv builds a client from ALPACA_API_KEY and
// ALPACA_SECRET_KEY.
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("ALPACA_API_KEY")
	apiSecret := os.Getenv("ALPACA_SECRET_KEY")
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("ALPACA_API_KEY and ALPACA_SECRET_KEY must be set")
	}

	return &Client{
		md: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}, nil
}

// DailyBars fetches split-adjusted daily bars for a symbol over
// [start, end] and converts them to fact table rows.
func (c *Client) DailyBars(symbol string, start, end time.Time) ([]store.PriceBar, error) {
	bars, err := c.md.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Start:      start,
		End:        end,
		Adjustment: marketdata.Split,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching bars for %s: %w", symbol, err)
	}
	return convertBars(symbol, bars), nil
}

// convertBars maps API bars onto fact table rows, truncating the
// timestamp to its date and rounding prices to 4 decimal places.
func convertBars(symbol string, bars []marketdata.Bar) []store.PriceBar {
	out := make([]store.PriceBar, 0, len(bars))
	for _, b := range bars {
		ts := b.Timestamp.UTC()
		out = append(out, store.PriceBar{
			TickerID: symbol,
			Date:     time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Open:     round4(b.Open),
			High:     round4(b.High),
			Low:      round4(b.Low),
			Close:    round4(b.Close),
			Volume:   int64(b.Volume),
		})
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
