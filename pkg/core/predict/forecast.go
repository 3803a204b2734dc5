// Package predict produces short-horizon close price forecasts from
// daily bars.
package predict

import (
	"fmt"
	"time"

	"finstream/pkg/core/store"
)

// ModelName identifies the forecasting model in stored predictions.
const ModelName = "linreg_prev_close"

// DefaultHorizon is the number of future trading days forecast per
// ticker.
const DefaultHorizon = 5

// Prediction is one forecast trading day.
type Prediction struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
}

// Forecast fits a least-squares regression of each day's close on the
// previous day's close, then walks it forward horizon business days,
// feeding each prediction back in as the next day's input. Bars must
// be in ascending date order.
func Forecast(ticker string, bars []store.PriceBar, horizon int) ([]Prediction, error) {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if len(bars) < 3 {
		return nil, fmt.Errorf("need at least 3 bars for %s, have %d", ticker, len(bars))
	}

	// Pair each close with the previous day's close.
	var xs, ys []float64
	for i := 1; i < len(bars); i++ {
		xs = append(xs, bars[i-1].Close)
		ys = append(ys, bars[i].Close)
	}

	slope, intercept, err := leastSquares(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("fitting model for %s: %w", ticker, err)
	}

	lastClose := bars[len(bars)-1].Close
	date := bars[len(bars)-1].Date

	predictions := make([]Prediction, 0, horizon)
	for i := 0; i < horizon; i++ {
		date = nextBusinessDay(date)
		lastClose = slope*lastClose + intercept
		predictions = append(predictions, Prediction{
			Ticker: ticker,
			Date:   date,
			Close:  lastClose,
		})
	}
	return predictions, nil
}

// leastSquares fits y = slope*x + intercept. Zero variance in x (a
// flat price series) has no defined slope.
func leastSquares(xs, ys []float64) (slope, intercept float64, err error) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, 0, fmt.Errorf("need at least 2 observation pairs, have %d", len(xs))
	}

	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var ssXY, ssXX float64
	for i := range xs {
		dx := xs[i] - meanX
		ssXY += dx * (ys[i] - meanY)
		ssXX += dx * dx
	}
	if ssXX == 0 {
		return 0, 0, fmt.Errorf("input series has zero variance")
	}

	slope = ssXY / ssXX
	intercept = meanY - slope*meanX
	return slope, intercept, nil
}

// nextBusinessDay returns the next weekday after d. Exchange holidays
// are not modeled; forecasts landing on one shift to the stored date's
// next real session when prices arrive.
func nextBusinessDay(d time.Time) time.Time {
	for {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			return d
		}
	}
}
