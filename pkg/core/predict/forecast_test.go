package predict

import (
	"math"
	"testing"
	"time"

	"finstream/pkg/core/store"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func barsWithCloses(start time.Time, closes ...float64) []store.PriceBar {
	bars := make([]store.PriceBar, len(closes))
	d := start
	for i, c := range closes {
		bars[i] = store.PriceBar{TickerID: "TEST", Date: d, Close: c}
		d = nextBusinessDay(d)
	}
	return bars
}

func TestLeastSquaresExactLine(t *testing.T) {
	// y = 2x + 1
	slope, intercept, err := leastSquares([]float64{1, 2, 3, 4}, []float64{3, 5, 7, 9})
	if err != nil {
		t.Fatalf("leastSquares: %v", err)
	}
	if math.Abs(slope-2) > 1e-9 || math.Abs(intercept-1) > 1e-9 {
		t.Errorf("fit = (%v, %v), want (2, 1)", slope, intercept)
	}
}

func TestLeastSquaresZeroVariance(t *testing.T) {
	if _, _, err := leastSquares([]float64{5, 5, 5}, []float64{1, 2, 3}); err == nil {
		t.Error("expected error for zero-variance input")
	}
}

func TestLeastSquaresTooFew(t *testing.T) {
	if _, _, err := leastSquares([]float64{1}, []float64{2}); err == nil {
		t.Error("expected error for a single pair")
	}
}

func TestForecastWalkForward(t *testing.T) {
	// Closes follow next = prev + 1 exactly, so the fit is slope 1,
	// intercept 1 and the walk-forward keeps adding 1.
	bars := barsWithCloses(day(2026, time.August, 10), 100, 101, 102, 103, 104)

	preds, err := Forecast("TEST", bars, 5)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(preds) != 5 {
		t.Fatalf("got %d predictions, want 5", len(preds))
	}
	for i, p := range preds {
		want := 105.0 + float64(i)
		if math.Abs(p.Close-want) > 1e-6 {
			t.Errorf("prediction %d close = %v, want %v", i, p.Close, want)
		}
		if p.Ticker != "TEST" {
			t.Errorf("prediction %d ticker = %q", i, p.Ticker)
		}
	}
}

func TestForecastSkipsWeekends(t *testing.T) {
	// Last bar on Friday 2026-08-21; the five forecast days span the
	// following Monday through Friday.
	bars := barsWithCloses(day(2026, time.August, 17), 10, 11, 12, 13, 14)
	if last := bars[len(bars)-1].Date; last.Weekday() != time.Friday {
		t.Fatalf("fixture: last bar on %v, want Friday", last.Weekday())
	}

	preds, err := Forecast("TEST", bars, 5)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	wantDates := []time.Time{
		day(2026, time.August, 24),
		day(2026, time.August, 25),
		day(2026, time.August, 26),
		day(2026, time.August, 27),
		day(2026, time.August, 28),
	}
	for i, p := range preds {
		if !p.Date.Equal(wantDates[i]) {
			t.Errorf("prediction %d date = %v, want %v", i, p.Date, wantDates[i])
		}
		if wd := p.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("prediction %d lands on %v", i, wd)
		}
	}
}

func TestForecastTooFewBars(t *testing.T) {
	bars := barsWithCloses(day(2026, time.August, 10), 100, 101)
	if _, err := Forecast("TEST", bars, 5); err == nil {
		t.Error("expected error for too few bars")
	}
}

func TestForecastFlatSeries(t *testing.T) {
	bars := barsWithCloses(day(2026, time.August, 10), 50, 50, 50, 50)
	if _, err := Forecast("TEST", bars, 5); err == nil {
		t.Error("expected error for a flat series")
	}
}

func TestNextBusinessDay(t *testing.T) {
	// Friday -> Monday, Wednesday -> Thursday.
	if got := nextBusinessDay(day(2026, time.August, 21)); !got.Equal(day(2026, time.August, 24)) {
		t.Errorf("after Friday = %v", got)
	}
	if got := nextBusinessDay(day(2026, time.August, 19)); !got.Equal(day(2026, time.August, 20)) {
		t.Errorf("after Wednesday = %v", got)
	}
}
