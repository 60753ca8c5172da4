package backtester

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

// DataFeed resolves a price for an instrument at a point in simulated time.
// The second return is false when the feed has no observation at or before t.
type DataFeed interface {
	GetPrice(symbol string, t time.Time) (float64, bool)
}

// HistoricalFeed serves candle closes keyed by instrument. Lookups return
// the most recent candle at or before the requested time (carry-forward).
type HistoricalFeed struct {
	candles map[string][]eventmodels.Candle
}

func NewHistoricalFeed() *HistoricalFeed {
	return &HistoricalFeed{
		candles: make(map[string][]eventmodels.Candle),
	}
}

// AddCandles registers a candle series for a symbol. The series is validated
// and sorted by timestamp.
func (f *HistoricalFeed) AddCandles(symbol string, candles []eventmodels.Candle) error {
	for i := range candles {
		if err := candles[i].Validate(); err != nil {
			return fmt.Errorf("HistoricalFeed.AddCandles: %s candle %d: %w", symbol, i, err)
		}
	}

	series := append([]eventmodels.Candle(nil), candles...)
	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	f.candles[symbol] = series
	return nil
}

func (f *HistoricalFeed) GetPrice(symbol string, t time.Time) (float64, bool) {
	series, found := f.candles[symbol]
	if !found || len(series) == 0 {
		return 0, false
	}

	// first candle strictly after t
	pos := sort.Search(len(series), func(i int) bool {
		return series[i].Timestamp.After(t)
	})

	if pos == 0 {
		return 0, false
	}

	return series[pos-1].Close, true
}

// SimulatedFeed synthesizes an underlying price path by geometric Brownian
// motion, pre-generated on construction so identical seeds yield identical
// backtests. Option legs have no simulated quotes; the engine falls back to
// model prices for them.
type SimulatedFeed struct {
	historical *HistoricalFeed
}

func NewSimulatedFeed(symbol string, initialPrice, drift, vol float64, startTime, endTime time.Time, step time.Duration, seed int64) (*SimulatedFeed, error) {
	if initialPrice <= 0 {
		return nil, &eventmodels.DataValidationError{Func: "backtester.NewSimulatedFeed", Reason: fmt.Sprintf("initial price must be positive, got %v", initialPrice)}
	}

	if step <= 0 {
		return nil, &eventmodels.DataValidationError{Func: "backtester.NewSimulatedFeed", Reason: "step must be positive"}
	}

	if !endTime.After(startTime) {
		return nil, &eventmodels.DataValidationError{Func: "backtester.NewSimulatedFeed", Reason: "end time must be after start time"}
	}

	rng := rand.New(rand.NewSource(seed))
	dt := step.Hours() / 24.0 / 365.0

	candles := make([]eventmodels.Candle, 0)
	price := initialPrice

	for t := startTime; !t.After(endTime); t = t.Add(step) {
		candles = append(candles, eventmodels.Candle{
			Timestamp: t,
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
		})

		z := rng.NormFloat64()
		price *= math.Exp((drift-0.5*vol*vol)*dt + vol*math.Sqrt(dt)*z)
	}

	historical := NewHistoricalFeed()
	if err := historical.AddCandles(symbol, candles); err != nil {
		return nil, err
	}

	return &SimulatedFeed{historical: historical}, nil
}

func (f *SimulatedFeed) GetPrice(symbol string, t time.Time) (float64, bool) {
	return f.historical.GetPrice(symbol, t)
}
