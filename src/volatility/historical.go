package volatility

import (
	"fmt"
	"math"

	"github.com/jiaming2012/options-lab/src/eventmodels"
	"github.com/jiaming2012/options-lab/src/solvers"
)

// TradingPeriodsPerYear annualizes per-observation volatility. Crypto
// markets trade every day.
const TradingPeriodsPerYear = 365.0

// HistoricalVolatility returns the annualized sample standard deviation of
// log returns over the trailing window observations. Requires window+1
// prices; returns InsufficientDataError otherwise.
func HistoricalVolatility(prices []float64, window int) (float64, error) {
	if window < 2 {
		return 0, &eventmodels.DataValidationError{Func: "volatility.HistoricalVolatility", Reason: fmt.Sprintf("window must be at least 2, got %d", window)}
	}

	if len(prices) < window+1 {
		return 0, &eventmodels.InsufficientDataError{Func: "volatility.HistoricalVolatility", Need: window + 1, Have: len(prices)}
	}

	trailing := prices[len(prices)-window-1:]

	returns, err := solvers.LogReturns(trailing)
	if err != nil {
		return 0, &eventmodels.DataValidationError{Func: "volatility.HistoricalVolatility", Reason: err.Error()}
	}

	sd, err := solvers.StdDev(returns)
	if err != nil {
		return 0, fmt.Errorf("HistoricalVolatility: failed to calculate the standard deviation: %w", err)
	}

	return sd * math.Sqrt(TradingPeriodsPerYear), nil
}
