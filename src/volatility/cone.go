package volatility

import (
	"fmt"
	"sort"

	"github.com/jiaming2012/options-lab/src/eventmodels"
	"github.com/jiaming2012/options-lab/src/solvers"
)

// ConeLevel summarizes the distribution of historical volatility for one
// window size across every trailing sub-window of the price series, plus the
// most recent value.
type ConeLevel struct {
	Window  int
	Min     float64
	P25     float64
	Median  float64
	P75     float64
	Max     float64
	Current float64
}

// VolatilityCone computes a ConeLevel per window size, used to contextualize
// current implied vol against historical regimes. The series must cover the
// largest window; returns InsufficientDataError otherwise.
func VolatilityCone(prices []float64, windows []int) ([]ConeLevel, error) {
	if len(windows) == 0 {
		return nil, &eventmodels.DataValidationError{Func: "volatility.VolatilityCone", Reason: "at least one window size is required"}
	}

	cone := make([]ConeLevel, 0, len(windows))

	for _, window := range windows {
		if window < 2 {
			return nil, &eventmodels.DataValidationError{Func: "volatility.VolatilityCone", Reason: fmt.Sprintf("window must be at least 2, got %d", window)}
		}

		if len(prices) < window+1 {
			return nil, &eventmodels.InsufficientDataError{Func: "volatility.VolatilityCone", Need: window + 1, Have: len(prices)}
		}

		subWindows, err := solvers.RollingWindows(prices, window+1)
		if err != nil {
			return nil, fmt.Errorf("VolatilityCone: %w", err)
		}

		vols := make([]float64, 0, len(subWindows))
		for _, sub := range subWindows {
			vol, err := HistoricalVolatility(sub, window)
			if err != nil {
				return nil, fmt.Errorf("VolatilityCone: window %d: %w", window, err)
			}

			vols = append(vols, vol)
		}

		level := ConeLevel{Window: window, Current: vols[len(vols)-1]}

		sorted := append([]float64(nil), vols...)
		sort.Float64s(sorted)
		level.Min = sorted[0]
		level.Max = sorted[len(sorted)-1]

		if level.P25, err = solvers.Percentile(vols, 25); err != nil {
			return nil, fmt.Errorf("VolatilityCone: window %d: %w", window, err)
		}

		if level.Median, err = solvers.Median(vols); err != nil {
			return nil, fmt.Errorf("VolatilityCone: window %d: %w", window, err)
		}

		if level.P75, err = solvers.Percentile(vols, 75); err != nil {
			return nil, fmt.Errorf("VolatilityCone: window %d: %w", window, err)
		}

		cone = append(cone, level)
	}

	return cone, nil
}
