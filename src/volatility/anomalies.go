package volatility

import (
	"fmt"
	"math"

	"github.com/jiaming2012/options-lab/src/eventmodels"
	"github.com/jiaming2012/options-lab/src/solvers"
)

type AnomalyKind string

const (
	AnomalySpike AnomalyKind = "spike"
	AnomalyDrop  AnomalyKind = "drop"
)

type Anomaly struct {
	Index    int
	Value    float64
	ZScore   float64
	Severity float64
	Kind     AnomalyKind
}

// DetectAnomalies flags points whose rolling z-score exceeds threshold in
// magnitude. The z-score of series[i] is computed against the trailing
// window points before i. Severity is |z| / threshold, so 1.0 marks the
// detection boundary. Returns DataValidationError or InsufficientDataError.
func DetectAnomalies(series []float64, window int, threshold float64) ([]Anomaly, error) {
	if window < 2 {
		return nil, &eventmodels.DataValidationError{Func: "volatility.DetectAnomalies", Reason: fmt.Sprintf("window must be at least 2, got %d", window)}
	}

	if threshold <= 0 {
		return nil, &eventmodels.DataValidationError{Func: "volatility.DetectAnomalies", Reason: fmt.Sprintf("threshold must be positive, got %v", threshold)}
	}

	if len(series) < window+1 {
		return nil, &eventmodels.InsufficientDataError{Func: "volatility.DetectAnomalies", Need: window + 1, Have: len(series)}
	}

	anomalies := make([]Anomaly, 0)

	for i := window; i < len(series); i++ {
		trailing := series[i-window : i]

		mean, err := solvers.Mean(trailing)
		if err != nil {
			return nil, fmt.Errorf("DetectAnomalies: failed to calculate mean at index %d: %w", i, err)
		}

		sd, err := solvers.StdDev(trailing)
		if err != nil {
			return nil, fmt.Errorf("DetectAnomalies: failed to calculate the standard deviation at index %d: %w", i, err)
		}

		if sd == 0 {
			continue // flat window, no scale to measure against
		}

		z := (series[i] - mean) / sd
		if math.Abs(z) <= threshold {
			continue
		}

		kind := AnomalySpike
		if z < 0 {
			kind = AnomalyDrop
		}

		anomalies = append(anomalies, Anomaly{
			Index:    i,
			Value:    series[i],
			ZScore:   z,
			Severity: math.Abs(z) / threshold,
			Kind:     kind,
		})
	}

	return anomalies, nil
}
