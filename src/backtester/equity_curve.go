package backtester

import "time"

type EquityPoint struct {
	Timestamp time.Time
	Value     float64
}

// EquityCurve is the ordered per-step portfolio value series produced by a
// single backtest run.
type EquityCurve []EquityPoint

// StepReturns converts the curve into simple per-step returns.
func (e EquityCurve) StepReturns() []float64 {
	if len(e) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		if e[i-1].Value == 0 {
			returns = append(returns, 0)
			continue
		}

		returns = append(returns, e[i].Value/e[i-1].Value-1)
	}

	return returns
}

// MaxDrawdown returns the largest peak-to-trough decline as a fraction of
// the peak, along with the duration from the peak to the trough.
func (e EquityCurve) MaxDrawdown() (float64, time.Duration) {
	if len(e) == 0 {
		return 0, 0
	}

	peak := e[0]
	maxDrawdown := 0.0
	var maxDuration time.Duration

	for _, point := range e[1:] {
		if point.Value > peak.Value {
			peak = point
			continue
		}

		if peak.Value <= 0 {
			continue
		}

		drawdown := (peak.Value - point.Value) / peak.Value
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
			maxDuration = point.Timestamp.Sub(peak.Timestamp)
		}
	}

	return maxDrawdown, maxDuration
}
