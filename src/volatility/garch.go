package volatility

import (
	"fmt"
	"math"

	"github.com/jiaming2012/options-lab/src/eventmodels"
	"github.com/jiaming2012/options-lab/src/solvers"
)

// Fixed GARCH(1,1) parameters. Omega is chosen so that the long-run
// variance equals the sample variance of the supplied returns:
// omega = sampleVar * (1 - alpha - beta).
const (
	garchAlpha = 0.10
	garchBeta  = 0.85
)

const garchMinObservations = 10

type GarchResult struct {
	Omega float64
	Alpha float64
	Beta  float64

	// Forecast holds the annualized volatility forecast for each step of
	// the horizon. Forecast[0] is the one-step-ahead value.
	Forecast []float64

	// ConditionalVol is the fitted annualized conditional-volatility path,
	// one entry per input return.
	ConditionalVol []float64

	// LongRunVol is the annualized volatility the forecast reverts to.
	LongRunVol float64
}

// GarchForecast runs the GARCH(1,1) variance recursion
//
//	sigma2_t = omega + alpha*r2_{t-1} + beta*sigma2_{t-1}
//
// over the supplied per-period returns and extends it horizon steps ahead,
// where each further step reverts toward the long-run variance via
// sigma2_{k+1} = omega + (alpha+beta)*sigma2_k. Returns are assumed to be
// one per trading period (daily). Returns InsufficientDataError when fewer
// than 10 observations are supplied.
func GarchForecast(returns []float64, horizon int) (*GarchResult, error) {
	if horizon < 1 {
		return nil, &eventmodels.DataValidationError{Func: "volatility.GarchForecast", Reason: fmt.Sprintf("horizon must be at least 1, got %d", horizon)}
	}

	if len(returns) < garchMinObservations {
		return nil, &eventmodels.InsufficientDataError{Func: "volatility.GarchForecast", Need: garchMinObservations, Have: len(returns)}
	}

	mean, err := solvers.Mean(returns)
	if err != nil {
		return nil, fmt.Errorf("GarchForecast: failed to calculate mean: %w", err)
	}

	sampleVar := 0.0
	for _, r := range returns {
		sampleVar += (r - mean) * (r - mean)
	}
	sampleVar /= float64(len(returns) - 1)

	if sampleVar == 0 {
		return nil, &eventmodels.DataValidationError{Func: "volatility.GarchForecast", Reason: "returns have zero variance"}
	}

	omega := sampleVar * (1 - garchAlpha - garchBeta)

	annualize := func(variance float64) float64 {
		return math.Sqrt(variance * TradingPeriodsPerYear)
	}

	conditional := make([]float64, len(returns))
	variance := sampleVar
	conditional[0] = annualize(variance)

	for t := 1; t < len(returns); t++ {
		variance = omega + garchAlpha*returns[t-1]*returns[t-1] + garchBeta*variance
		conditional[t] = annualize(variance)
	}

	forecast := make([]float64, horizon)
	next := omega + garchAlpha*returns[len(returns)-1]*returns[len(returns)-1] + garchBeta*variance
	forecast[0] = annualize(next)

	for k := 1; k < horizon; k++ {
		next = omega + (garchAlpha+garchBeta)*next
		forecast[k] = annualize(next)
	}

	return &GarchResult{
		Omega:          omega,
		Alpha:          garchAlpha,
		Beta:           garchBeta,
		Forecast:       forecast,
		ConditionalVol: conditional,
		LongRunVol:     annualize(sampleVar),
	}, nil
}
