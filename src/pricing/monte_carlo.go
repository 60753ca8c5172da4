package pricing

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

type MonteCarloResult struct {
	Price    float64
	StdError float64
	NumPaths int
}

// MonteCarloPrice estimates the European price by simulating terminal
// lognormal prices S_T = S exp((r - sigma^2/2)T + sigma sqrt(T) Z) and
// discounting the mean payoff. Paths are drawn in antithetic pairs, so
// numPaths is rounded down to an even count; each pair average is one sample
// for the standard error. The seed makes runs fully deterministic.
// Returns DataValidationError for bad inputs.
func MonteCarloPrice(p Params, optionType eventmodels.OptionType, numPaths int, seed int64) (MonteCarloResult, error) {
	if err := p.Validate(); err != nil {
		return MonteCarloResult{}, err
	}

	if err := optionType.Validate(); err != nil {
		return MonteCarloResult{}, &eventmodels.DataValidationError{Func: "pricing.MonteCarloPrice", Reason: err.Error()}
	}

	if numPaths < 2 {
		return MonteCarloResult{}, &eventmodels.DataValidationError{Func: "pricing.MonteCarloPrice", Reason: fmt.Sprintf("numPaths must be at least 2, got %d", numPaths)}
	}

	if p.TimeToExpiry == 0 || p.Volatility == 0 {
		price, err := BlackScholesPrice(p, optionType)
		if err != nil {
			return MonteCarloResult{}, err
		}

		return MonteCarloResult{Price: price, StdError: 0, NumPaths: numPaths}, nil
	}

	rng := rand.New(rand.NewSource(seed))

	drift := (p.Rate - 0.5*p.Volatility*p.Volatility) * p.TimeToExpiry
	volSqrtT := p.Volatility * math.Sqrt(p.TimeToExpiry)
	discount := math.Exp(-p.Rate * p.TimeToExpiry)

	pairs := numPaths / 2
	sum := 0.0
	sumSquares := 0.0

	for i := 0; i < pairs; i++ {
		z := rng.NormFloat64()

		upPayoff := terminalPayoff(p, optionType, drift+volSqrtT*z)
		downPayoff := terminalPayoff(p, optionType, drift-volSqrtT*z)

		sample := (upPayoff + downPayoff) / 2.0
		sum += sample
		sumSquares += sample * sample
	}

	n := float64(pairs)
	mean := sum / n
	variance := (sumSquares - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}

	return MonteCarloResult{
		Price:    discount * mean,
		StdError: discount * math.Sqrt(variance/n),
		NumPaths: pairs * 2,
	}, nil
}

func terminalPayoff(p Params, optionType eventmodels.OptionType, logReturn float64) float64 {
	terminal := p.Spot * math.Exp(logReturn)

	if optionType == eventmodels.Call {
		return math.Max(terminal-p.Strike, 0)
	}

	return math.Max(p.Strike-terminal, 0)
}
