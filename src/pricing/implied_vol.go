package pricing

import (
	"fmt"
	"math"

	"github.com/jiaming2012/options-lab/src/eventmodels"
	"github.com/jiaming2012/options-lab/src/solvers"
)

const (
	ivLowerBound    = 1e-6
	ivUpperBound    = 5.0
	ivTolerance     = 1e-8
	ivMaxIterations = 100
)

// ImpliedVolatility inverts BlackScholesPrice over the volatility domain
// (1e-6, 5.0) using Newton iteration with vega as the derivative, clamped to
// a bisection bracket. Market prices outside the no-arbitrage band, or
// inversion failures, are reported as ConvergenceError; bad inputs as
// DataValidationError.
func ImpliedVolatility(marketPrice, spot, strike, timeToExpiry, rate float64, optionType eventmodels.OptionType) (float64, error) {
	base := Params{Spot: spot, Strike: strike, TimeToExpiry: timeToExpiry, Rate: rate}
	if err := base.Validate(); err != nil {
		return 0, err
	}

	if err := optionType.Validate(); err != nil {
		return 0, &eventmodels.DataValidationError{Func: "pricing.ImpliedVolatility", Reason: err.Error()}
	}

	if timeToExpiry == 0 {
		return 0, &eventmodels.DataValidationError{Func: "pricing.ImpliedVolatility", Reason: "time to expiry must be positive to invert a price"}
	}

	if marketPrice <= 0 {
		return 0, &eventmodels.DataValidationError{Func: "pricing.ImpliedVolatility", Reason: fmt.Sprintf("market price must be positive, got %v", marketPrice)}
	}

	// no-arbitrage band: below the discounted intrinsic value or above the
	// T -> infinity bound the root cannot be bracketed
	discount := math.Exp(-rate * timeToExpiry)

	var lowerBound, upperBound float64
	if optionType == eventmodels.Call {
		lowerBound = math.Max(spot-strike*discount, 0)
		upperBound = spot
	} else {
		lowerBound = math.Max(strike*discount-spot, 0)
		upperBound = strike * discount
	}

	if marketPrice < lowerBound || marketPrice > upperBound {
		return 0, &eventmodels.ConvergenceError{
			Func:       "pricing.ImpliedVolatility",
			Iterations: 0,
			LastValue:  marketPrice,
			Err:        fmt.Errorf("market price %v outside no-arbitrage bounds [%v, %v]", marketPrice, lowerBound, upperBound),
		}
	}

	priceDiff := func(vol float64) float64 {
		p := base
		p.Volatility = vol
		price, err := BlackScholesPrice(p, optionType)
		if err != nil {
			return math.NaN()
		}

		return price - marketPrice
	}

	vega := func(vol float64) float64 {
		p := base
		p.Volatility = vol
		d1, _ := dOneTwo(p)
		return p.Spot * normPDF(d1) * math.Sqrt(p.TimeToExpiry)
	}

	vol, err := solvers.NewtonBisection(priceDiff, vega, ivLowerBound, ivUpperBound, 0.5, ivTolerance, ivMaxIterations)
	if err != nil {
		return 0, &eventmodels.ConvergenceError{
			Func:       "pricing.ImpliedVolatility",
			Iterations: ivMaxIterations,
			LastValue:  vol,
			Err:        err,
		}
	}

	return vol, nil
}
