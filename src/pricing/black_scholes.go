package pricing

import (
	"math"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

func intrinsicValue(p Params, optionType eventmodels.OptionType) float64 {
	if optionType == eventmodels.Call {
		return math.Max(p.Spot-p.Strike, 0)
	}

	return math.Max(p.Strike-p.Spot, 0)
}

// d1 = (ln(S/K) + (r + sigma^2/2)T) / (sigma sqrt(T)), d2 = d1 - sigma sqrt(T)
func dOneTwo(p Params) (float64, float64) {
	volSqrtT := p.Volatility * math.Sqrt(p.TimeToExpiry)
	d1 := (math.Log(p.Spot/p.Strike) + (p.Rate+0.5*p.Volatility*p.Volatility)*p.TimeToExpiry) / volSqrtT
	return d1, d1 - volSqrtT
}

// BlackScholesPrice returns the closed-form European price.
//
// Edge policy: TimeToExpiry == 0 returns the intrinsic value without
// evaluating d1/d2; Volatility == 0 degenerates to the discounted intrinsic
// value floored at zero. Returns DataValidationError for bad inputs.
func BlackScholesPrice(p Params, optionType eventmodels.OptionType) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	if err := optionType.Validate(); err != nil {
		return 0, &eventmodels.DataValidationError{Func: "pricing.BlackScholesPrice", Reason: err.Error()}
	}

	if p.TimeToExpiry == 0 {
		return intrinsicValue(p, optionType), nil
	}

	discount := math.Exp(-p.Rate * p.TimeToExpiry)

	if p.Volatility == 0 {
		var forwardValue float64
		if optionType == eventmodels.Call {
			forwardValue = p.Spot - p.Strike*discount
		} else {
			forwardValue = p.Strike*discount - p.Spot
		}

		return math.Max(forwardValue, 0), nil
	}

	d1, d2 := dOneTwo(p)

	if optionType == eventmodels.Call {
		return p.Spot*normCDF(d1) - p.Strike*discount*normCDF(d2), nil
	}

	return p.Strike*discount*normCDF(-d2) - p.Spot*normCDF(-d1), nil
}
