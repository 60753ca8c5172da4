package pricing

import (
	"math"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

// CalculateGreeks returns the closed-form Black-Scholes sensitivities.
// Theta is per year; divide by 365 for a daily theta. Gamma and vega are
// identical for calls and puts at the same strike and expiry.
//
// At TimeToExpiry == 0 or Volatility == 0 the option behaves like its
// intrinsic payoff: delta pins to 0 or +/-1 and the remaining greeks vanish.
// Returns DataValidationError for bad inputs.
func CalculateGreeks(p Params, optionType eventmodels.OptionType) (eventmodels.Greeks, error) {
	if err := p.Validate(); err != nil {
		return eventmodels.Greeks{}, err
	}

	if err := optionType.Validate(); err != nil {
		return eventmodels.Greeks{}, &eventmodels.DataValidationError{Func: "pricing.CalculateGreeks", Reason: err.Error()}
	}

	if p.TimeToExpiry == 0 || p.Volatility == 0 {
		return degenerateGreeks(p, optionType)
	}

	d1, d2 := dOneTwo(p)
	sqrtT := math.Sqrt(p.TimeToExpiry)
	discount := math.Exp(-p.Rate * p.TimeToExpiry)
	pdfD1 := normPDF(d1)

	var delta, theta, rho float64

	gamma := pdfD1 / (p.Spot * p.Volatility * sqrtT)
	vega := p.Spot * pdfD1 * sqrtT
	timeDecay := -p.Spot * pdfD1 * p.Volatility / (2 * sqrtT)

	if optionType == eventmodels.Call {
		delta = normCDF(d1)
		theta = timeDecay - p.Rate*p.Strike*discount*normCDF(d2)
		rho = p.Strike * p.TimeToExpiry * discount * normCDF(d2)
	} else {
		delta = normCDF(d1) - 1
		theta = timeDecay + p.Rate*p.Strike*discount*normCDF(-d2)
		rho = -p.Strike * p.TimeToExpiry * discount * normCDF(-d2)
	}

	return eventmodels.NewGreeks(delta, gamma, theta, vega, rho)
}

func degenerateGreeks(p Params, optionType eventmodels.OptionType) (eventmodels.Greeks, error) {
	var delta float64

	if optionType == eventmodels.Call {
		if p.Spot > p.Strike {
			delta = 1
		}
	} else {
		if p.Spot < p.Strike {
			delta = -1
		}
	}

	return eventmodels.NewGreeks(delta, 0, 0, 0, 0)
}
