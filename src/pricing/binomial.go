package pricing

import (
	"fmt"
	"math"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

// BinomialTreePrice prices an option on a Cox-Ross-Rubinstein lattice.
// With american == true, backward induction takes max(intrinsic, discounted
// continuation value) at every interior node. As steps grows the european
// price converges to Black-Scholes.
//
// Degenerate inputs (TimeToExpiry == 0 or Volatility == 0) delegate to
// BlackScholesPrice, which already carries the intrinsic-value policy.
// Returns DataValidationError or PricingModelError.
func BinomialTreePrice(p Params, optionType eventmodels.OptionType, steps int, american bool) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	if err := optionType.Validate(); err != nil {
		return 0, &eventmodels.DataValidationError{Func: "pricing.BinomialTreePrice", Reason: err.Error()}
	}

	if steps < 1 {
		return 0, &eventmodels.DataValidationError{Func: "pricing.BinomialTreePrice", Reason: fmt.Sprintf("steps must be at least 1, got %d", steps)}
	}

	if p.TimeToExpiry == 0 || p.Volatility == 0 {
		return BlackScholesPrice(p, optionType)
	}

	dt := p.TimeToExpiry / float64(steps)
	up := math.Exp(p.Volatility * math.Sqrt(dt))
	down := 1 / up
	growth := math.Exp(p.Rate * dt)
	probUp := (growth - down) / (up - down)

	if probUp < 0 || probUp > 1 {
		return 0, &eventmodels.PricingModelError{
			Method: "pricing.BinomialTreePrice",
			Err:    fmt.Errorf("risk-neutral probability %v outside [0, 1]: rate %v too large for step size %v", probUp, p.Rate, dt),
		}
	}

	discount := 1 / growth

	// terminal payoffs
	values := make([]float64, steps+1)
	for i := 0; i <= steps; i++ {
		spot := p.Spot * math.Pow(up, float64(i)) * math.Pow(down, float64(steps-i))
		values[i] = intrinsicValue(Params{Spot: spot, Strike: p.Strike}, optionType)
	}

	for step := steps - 1; step >= 0; step-- {
		for i := 0; i <= step; i++ {
			continuation := discount * (probUp*values[i+1] + (1-probUp)*values[i])

			if american {
				spot := p.Spot * math.Pow(up, float64(i)) * math.Pow(down, float64(step-i))
				exercise := intrinsicValue(Params{Spot: spot, Strike: p.Strike}, optionType)
				values[i] = math.Max(continuation, exercise)
			} else {
				values[i] = continuation
			}
		}
	}

	return values[0], nil
}
