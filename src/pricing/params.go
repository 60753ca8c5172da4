package pricing

import (
	"fmt"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

// Params are the inputs to a single valuation. TimeToExpiry is in years,
// Rate and Volatility are annualized. Negative and zero rates are allowed.
type Params struct {
	Spot         float64
	Strike       float64
	TimeToExpiry float64
	Rate         float64
	Volatility   float64
}

func (p Params) Validate() error {
	if p.Spot <= 0 {
		return &eventmodels.DataValidationError{Func: "pricing.Params.Validate", Reason: fmt.Sprintf("spot must be positive, got %v", p.Spot)}
	}

	if p.Strike <= 0 {
		return &eventmodels.DataValidationError{Func: "pricing.Params.Validate", Reason: fmt.Sprintf("strike must be positive, got %v", p.Strike)}
	}

	if p.TimeToExpiry < 0 {
		return &eventmodels.DataValidationError{Func: "pricing.Params.Validate", Reason: fmt.Sprintf("time to expiry must be non-negative, got %v", p.TimeToExpiry)}
	}

	if p.Volatility < 0 {
		return &eventmodels.DataValidationError{Func: "pricing.Params.Validate", Reason: fmt.Sprintf("volatility must be non-negative, got %v", p.Volatility)}
	}

	return nil
}
