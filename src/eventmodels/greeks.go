package eventmodels

import "fmt"

// Greeks holds the first and second order sensitivities of an option price.
// Theta is expressed per year, vega and rho per unit change of volatility
// and rate.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

func (g Greeks) Validate() error {
	if g.Delta < -1 || g.Delta > 1 {
		return &DataValidationError{Func: "Greeks.Validate", Reason: fmt.Sprintf("delta %v outside [-1, 1]", g.Delta)}
	}

	if g.Gamma < 0 {
		return &DataValidationError{Func: "Greeks.Validate", Reason: fmt.Sprintf("gamma %v must be non-negative", g.Gamma)}
	}

	if g.Vega < 0 {
		return &DataValidationError{Func: "Greeks.Validate", Reason: fmt.Sprintf("vega %v must be non-negative", g.Vega)}
	}

	return nil
}

// NewGreeks constructs a validated Greeks bundle. Invalid values are
// rejected, never clamped.
func NewGreeks(delta, gamma, theta, vega, rho float64) (Greeks, error) {
	g := Greeks{
		Delta: delta,
		Gamma: gamma,
		Theta: theta,
		Vega:  vega,
		Rho:   rho,
	}

	if err := g.Validate(); err != nil {
		return Greeks{}, err
	}

	return g, nil
}
