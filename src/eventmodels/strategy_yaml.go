package eventmodels

import (
	"fmt"
	"time"
)

type StrategyLegYAML struct {
	Symbol     string  `yaml:"symbol"`
	Type       string  `yaml:"type"`
	Strike     float64 `yaml:"strike"`
	Expiration string  `yaml:"expiration"`
	Action     string  `yaml:"action"`
	Quantity   float64 `yaml:"quantity"`
	ImpliedVol float64 `yaml:"impliedVol,omitempty"`
}

type StrategyYAML struct {
	Name       string            `yaml:"name"`
	Type       string            `yaml:"type"`
	Underlying string            `yaml:"underlying"`
	Legs       []StrategyLegYAML `yaml:"legs"`
}

func (y *StrategyYAML) ToModel() (*Strategy, error) {
	legs := make([]StrategyLeg, 0, len(y.Legs))
	for i, leg := range y.Legs {
		expiration, err := time.Parse("2006-01-02", leg.Expiration)
		if err != nil {
			expiration, err = time.Parse(time.RFC3339, leg.Expiration)
			if err != nil {
				return nil, fmt.Errorf("StrategyYAML: ToModel: leg %d: error parsing expiration %q: %w", i, leg.Expiration, err)
			}
		}

		contract := OptionContract{
			Symbol:     leg.Symbol,
			Underlying: y.Underlying,
			OptionType: OptionType(leg.Type),
			Strike:     leg.Strike,
			Expiration: expiration,
		}

		if leg.ImpliedVol > 0 {
			contract.Quote = &OptionQuote{ImpliedVolatility: leg.ImpliedVol}
		}

		legs = append(legs, StrategyLeg{
			Contract: contract,
			Action:   TradeAction(leg.Action),
			Quantity: leg.Quantity,
		})
	}

	return NewStrategy(y.Name, StrategyType(y.Type), legs), nil
}
