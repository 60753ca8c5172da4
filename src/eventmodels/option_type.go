package eventmodels

import "fmt"

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

func (o OptionType) Validate() error {
	if o != Call && o != Put {
		return fmt.Errorf("OptionType: Validate: invalid option type: %s", o)
	}

	return nil
}

type TradeAction string

const (
	TradeActionBuy  TradeAction = "buy"
	TradeActionSell TradeAction = "sell"
)

func (a TradeAction) Validate() error {
	if a != TradeActionBuy && a != TradeActionSell {
		return fmt.Errorf("TradeAction: Validate: invalid trade action: %s", a)
	}

	return nil
}

// Sign returns +1 for buys and -1 for sells.
func (a TradeAction) Sign() float64 {
	if a == TradeActionSell {
		return -1
	}

	return 1
}
