package eventmodels

import (
	"fmt"
	"math"
	"time"
)

// OptionQuote is an observed market snapshot for a contract. A zero field
// means the venue did not publish that value.
type OptionQuote struct {
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	Last              float64 `json:"last"`
	Mark              float64 `json:"mark"`
	Volume            int     `json:"volume"`
	OpenInterest      int     `json:"open_interest"`
	ImpliedVolatility float64 `json:"implied_volatility"`
	Greeks            *Greeks `json:"greeks,omitempty"`
}

// MarkPrice prefers the published mark, then the bid/ask midpoint, then the
// last trade. Returns 0 when no usable price was published.
func (q *OptionQuote) MarkPrice() float64 {
	if q == nil {
		return 0
	}

	if q.Mark > 0 {
		return q.Mark
	}

	if q.Bid > 0 && q.Ask > 0 {
		return (q.Bid + q.Ask) / 2.0
	}

	return q.Last
}

// OptionContract is immutable once constructed for a given valuation;
// re-fetched snapshots create new instances.
type OptionContract struct {
	Symbol     string       `json:"symbol"`
	Underlying string       `json:"underlying"`
	OptionType OptionType   `json:"option_type"`
	Strike     float64      `json:"strike"`
	Expiration time.Time    `json:"expiration"`
	Quote      *OptionQuote `json:"quote,omitempty"`
}

func (c *OptionContract) Validate() error {
	if c.Symbol == "" {
		return &DataValidationError{Func: "OptionContract.Validate", Reason: "symbol is empty"}
	}

	if err := c.OptionType.Validate(); err != nil {
		return &DataValidationError{Func: "OptionContract.Validate", Reason: err.Error()}
	}

	if c.Strike <= 0 {
		return &DataValidationError{Func: "OptionContract.Validate", Reason: fmt.Sprintf("strike must be positive, got %v", c.Strike)}
	}

	if c.Expiration.IsZero() {
		return &DataValidationError{Func: "OptionContract.Validate", Reason: "expiration is not set"}
	}

	if c.Quote != nil && c.Quote.Greeks != nil {
		if err := c.Quote.Greeks.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (c *OptionContract) IsExpired(now time.Time) bool {
	return !c.Expiration.After(now)
}

// TimeToExpiry returns the remaining lifetime in years, clamped at 0.
func (c *OptionContract) TimeToExpiry(now time.Time) float64 {
	years := c.Expiration.Sub(now).Hours() / 24.0 / 365.0
	return math.Max(years, 0)
}

func (c *OptionContract) IntrinsicValue(spot float64) float64 {
	if c.OptionType == Call {
		return math.Max(spot-c.Strike, 0)
	}

	return math.Max(c.Strike-spot, 0)
}
