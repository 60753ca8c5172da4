package eventmodels

import (
	"fmt"
	"time"
)

type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

func (c *Candle) Validate() error {
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return &DataValidationError{Func: "Candle.Validate", Reason: fmt.Sprintf("prices must be positive: O=%v H=%v L=%v C=%v", c.Open, c.High, c.Low, c.Close)}
	}

	if c.Low > c.High {
		return &DataValidationError{Func: "Candle.Validate", Reason: fmt.Sprintf("low %v is above high %v", c.Low, c.High)}
	}

	return nil
}
