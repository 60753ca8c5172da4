package eventmodels

import (
	"fmt"
	"time"
)

type CsvCandleDTO struct {
	Timestamp string  `csv:"time"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

func (c *CsvCandleDTO) ToModel() (*Candle, error) {
	t, err := time.Parse(time.RFC3339, c.Timestamp)
	if err != nil {
		t, err = time.Parse("2006-01-02", c.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("CsvCandleDTO: ToModel: error parsing time %q: %w", c.Timestamp, err)
		}
	}

	candle := &Candle{
		Timestamp: t,
		Open:      c.Open,
		High:      c.High,
		Low:       c.Low,
		Close:     c.Close,
		Volume:    c.Volume,
	}

	if err := candle.Validate(); err != nil {
		return nil, err
	}

	return candle, nil
}
