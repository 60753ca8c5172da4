package eventmodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptionQuoteMarkPrice(t *testing.T) {
	t.Run("published mark wins", func(t *testing.T) {
		q := &OptionQuote{Mark: 105, Bid: 100, Ask: 108, Last: 99}
		assert.Equal(t, 105.0, q.MarkPrice())
	})

	t.Run("falls back to bid ask midpoint", func(t *testing.T) {
		q := &OptionQuote{Bid: 100, Ask: 108, Last: 99}
		assert.Equal(t, 104.0, q.MarkPrice())
	})

	t.Run("falls back to last trade", func(t *testing.T) {
		q := &OptionQuote{Last: 99}
		assert.Equal(t, 99.0, q.MarkPrice())
	})

	t.Run("nil quote is zero", func(t *testing.T) {
		var q *OptionQuote
		assert.Equal(t, 0.0, q.MarkPrice())
	})
}

func TestOptionContract(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("time to expiry clamps at zero", func(t *testing.T) {
		c := OptionContract{Expiration: now.AddDate(0, 0, -10)}
		assert.Equal(t, 0.0, c.TimeToExpiry(now))
	})

	t.Run("time to expiry in years", func(t *testing.T) {
		c := OptionContract{Expiration: now.AddDate(1, 0, 0)}
		assert.InDelta(t, 1.0, c.TimeToExpiry(now), 0.01)
	})

	t.Run("intrinsic value by option type", func(t *testing.T) {
		call := OptionContract{OptionType: Call, Strike: 100}
		assert.Equal(t, 20.0, call.IntrinsicValue(120))
		assert.Equal(t, 0.0, call.IntrinsicValue(80))

		put := OptionContract{OptionType: Put, Strike: 100}
		assert.Equal(t, 20.0, put.IntrinsicValue(80))
		assert.Equal(t, 0.0, put.IntrinsicValue(120))
	})

	t.Run("expiry boundary is inclusive", func(t *testing.T) {
		c := OptionContract{Expiration: now}
		assert.True(t, c.IsExpired(now))
	})

	t.Run("validate rejects bad contracts", func(t *testing.T) {
		expiry := now.AddDate(0, 1, 0)

		bad := []OptionContract{
			{Symbol: "", OptionType: Call, Strike: 100, Expiration: expiry},
			{Symbol: "X", OptionType: "swaption", Strike: 100, Expiration: expiry},
			{Symbol: "X", OptionType: Call, Strike: 0, Expiration: expiry},
			{Symbol: "X", OptionType: Call, Strike: 100},
		}

		for i := range bad {
			assert.Error(t, bad[i].Validate(), "contract %d", i)
		}
	})
}
