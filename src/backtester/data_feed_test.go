package backtester

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

func TestHistoricalFeed(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	feed := NewHistoricalFeed()
	require.NoError(t, feed.AddCandles("BTC", []eventmodels.Candle{
		{Timestamp: start.Add(24 * time.Hour), Open: 105, High: 106, Low: 104, Close: 105, Volume: 1},
		{Timestamp: start, Open: 100, High: 101, Low: 99, Close: 100, Volume: 1},
	}))

	t.Run("exact timestamp", func(t *testing.T) {
		price, found := feed.GetPrice("BTC", start)
		require.True(t, found)
		assert.Equal(t, 100.0, price)
	})

	t.Run("carries the last close forward", func(t *testing.T) {
		price, found := feed.GetPrice("BTC", start.Add(30*time.Hour))
		require.True(t, found)
		assert.Equal(t, 105.0, price)
	})

	t.Run("no observation before the first candle", func(t *testing.T) {
		_, found := feed.GetPrice("BTC", start.Add(-time.Hour))
		assert.False(t, found)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, found := feed.GetPrice("ETH", start)
		assert.False(t, found)
	})

	t.Run("invalid candles are rejected", func(t *testing.T) {
		err := feed.AddCandles("BAD", []eventmodels.Candle{
			{Timestamp: start, Open: 100, High: 90, Low: 101, Close: 100},
		})
		assert.Error(t, err)
	})
}

func TestSimulatedFeed(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	step := 24 * time.Hour

	t.Run("same seed reproduces the path", func(t *testing.T) {
		first, err := NewSimulatedFeed("BTC", 45000, 0.05, 0.8, start, end, step, 42)
		require.NoError(t, err)

		second, err := NewSimulatedFeed("BTC", 45000, 0.05, 0.8, start, end, step, 42)
		require.NoError(t, err)

		for d := 0; d <= 30; d++ {
			at := start.AddDate(0, 0, d)

			p1, found := first.GetPrice("BTC", at)
			require.True(t, found)

			p2, found := second.GetPrice("BTC", at)
			require.True(t, found)

			assert.Equal(t, p1, p2, "day %d", d)
		}
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		first, err := NewSimulatedFeed("BTC", 45000, 0.05, 0.8, start, end, step, 1)
		require.NoError(t, err)

		second, err := NewSimulatedFeed("BTC", 45000, 0.05, 0.8, start, end, step, 2)
		require.NoError(t, err)

		p1, _ := first.GetPrice("BTC", end)
		p2, _ := second.GetPrice("BTC", end)
		assert.NotEqual(t, p1, p2)
	})

	t.Run("path starts at the initial price", func(t *testing.T) {
		feed, err := NewSimulatedFeed("BTC", 45000, 0.05, 0.8, start, end, step, 42)
		require.NoError(t, err)

		price, found := feed.GetPrice("BTC", start)
		require.True(t, found)
		assert.Equal(t, 45000.0, price)
	})

	t.Run("rejects bad parameters", func(t *testing.T) {
		_, err := NewSimulatedFeed("BTC", 0, 0.05, 0.8, start, end, step, 42)
		assert.Error(t, err)

		_, err = NewSimulatedFeed("BTC", 45000, 0.05, 0.8, end, start, step, 42)
		assert.Error(t, err)

		_, err = NewSimulatedFeed("BTC", 45000, 0.05, 0.8, start, end, 0, 42)
		assert.Error(t, err)
	})
}

func TestClock(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	clock := NewClock(start, start.Add(48*time.Hour), 24*time.Hour)

	assert.False(t, clock.IsExpired())

	clock.Add()
	assert.False(t, clock.IsExpired())

	clock.Add()
	assert.True(t, clock.IsExpired())
}
