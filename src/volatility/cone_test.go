package volatility

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

func coneTestPrices() []float64 {
	prices := make([]float64, 40)
	prices[0] = 100
	for i := 1; i < len(prices); i++ {
		prices[i] = prices[i-1] * (1 + 0.02*math.Sin(float64(i)*1.3))
	}

	return prices
}

func TestVolatilityCone(t *testing.T) {
	prices := coneTestPrices()

	t.Run("percentiles are ordered per window", func(t *testing.T) {
		cone, err := VolatilityCone(prices, []int{5, 10, 20})
		require.NoError(t, err)
		require.Len(t, cone, 3)

		for _, level := range cone {
			assert.LessOrEqual(t, level.Min, level.P25, "window %d", level.Window)
			assert.LessOrEqual(t, level.P25, level.Median, "window %d", level.Window)
			assert.LessOrEqual(t, level.Median, level.P75, "window %d", level.Window)
			assert.LessOrEqual(t, level.P75, level.Max, "window %d", level.Window)

			assert.GreaterOrEqual(t, level.Current, level.Min, "window %d", level.Window)
			assert.LessOrEqual(t, level.Current, level.Max, "window %d", level.Window)
		}
	})

	t.Run("current matches the trailing historical vol", func(t *testing.T) {
		cone, err := VolatilityCone(prices, []int{10})
		require.NoError(t, err)
		require.Len(t, cone, 1)

		trailing, err := HistoricalVolatility(prices, 10)
		require.NoError(t, err)
		assert.InDelta(t, trailing, cone[0].Current, 1e-12)
	})

	t.Run("series shorter than the largest window", func(t *testing.T) {
		var insufficientErr *eventmodels.InsufficientDataError

		_, err := VolatilityCone(prices[:8], []int{5, 30})
		require.Error(t, err)
		assert.True(t, errors.As(err, &insufficientErr))
	})

	t.Run("no windows", func(t *testing.T) {
		_, err := VolatilityCone(prices, nil)
		assert.Error(t, err)
	})
}

func TestCompare(t *testing.T) {
	cases := []struct {
		name       string
		historical float64
		implied    float64
		sentiment  VolSentiment
	}{
		{"fear", 0.40, 0.70, SentimentFear},
		{"elevated", 0.40, 0.50, SentimentElevated},
		{"neutral", 0.40, 0.42, SentimentNeutral},
		{"complacency", 0.40, 0.30, SentimentComplacency},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comparison, err := Compare(tc.historical, tc.implied)
			require.NoError(t, err)

			assert.Equal(t, tc.sentiment, comparison.Sentiment)
			assert.InDelta(t, tc.implied-tc.historical, comparison.Difference, 1e-12)
			assert.InDelta(t, (tc.implied-tc.historical)/tc.historical, comparison.PercentDiff, 1e-12)
		})
	}

	t.Run("non-positive inputs are rejected", func(t *testing.T) {
		_, err := Compare(0, 0.5)
		assert.Error(t, err)

		_, err = Compare(0.5, 0)
		assert.Error(t, err)
	})
}
