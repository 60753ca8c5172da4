package volatility

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

func surfaceTestPoints(now time.Time) []OptionDataPoint {
	near := now.AddDate(0, 1, 0)
	far := now.AddDate(0, 3, 0)

	return []OptionDataPoint{
		{Strike: 90, Expiration: near, ImpliedVol: 0.95, Type: eventmodels.Put},
		{Strike: 100, Expiration: near, ImpliedVol: 0.80, Type: eventmodels.Call},
		{Strike: 110, Expiration: near, ImpliedVol: 0.90, Type: eventmodels.Call},
		{Strike: 90, Expiration: far, ImpliedVol: 0.88, Type: eventmodels.Put},
		{Strike: 100, Expiration: far, ImpliedVol: 0.78, Type: eventmodels.Call},
		{Strike: 110, Expiration: far, ImpliedVol: 0.85, Type: eventmodels.Call},
	}
}

func TestBuildSurface(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("grid axes are the sorted unique observations", func(t *testing.T) {
		surface, err := BuildSurface(surfaceTestPoints(now), 100, now)
		require.NoError(t, err)

		assert.Equal(t, []float64{0.9, 1.0, 1.1}, surface.Moneyness)
		require.Len(t, surface.Expiries, 2)
		assert.Less(t, surface.Expiries[0], surface.Expiries[1])
	})

	t.Run("duplicate observations are averaged", func(t *testing.T) {
		expiry := now.AddDate(0, 1, 0)
		points := []OptionDataPoint{
			{Strike: 100, Expiration: expiry, ImpliedVol: 0.70, Type: eventmodels.Call},
			{Strike: 100, Expiration: expiry, ImpliedVol: 0.90, Type: eventmodels.Put},
		}

		surface, err := BuildSurface(points, 100, now)
		require.NoError(t, err)
		assert.InDelta(t, 0.80, surface.Grid[0][0], 1e-9)
	})

	t.Run("expired observations are dropped", func(t *testing.T) {
		points := append(surfaceTestPoints(now), OptionDataPoint{
			Strike: 100, Expiration: now.AddDate(0, 0, -5), ImpliedVol: 5.0, Type: eventmodels.Call,
		})

		surface, err := BuildSurface(points, 100, now)
		require.NoError(t, err)
		assert.Len(t, surface.Expiries, 2)
	})

	t.Run("only expired observations is insufficient data", func(t *testing.T) {
		var insufficientErr *eventmodels.InsufficientDataError

		points := []OptionDataPoint{
			{Strike: 100, Expiration: now.AddDate(0, 0, -5), ImpliedVol: 0.8, Type: eventmodels.Call},
		}

		_, err := BuildSurface(points, 100, now)
		require.Error(t, err)
		assert.True(t, errors.As(err, &insufficientErr))
	})

	t.Run("non-positive implied vol is rejected", func(t *testing.T) {
		points := []OptionDataPoint{
			{Strike: 100, Expiration: now.AddDate(0, 1, 0), ImpliedVol: 0, Type: eventmodels.Call},
		}

		_, err := BuildSurface(points, 100, now)
		assert.Error(t, err)
	})
}

func TestSurfaceLookup(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	surface, err := BuildSurface(surfaceTestPoints(now), 100, now)
	require.NoError(t, err)

	nearExpiry := surface.Expiries[0]
	farExpiry := surface.Expiries[1]

	t.Run("exact cell", func(t *testing.T) {
		iv, err := surface.Lookup(1.0, nearExpiry)
		require.NoError(t, err)
		assert.InDelta(t, 0.80, iv, 1e-9)
	})

	t.Run("snaps to the nearest cell", func(t *testing.T) {
		iv, err := surface.Lookup(1.08, farExpiry)
		require.NoError(t, err)
		assert.InDelta(t, 0.85, iv, 1e-9)
	})

	t.Run("moneyness outside bounds", func(t *testing.T) {
		_, err := surface.Lookup(1.5, nearExpiry)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOutsideSurfaceBounds))
	})

	t.Run("expiry outside bounds", func(t *testing.T) {
		_, err := surface.Lookup(1.0, farExpiry*2)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOutsideSurfaceBounds))
	})

	t.Run("unobserved cell falls back to the closest observation", func(t *testing.T) {
		expiryA := now.AddDate(0, 1, 0)
		expiryB := now.AddDate(0, 3, 0)

		sparse, err := BuildSurface([]OptionDataPoint{
			{Strike: 90, Expiration: expiryA, ImpliedVol: 0.95, Type: eventmodels.Put},
			{Strike: 110, Expiration: expiryB, ImpliedVol: 0.85, Type: eventmodels.Call},
		}, 100, now)
		require.NoError(t, err)

		// cell (0.9, expiryB) was never observed; its nearest observed
		// neighbor by grid distance is (0.9, expiryA)
		iv, err := sparse.Lookup(0.9, sparse.Expiries[1])
		require.NoError(t, err)
		assert.InDelta(t, 0.95, iv, 1e-9)
	})
}
