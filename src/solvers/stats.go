package solvers

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

var ErrNotEnoughData = fmt.Errorf("not enough data points")

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrNotEnoughData
	}

	m, err := stats.Mean(xs)
	if err != nil {
		return 0, fmt.Errorf("Mean: %w", err)
	}

	return m, nil
}

// StdDev returns the sample standard deviation of xs.
func StdDev(xs []float64) (float64, error) {
	if len(xs) < 2 {
		return 0, ErrNotEnoughData
	}

	sd, err := stats.StandardDeviationSample(xs)
	if err != nil {
		return 0, fmt.Errorf("StdDev: %w", err)
	}

	return sd, nil
}

// Percentile returns the pct-th percentile of xs, pct in (0, 100].
func Percentile(xs []float64, pct float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrNotEnoughData
	}

	p, err := stats.Percentile(xs, pct)
	if err != nil {
		return 0, fmt.Errorf("Percentile: %w", err)
	}

	return p, nil
}

// Median returns the median of xs.
func Median(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrNotEnoughData
	}

	m, err := stats.Median(xs)
	if err != nil {
		return 0, fmt.Errorf("Median: %w", err)
	}

	return m, nil
}

// LogReturns converts a price series into log returns. Prices must be
// strictly positive.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, ErrNotEnoughData
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 || prices[i] <= 0 {
			return nil, fmt.Errorf("LogReturns: prices must be positive, found %v -> %v at index %d", prices[i-1], prices[i], i)
		}

		returns = append(returns, math.Log(prices[i]/prices[i-1]))
	}

	return returns, nil
}

// RollingWindows returns every contiguous sub-slice of xs with the given
// size. The windows share the backing array of xs.
func RollingWindows(xs []float64, size int) ([][]float64, error) {
	if size < 1 {
		return nil, fmt.Errorf("RollingWindows: size must be at least 1, got %d", size)
	}

	if len(xs) < size {
		return nil, ErrNotEnoughData
	}

	windows := make([][]float64, 0, len(xs)-size+1)
	for i := 0; i+size <= len(xs); i++ {
		windows = append(windows, xs[i:i+size])
	}

	return windows, nil
}
