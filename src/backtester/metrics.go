package backtester

import (
	"fmt"
	"math"
	"time"

	"github.com/jiaming2012/options-lab/src/eventmodels"
	"github.com/jiaming2012/options-lab/src/solvers"
)

// PerformanceMetrics is a read-only summary computed once from the trade
// ledger and equity curve after a run completes.
type PerformanceMetrics struct {
	TotalReturn         float64
	AnnualizedReturn    float64
	WinRate             float64
	SharpeRatio         float64
	SortinoRatio        float64
	CalmarRatio         float64
	MaxDrawdown         float64
	MaxDrawdownDuration time.Duration
	ProfitFactor        float64
	NumTrades           int
	WinningTrades       int
	LosingTrades        int
}

// ComputeMetrics derives the summary purely from the ledger and curve.
// stepsPerYear annualizes the Sharpe and Sortino ratios (e.g. 365 for daily
// steps). Round-trip P&L is reconstructed by pairing each closing fill with
// its opening fill per symbol, in order.
func ComputeMetrics(trades []*BacktestTrade, equity EquityCurve, initialCapital float64, stepsPerYear float64) (*PerformanceMetrics, error) {
	if initialCapital <= 0 {
		return nil, &eventmodels.DataValidationError{Func: "backtester.ComputeMetrics", Reason: fmt.Sprintf("initial capital must be positive, got %v", initialCapital)}
	}

	if len(equity) == 0 {
		return nil, &eventmodels.InsufficientDataError{Func: "backtester.ComputeMetrics", Need: 1, Have: 0}
	}

	metrics := &PerformanceMetrics{NumTrades: len(trades)}

	finalValue := equity[len(equity)-1].Value
	metrics.TotalReturn = finalValue/initialCapital - 1

	elapsed := equity[len(equity)-1].Timestamp.Sub(equity[0].Timestamp)
	if years := elapsed.Hours() / 24.0 / 365.0; years > 0 {
		metrics.AnnualizedReturn = math.Pow(1+metrics.TotalReturn, 1/years) - 1
	} else {
		metrics.AnnualizedReturn = metrics.TotalReturn
	}

	metrics.MaxDrawdown, metrics.MaxDrawdownDuration = equity.MaxDrawdown()

	if err := computeRatios(metrics, equity, stepsPerYear); err != nil {
		return nil, err
	}

	computeTradeStats(metrics, trades)

	return metrics, nil
}

func computeRatios(metrics *PerformanceMetrics, equity EquityCurve, stepsPerYear float64) error {
	returns := equity.StepReturns()
	if len(returns) < 2 {
		return nil
	}

	mean, err := solvers.Mean(returns)
	if err != nil {
		return fmt.Errorf("ComputeMetrics: failed to calculate mean return: %w", err)
	}

	sd, err := solvers.StdDev(returns)
	if err != nil {
		return fmt.Errorf("ComputeMetrics: failed to calculate the standard deviation of returns: %w", err)
	}

	annualization := math.Sqrt(stepsPerYear)

	if sd > 0 {
		metrics.SharpeRatio = mean / sd * annualization
	}

	downside := make([]float64, 0)
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	if len(downside) >= 2 {
		downsideDev, err := solvers.StdDev(downside)
		if err != nil {
			return fmt.Errorf("ComputeMetrics: failed to calculate downside deviation: %w", err)
		}

		if downsideDev > 0 {
			metrics.SortinoRatio = mean / downsideDev * annualization
		}
	}

	if metrics.MaxDrawdown > 0 {
		metrics.CalmarRatio = metrics.AnnualizedReturn / metrics.MaxDrawdown
	}

	return nil
}

// computeTradeStats pairs closing fills against opening fills per symbol and
// accumulates realized round-trip P&L.
func computeTradeStats(metrics *PerformanceMetrics, trades []*BacktestTrade) {
	type openFill struct {
		quantity float64 // signed: positive long, negative short
		price    float64
	}

	open := make(map[string][]openFill)
	grossProfit := 0.0
	grossLoss := 0.0

	for _, trade := range trades {
		signedQuantity := trade.Action.Sign() * trade.Quantity
		fills := open[trade.Symbol]

		if len(fills) == 0 || sameSign(fills[0].quantity, signedQuantity) {
			open[trade.Symbol] = append(fills, openFill{quantity: signedQuantity, price: trade.Price})
			continue
		}

		// closing fill: consume open fills FIFO
		remaining := math.Abs(signedQuantity)
		for remaining > 0 && len(fills) > 0 {
			matched := math.Min(remaining, math.Abs(fills[0].quantity))

			direction := 1.0
			if fills[0].quantity < 0 {
				direction = -1
			}

			pnl := direction * (trade.Price - fills[0].price) * matched
			if pnl >= 0 {
				metrics.WinningTrades++
				grossProfit += pnl
			} else {
				metrics.LosingTrades++
				grossLoss += -pnl
			}

			remaining -= matched
			if matched >= math.Abs(fills[0].quantity) {
				fills = fills[1:]
			} else {
				fills[0].quantity -= direction * matched
			}
		}

		// a fill larger than the open quantity reverses the position: the
		// excess becomes a new open fill in the trade's own direction
		if remaining > 0 {
			reversed := math.Copysign(remaining, signedQuantity)
			fills = append(fills, openFill{quantity: reversed, price: trade.Price})
		}

		open[trade.Symbol] = fills
	}

	closed := metrics.WinningTrades + metrics.LosingTrades
	if closed > 0 {
		metrics.WinRate = float64(metrics.WinningTrades) / float64(closed)
	}

	if grossLoss > 0 {
		metrics.ProfitFactor = grossProfit / grossLoss
	} else if grossProfit > 0 {
		metrics.ProfitFactor = math.Inf(1)
	}
}

func sameSign(a, b float64) bool {
	return (a >= 0) == (b >= 0)
}
