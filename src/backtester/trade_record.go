package backtester

import (
	"time"

	"github.com/google/uuid"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

// BacktestTrade is one fill in the append-only ledger owned by a single
// backtest run. Records are never mutated after creation.
type BacktestTrade struct {
	ID              uuid.UUID
	Timestamp       time.Time
	Action          eventmodels.TradeAction
	Symbol          string
	Quantity        float64
	Price           float64
	PortfolioBefore float64
	PortfolioAfter  float64
}

func NewBacktestTrade(timestamp time.Time, action eventmodels.TradeAction, symbol string, quantity float64, price float64, portfolioBefore float64, portfolioAfter float64) *BacktestTrade {
	return &BacktestTrade{
		ID:              uuid.New(),
		Timestamp:       timestamp,
		Action:          action,
		Symbol:          symbol,
		Quantity:        quantity,
		Price:           price,
		PortfolioBefore: portfolioBefore,
		PortfolioAfter:  portfolioAfter,
	}
}
