package backtester

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/options-lab/src/eventmodels"
	"github.com/jiaming2012/options-lab/src/pricing"
	"github.com/jiaming2012/options-lab/src/utils"
)

type Config struct {
	Strategy  eventmodels.Strategy
	Symbol    string
	StartTime time.Time
	EndTime   time.Time
	Step      time.Duration

	InitialCapital    float64
	RiskFreeRate      float64
	DefaultVolatility float64

	// ContractMultiplier scales option prices to position value; defaults
	// to 1 when zero.
	ContractMultiplier float64
}

func (c *Config) Validate() error {
	if c.Symbol == "" {
		return &eventmodels.DataValidationError{Func: "backtester.Config.Validate", Reason: "underlying symbol is empty"}
	}

	if !c.EndTime.After(c.StartTime) {
		return &eventmodels.DataValidationError{Func: "backtester.Config.Validate", Reason: "end time must be after start time"}
	}

	if c.Step <= 0 {
		return &eventmodels.DataValidationError{Func: "backtester.Config.Validate", Reason: "step must be positive"}
	}

	if c.InitialCapital <= 0 {
		return &eventmodels.DataValidationError{Func: "backtester.Config.Validate", Reason: fmt.Sprintf("initial capital must be positive, got %v", c.InitialCapital)}
	}

	if c.DefaultVolatility <= 0 {
		return &eventmodels.DataValidationError{Func: "backtester.Config.Validate", Reason: fmt.Sprintf("default volatility must be positive, got %v", c.DefaultVolatility)}
	}

	return nil
}

type openLeg struct {
	leg        eventmodels.StrategyLeg
	entryPrice float64
}

// Backtest owns its trade ledger and equity curve exclusively; no state is
// shared across runs. A Backtest runs at most once.
type Backtest struct {
	ID uuid.UUID

	cfg   Config
	feed  DataFeed
	state State

	cash           float64
	openLegs       []openLeg
	trades         []*BacktestTrade
	equity         EquityCurve
	lastSpot       float64
	fallbackEvents int
}

// Result is the immutable outcome of one run.
type Result struct {
	ID             uuid.UUID
	State          State
	Trades         []*BacktestTrade
	Equity         EquityCurve
	Metrics        *PerformanceMetrics
	FallbackEvents int
}

func New(cfg Config, feed DataFeed) (*Backtest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if feed == nil {
		return nil, &eventmodels.DataValidationError{Func: "backtester.New", Reason: "data feed is nil"}
	}

	if cfg.ContractMultiplier == 0 {
		cfg.ContractMultiplier = 1
	}

	return &Backtest{
		ID:    uuid.New(),
		cfg:   cfg,
		feed:  feed,
		state: StateInitialized,
		cash:  cfg.InitialCapital,
	}, nil
}

func (b *Backtest) State() State {
	return b.state
}

// Run executes the simulation: open every leg at the start, mark the
// portfolio each step, close at the end or at the earliest leg expiry,
// whichever is first, then compute metrics from the ledger and curve.
//
// A malformed strategy fails the initialized -> running transition with
// StrategyValidationError. Per-step pricing failures degrade to intrinsic
// value and are logged, never fatal; only total data unavailability fails a
// run.
func (b *Backtest) Run() (*Result, error) {
	if b.state != StateInitialized {
		return nil, fmt.Errorf("Backtest.Run: cannot run from state %s", b.state)
	}

	if err := b.cfg.Strategy.Validate(b.cfg.StartTime); err != nil {
		b.state = StateFailed
		return nil, err
	}

	b.state = StateRunning

	spot, found := b.feed.GetPrice(b.cfg.Symbol, b.cfg.StartTime)
	if !found {
		b.state = StateFailed
		return nil, fmt.Errorf("Backtest.Run: no price data for underlying %s at %s", b.cfg.Symbol, b.cfg.StartTime.Format(time.RFC3339))
	}
	b.lastSpot = spot

	closeTime := utils.GetMinTime(b.cfg.EndTime, b.cfg.Strategy.EarliestExpiration())

	b.openPositions(spot)

	clock := NewClock(b.cfg.StartTime, closeTime, b.cfg.Step)
	for !clock.IsExpired() {
		spot = b.spotAt(clock.CurrentTime)

		b.equity = append(b.equity, EquityPoint{
			Timestamp: clock.CurrentTime,
			Value:     b.portfolioValue(spot, clock.CurrentTime),
		})

		clock.Add()
	}

	b.closePositions(b.spotAt(closeTime), closeTime)

	b.equity = append(b.equity, EquityPoint{Timestamp: closeTime, Value: b.cash})

	stepsPerYear := 24.0 * 365.0 / b.cfg.Step.Hours()
	metrics, err := ComputeMetrics(b.trades, b.equity, b.cfg.InitialCapital, stepsPerYear)
	if err != nil {
		b.state = StateFailed
		return nil, fmt.Errorf("Backtest.Run: failed to compute metrics: %w", err)
	}

	b.state = StateCompleted

	return &Result{
		ID:             b.ID,
		State:          b.state,
		Trades:         b.trades,
		Equity:         b.equity,
		Metrics:        metrics,
		FallbackEvents: b.fallbackEvents,
	}, nil
}

func (b *Backtest) openPositions(spot float64) {
	for _, leg := range b.cfg.Strategy.Legs {
		price := b.legPrice(leg, spot, b.cfg.StartTime)
		before := b.portfolioValue(spot, b.cfg.StartTime)

		b.cash -= leg.Action.Sign() * price * leg.Quantity * b.cfg.ContractMultiplier
		b.openLegs = append(b.openLegs, openLeg{leg: leg, entryPrice: price})

		after := b.portfolioValue(spot, b.cfg.StartTime)
		b.trades = append(b.trades, NewBacktestTrade(b.cfg.StartTime, leg.Action, leg.Contract.Symbol, leg.Quantity, price, before, after))
	}
}

func (b *Backtest) closePositions(spot float64, t time.Time) {
	// each leg leaves openLegs before the next one is valued, so every close
	// record carries the true portfolio value at its fill
	for len(b.openLegs) > 0 {
		position := b.openLegs[0]
		price := b.legPrice(position.leg, spot, t)
		before := b.portfolioValue(spot, t)

		closeAction := eventmodels.TradeActionSell
		if position.leg.Action == eventmodels.TradeActionSell {
			closeAction = eventmodels.TradeActionBuy
		}

		b.cash += position.leg.Action.Sign() * price * position.leg.Quantity * b.cfg.ContractMultiplier
		b.openLegs = b.openLegs[1:]

		after := b.portfolioValue(spot, t)

		b.trades = append(b.trades, NewBacktestTrade(t, closeAction, position.leg.Contract.Symbol, position.leg.Quantity, price, before, after))
	}
}

// spotAt resolves the underlying price with carry-forward: when the feed has
// no observation, the last known spot is reused.
func (b *Backtest) spotAt(t time.Time) float64 {
	if spot, found := b.feed.GetPrice(b.cfg.Symbol, t); found {
		b.lastSpot = spot
	}

	return b.lastSpot
}

// legPrice resolves a leg's value at time t: a historical quote when the
// feed has one for the option symbol, otherwise a Black-Scholes model price
// with the leg's implied vol (or the configured default). A pricing failure
// degrades to intrinsic value and is logged at Warn level.
func (b *Backtest) legPrice(leg eventmodels.StrategyLeg, spot float64, t time.Time) float64 {
	if price, found := b.feed.GetPrice(leg.Contract.Symbol, t); found {
		return price
	}

	vol := b.cfg.DefaultVolatility
	if leg.Contract.Quote != nil && leg.Contract.Quote.ImpliedVolatility > 0 {
		vol = leg.Contract.Quote.ImpliedVolatility
	}

	price, err := pricing.BlackScholesPrice(pricing.Params{
		Spot:         spot,
		Strike:       leg.Contract.Strike,
		TimeToExpiry: leg.Contract.TimeToExpiry(t),
		Rate:         b.cfg.RiskFreeRate,
		Volatility:   vol,
	}, leg.Contract.OptionType)
	if err != nil {
		b.fallbackEvents++
		log.WithFields(log.Fields{
			"backtest": b.ID,
			"symbol":   leg.Contract.Symbol,
			"time":     t,
		}).Warnf("legPrice: model price failed, falling back to intrinsic value: %v", err)

		return leg.Contract.IntrinsicValue(spot)
	}

	return price
}

func (b *Backtest) portfolioValue(spot float64, t time.Time) float64 {
	value := b.cash
	for _, position := range b.openLegs {
		price := b.legPrice(position.leg, spot, t)
		value += position.leg.Action.Sign() * price * position.leg.Quantity * b.cfg.ContractMultiplier
	}

	return value
}
