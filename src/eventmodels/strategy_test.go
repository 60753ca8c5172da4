package eventmodels

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContract(symbol string, optionType OptionType, strike float64, expiry time.Time) OptionContract {
	return OptionContract{
		Symbol:     symbol,
		Underlying: "BTC",
		OptionType: optionType,
		Strike:     strike,
		Expiration: expiry,
	}
}

func TestStrategyValidate(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	expiry := now.AddDate(0, 1, 0)

	t.Run("iron condor accepts the canonical leg order", func(t *testing.T) {
		condor := NewStrategy("condor", StrategyTypeIronCondor, []StrategyLeg{
			{Contract: testContract("P1", Put, 40000, expiry), Action: TradeActionBuy, Quantity: 1},
			{Contract: testContract("P2", Put, 42000, expiry), Action: TradeActionSell, Quantity: 1},
			{Contract: testContract("C1", Call, 48000, expiry), Action: TradeActionSell, Quantity: 1},
			{Contract: testContract("C2", Call, 50000, expiry), Action: TradeActionBuy, Quantity: 1},
		})

		assert.NoError(t, condor.Validate(now))
	})

	t.Run("iron condor rejects out of order strikes", func(t *testing.T) {
		var strategyErr *StrategyValidationError

		condor := NewStrategy("condor", StrategyTypeIronCondor, []StrategyLeg{
			{Contract: testContract("P1", Put, 40000, expiry), Action: TradeActionBuy, Quantity: 1},
			{Contract: testContract("P2", Put, 48000, expiry), Action: TradeActionSell, Quantity: 1},
			{Contract: testContract("C1", Call, 42000, expiry), Action: TradeActionSell, Quantity: 1},
			{Contract: testContract("C2", Call, 50000, expiry), Action: TradeActionBuy, Quantity: 1},
		})

		err := condor.Validate(now)
		require.Error(t, err)
		assert.True(t, errors.As(err, &strategyErr))
	})

	t.Run("iron condor rejects mixed expirations", func(t *testing.T) {
		condor := NewStrategy("condor", StrategyTypeIronCondor, []StrategyLeg{
			{Contract: testContract("P1", Put, 40000, expiry), Action: TradeActionBuy, Quantity: 1},
			{Contract: testContract("P2", Put, 42000, expiry), Action: TradeActionSell, Quantity: 1},
			{Contract: testContract("C1", Call, 48000, expiry.AddDate(0, 1, 0)), Action: TradeActionSell, Quantity: 1},
			{Contract: testContract("C2", Call, 50000, expiry), Action: TradeActionBuy, Quantity: 1},
		})

		assert.Error(t, condor.Validate(now))
	})

	t.Run("straddle shares strike and expiration", func(t *testing.T) {
		straddle := NewStrategy("straddle", StrategyTypeStraddle, []StrategyLeg{
			{Contract: testContract("C", Call, 45000, expiry), Action: TradeActionBuy, Quantity: 1},
			{Contract: testContract("P", Put, 45000, expiry), Action: TradeActionBuy, Quantity: 1},
		})
		assert.NoError(t, straddle.Validate(now))

		straddle.Legs[1].Contract.Strike = 46000
		assert.Error(t, straddle.Validate(now))
	})

	t.Run("strangle put strike must sit below call strike", func(t *testing.T) {
		strangle := NewStrategy("strangle", StrategyTypeStrangle, []StrategyLeg{
			{Contract: testContract("P", Put, 42000, expiry), Action: TradeActionSell, Quantity: 1},
			{Contract: testContract("C", Call, 48000, expiry), Action: TradeActionSell, Quantity: 1},
		})
		assert.NoError(t, strangle.Validate(now))

		strangle.Legs[0].Contract.Strike = 49000
		assert.Error(t, strangle.Validate(now))
	})

	t.Run("butterfly wings must be equidistant with doubled body", func(t *testing.T) {
		butterfly := NewStrategy("fly", StrategyTypeButterfly, []StrategyLeg{
			{Contract: testContract("C1", Call, 44000, expiry), Action: TradeActionBuy, Quantity: 1},
			{Contract: testContract("C2", Call, 45000, expiry), Action: TradeActionSell, Quantity: 2},
			{Contract: testContract("C3", Call, 46000, expiry), Action: TradeActionBuy, Quantity: 1},
		})
		assert.NoError(t, butterfly.Validate(now))

		butterfly.Legs[2].Contract.Strike = 47000
		assert.Error(t, butterfly.Validate(now))

		butterfly.Legs[2].Contract.Strike = 46000
		butterfly.Legs[1].Quantity = 1
		assert.Error(t, butterfly.Validate(now))
	})

	t.Run("rejects expired legs", func(t *testing.T) {
		single := NewStrategy("single", StrategyTypeSingleLeg, []StrategyLeg{
			{Contract: testContract("C", Call, 45000, now.AddDate(0, 0, -1)), Action: TradeActionBuy, Quantity: 1},
		})

		assert.Error(t, single.Validate(now))
	})

	t.Run("rejects empty strategies", func(t *testing.T) {
		empty := NewStrategy("empty", StrategyTypeCustom, nil)
		assert.Error(t, empty.Validate(now))
	})

	t.Run("rejects wrong leg counts", func(t *testing.T) {
		short := NewStrategy("condor", StrategyTypeIronCondor, []StrategyLeg{
			{Contract: testContract("P1", Put, 40000, expiry), Action: TradeActionBuy, Quantity: 1},
		})
		assert.Error(t, short.Validate(now))
	})
}

func TestStrategyDerived(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	expiry := now.AddDate(0, 1, 0)

	t.Run("net premium signs buys against sells", func(t *testing.T) {
		strangle := NewStrategy("strangle", StrategyTypeStrangle, []StrategyLeg{
			{Contract: testContract("P", Put, 42000, expiry), Action: TradeActionSell, Quantity: 1},
			{Contract: testContract("C", Call, 48000, expiry), Action: TradeActionSell, Quantity: 2},
		})

		net, err := strangle.NetPremium(map[string]float64{"P": 500, "C": 300})
		require.NoError(t, err)
		assert.InDelta(t, -1100.0, net, 1e-9)
	})

	t.Run("net premium requires every mark", func(t *testing.T) {
		single := NewStrategy("single", StrategyTypeSingleLeg, []StrategyLeg{
			{Contract: testContract("C", Call, 45000, expiry), Action: TradeActionBuy, Quantity: 1},
		})

		_, err := single.NetPremium(map[string]float64{})
		assert.Error(t, err)
	})

	t.Run("net greeks aggregate signed by action", func(t *testing.T) {
		long := testContract("C1", Call, 44000, expiry)
		long.Quote = &OptionQuote{Greeks: &Greeks{Delta: 0.6, Gamma: 0.01, Theta: -100, Vega: 50, Rho: 10}}

		short := testContract("C2", Call, 46000, expiry)
		short.Quote = &OptionQuote{Greeks: &Greeks{Delta: 0.4, Gamma: 0.01, Theta: -80, Vega: 45, Rho: 8}}

		spread := NewStrategy("spread", StrategyTypeCustom, []StrategyLeg{
			{Contract: long, Action: TradeActionBuy, Quantity: 1},
			{Contract: short, Action: TradeActionSell, Quantity: 1},
		})

		net, err := spread.NetGreeks()
		require.NoError(t, err)
		assert.InDelta(t, 0.2, net.Delta, 1e-9)
		assert.InDelta(t, 0.0, net.Gamma, 1e-9)
		assert.InDelta(t, -20.0, net.Theta, 1e-9)
		assert.InDelta(t, 5.0, net.Vega, 1e-9)
	})

	t.Run("net greeks require quote greeks on every leg", func(t *testing.T) {
		bare := NewStrategy("bare", StrategyTypeSingleLeg, []StrategyLeg{
			{Contract: testContract("C", Call, 45000, expiry), Action: TradeActionBuy, Quantity: 1},
		})

		_, err := bare.NetGreeks()
		assert.Error(t, err)
	})

	t.Run("earliest expiration picks the soonest leg", func(t *testing.T) {
		near := expiry
		far := expiry.AddDate(0, 2, 0)

		calendar := NewStrategy("calendar", StrategyTypeCustom, []StrategyLeg{
			{Contract: testContract("C1", Call, 45000, far), Action: TradeActionBuy, Quantity: 1},
			{Contract: testContract("C2", Call, 45000, near), Action: TradeActionSell, Quantity: 1},
		})

		assert.True(t, calendar.EarliestExpiration().Equal(near))
	})
}
