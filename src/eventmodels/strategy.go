package eventmodels

import (
	"fmt"
	"math"
	"time"
)

type StrategyLeg struct {
	Contract OptionContract `json:"contract"`
	Action   TradeAction    `json:"action"`
	Quantity float64        `json:"quantity"`
}

func (l *StrategyLeg) Validate() error {
	if err := l.Contract.Validate(); err != nil {
		return err
	}

	if err := l.Action.Validate(); err != nil {
		return err
	}

	if l.Quantity <= 0 {
		return &DataValidationError{Func: "StrategyLeg.Validate", Reason: fmt.Sprintf("quantity must be positive, got %v", l.Quantity)}
	}

	return nil
}

// Strategy is an ordered, non-empty list of legs plus a classification tag.
// Net premium and net Greeks are derived on demand, never stored.
type Strategy struct {
	Name string        `json:"name"`
	Type StrategyType  `json:"type"`
	Legs []StrategyLeg `json:"legs"`
}

// Validate enforces per-leg validity and the structural rules of the
// declared strategy type. All violations are reported as
// StrategyValidationError.
func (s *Strategy) Validate(now time.Time) error {
	if err := s.Type.Validate(); err != nil {
		return &StrategyValidationError{Strategy: s.Name, Reason: err.Error()}
	}

	if len(s.Legs) == 0 {
		return &StrategyValidationError{Strategy: s.Name, Reason: "strategy has no legs"}
	}

	for i := range s.Legs {
		if err := s.Legs[i].Validate(); err != nil {
			return &StrategyValidationError{Strategy: s.Name, Reason: fmt.Sprintf("leg %d: %v", i, err)}
		}

		if s.Legs[i].Contract.IsExpired(now) {
			return &StrategyValidationError{Strategy: s.Name, Reason: fmt.Sprintf("leg %d: contract %s expired at %s", i, s.Legs[i].Contract.Symbol, s.Legs[i].Contract.Expiration.Format(time.RFC3339))}
		}
	}

	if required := s.Type.LegCount(); required > 0 && len(s.Legs) != required {
		return &StrategyValidationError{Strategy: s.Name, Reason: fmt.Sprintf("%s requires %d legs, got %d", s.Type, required, len(s.Legs))}
	}

	switch s.Type {
	case StrategyTypeStraddle:
		return s.validateStraddle()
	case StrategyTypeStrangle:
		return s.validateStrangle()
	case StrategyTypeIronCondor:
		return s.validateIronCondor()
	case StrategyTypeButterfly:
		return s.validateButterfly()
	}

	return nil
}

func (s *Strategy) validateStraddle() error {
	a, b := s.Legs[0], s.Legs[1]

	if a.Contract.OptionType == b.Contract.OptionType {
		return &StrategyValidationError{Strategy: s.Name, Reason: "straddle requires one call and one put"}
	}

	if a.Contract.Strike != b.Contract.Strike {
		return &StrategyValidationError{Strategy: s.Name, Reason: fmt.Sprintf("straddle legs must share a strike, got %v and %v", a.Contract.Strike, b.Contract.Strike)}
	}

	if !a.Contract.Expiration.Equal(b.Contract.Expiration) {
		return &StrategyValidationError{Strategy: s.Name, Reason: "straddle legs must share an expiration"}
	}

	if a.Action != b.Action {
		return &StrategyValidationError{Strategy: s.Name, Reason: "straddle legs must share the same action"}
	}

	return nil
}

func (s *Strategy) validateStrangle() error {
	put, call := s.Legs[0], s.Legs[1]
	if put.Contract.OptionType == Call {
		put, call = call, put
	}

	if put.Contract.OptionType != Put || call.Contract.OptionType != Call {
		return &StrategyValidationError{Strategy: s.Name, Reason: "strangle requires one put and one call"}
	}

	if put.Contract.Strike >= call.Contract.Strike {
		return &StrategyValidationError{Strategy: s.Name, Reason: fmt.Sprintf("strangle put strike %v must be below call strike %v", put.Contract.Strike, call.Contract.Strike)}
	}

	if !put.Contract.Expiration.Equal(call.Contract.Expiration) {
		return &StrategyValidationError{Strategy: s.Name, Reason: "strangle legs must share an expiration"}
	}

	if put.Action != call.Action {
		return &StrategyValidationError{Strategy: s.Name, Reason: "strangle legs must share the same action"}
	}

	return nil
}

// validateIronCondor expects legs in the order: long put K1, short put K2,
// short call K3, long call K4, with K1 < K2 < K3 < K4 and a shared
// expiration.
func (s *Strategy) validateIronCondor() error {
	wantTypes := []OptionType{Put, Put, Call, Call}
	wantActions := []TradeAction{TradeActionBuy, TradeActionSell, TradeActionSell, TradeActionBuy}

	for i := range s.Legs {
		if s.Legs[i].Contract.OptionType != wantTypes[i] {
			return &StrategyValidationError{Strategy: s.Name, Reason: fmt.Sprintf("iron condor leg %d must be a %s, got %s", i, wantTypes[i], s.Legs[i].Contract.OptionType)}
		}

		if s.Legs[i].Action != wantActions[i] {
			return &StrategyValidationError{Strategy: s.Name, Reason: fmt.Sprintf("iron condor leg %d must be a %s, got %s", i, wantActions[i], s.Legs[i].Action)}
		}
	}

	for i := 1; i < len(s.Legs); i++ {
		if s.Legs[i].Contract.Strike <= s.Legs[i-1].Contract.Strike {
			return &StrategyValidationError{Strategy: s.Name, Reason: fmt.Sprintf("iron condor strikes must be strictly increasing, got %v then %v", s.Legs[i-1].Contract.Strike, s.Legs[i].Contract.Strike)}
		}

		if !s.Legs[i].Contract.Expiration.Equal(s.Legs[0].Contract.Expiration) {
			return &StrategyValidationError{Strategy: s.Name, Reason: "iron condor legs must share an expiration"}
		}
	}

	return nil
}

// validateButterfly expects wings at K1 and K3 equidistant from the body at
// K2, pattern buy/sell/buy with the body carrying twice the wing quantity.
func (s *Strategy) validateButterfly() error {
	lower, body, upper := s.Legs[0], s.Legs[1], s.Legs[2]

	for i := 1; i < len(s.Legs); i++ {
		if s.Legs[i].Contract.OptionType != s.Legs[0].Contract.OptionType {
			return &StrategyValidationError{Strategy: s.Name, Reason: "butterfly legs must share an option type"}
		}

		if !s.Legs[i].Contract.Expiration.Equal(s.Legs[0].Contract.Expiration) {
			return &StrategyValidationError{Strategy: s.Name, Reason: "butterfly legs must share an expiration"}
		}
	}

	if lower.Contract.Strike >= body.Contract.Strike || body.Contract.Strike >= upper.Contract.Strike {
		return &StrategyValidationError{Strategy: s.Name, Reason: fmt.Sprintf("butterfly strikes must be strictly increasing, got %v, %v, %v", lower.Contract.Strike, body.Contract.Strike, upper.Contract.Strike)}
	}

	lowerWing := body.Contract.Strike - lower.Contract.Strike
	upperWing := upper.Contract.Strike - body.Contract.Strike
	if math.Abs(lowerWing-upperWing) > 1e-9 {
		return &StrategyValidationError{Strategy: s.Name, Reason: fmt.Sprintf("butterfly wings must be equidistant from the body, got %v and %v", lowerWing, upperWing)}
	}

	if lower.Action != TradeActionBuy || body.Action != TradeActionSell || upper.Action != TradeActionBuy {
		return &StrategyValidationError{Strategy: s.Name, Reason: "butterfly requires buy/sell/buy legs"}
	}

	if body.Quantity != 2*lower.Quantity || lower.Quantity != upper.Quantity {
		return &StrategyValidationError{Strategy: s.Name, Reason: "butterfly body quantity must be twice the wing quantity"}
	}

	return nil
}

// NetPremium sums each leg's market price, signed by action: buys pay,
// sells receive. marks is keyed by contract symbol.
func (s *Strategy) NetPremium(marks map[string]float64) (float64, error) {
	net := 0.0
	for i := range s.Legs {
		mark, found := marks[s.Legs[i].Contract.Symbol]
		if !found {
			return 0, fmt.Errorf("Strategy.NetPremium: no mark price for %s", s.Legs[i].Contract.Symbol)
		}

		net += s.Legs[i].Action.Sign() * mark * s.Legs[i].Quantity
	}

	return net, nil
}

// NetGreeks sums the quote Greeks across legs, signed by action. Every leg
// must carry quote Greeks.
func (s *Strategy) NetGreeks() (Greeks, error) {
	var net Greeks
	for i := range s.Legs {
		quote := s.Legs[i].Contract.Quote
		if quote == nil || quote.Greeks == nil {
			return Greeks{}, fmt.Errorf("Strategy.NetGreeks: leg %d (%s) has no quote greeks", i, s.Legs[i].Contract.Symbol)
		}

		sign := s.Legs[i].Action.Sign() * s.Legs[i].Quantity
		net.Delta += sign * quote.Greeks.Delta
		net.Gamma += sign * quote.Greeks.Gamma
		net.Theta += sign * quote.Greeks.Theta
		net.Vega += sign * quote.Greeks.Vega
		net.Rho += sign * quote.Greeks.Rho
	}

	return net, nil
}

// EarliestExpiration returns the soonest leg expiration.
func (s *Strategy) EarliestExpiration() time.Time {
	earliest := s.Legs[0].Contract.Expiration
	for i := 1; i < len(s.Legs); i++ {
		if s.Legs[i].Contract.Expiration.Before(earliest) {
			earliest = s.Legs[i].Contract.Expiration
		}
	}

	return earliest
}

func NewStrategy(name string, strategyType StrategyType, legs []StrategyLeg) *Strategy {
	return &Strategy{
		Name: name,
		Type: strategyType,
		Legs: legs,
	}
}
