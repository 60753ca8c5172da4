package eventmodels

import "fmt"

type StrategyType string

const (
	StrategyTypeSingleLeg  StrategyType = "single_leg"
	StrategyTypeStraddle   StrategyType = "straddle"
	StrategyTypeStrangle   StrategyType = "strangle"
	StrategyTypeIronCondor StrategyType = "iron_condor"
	StrategyTypeButterfly  StrategyType = "butterfly"
	StrategyTypeCustom     StrategyType = "custom"
)

func (s StrategyType) Validate() error {
	switch s {
	case StrategyTypeSingleLeg, StrategyTypeStraddle, StrategyTypeStrangle, StrategyTypeIronCondor, StrategyTypeButterfly, StrategyTypeCustom:
		return nil
	}

	return fmt.Errorf("StrategyType: Validate: invalid strategy type: %s", s)
}

// LegCount returns the required number of legs for the type, or 0 when the
// type places no constraint on the leg count.
func (s StrategyType) LegCount() int {
	switch s {
	case StrategyTypeSingleLeg:
		return 1
	case StrategyTypeStraddle, StrategyTypeStrangle:
		return 2
	case StrategyTypeButterfly:
		return 3
	case StrategyTypeIronCondor:
		return 4
	}

	return 0
}
