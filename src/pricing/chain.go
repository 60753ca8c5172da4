package pricing

import (
	"fmt"
	"time"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

// ChainResult is the per-contract outcome of a batch calculation. Err is set
// when that contract failed; the rest of the batch is unaffected.
type ChainResult struct {
	Symbol     string
	ImpliedVol float64
	Greeks     *eventmodels.Greeks
	Err        error
}

// ChainGreeks computes implied volatility and Greeks for every contract in a
// chain snapshot. The implied volatility comes from the quote when
// published, otherwise it is inverted from the quote's mark price. Errors
// are carried per item so one bad contract never aborts the batch.
func ChainGreeks(contracts []eventmodels.OptionContract, spot, rate float64, now time.Time) []ChainResult {
	results := make([]ChainResult, 0, len(contracts))

	for i := range contracts {
		contract := &contracts[i]
		result := ChainResult{Symbol: contract.Symbol}

		if err := contract.Validate(); err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		vol, err := chainImpliedVol(contract, spot, rate, now)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		result.ImpliedVol = vol

		greeks, err := CalculateGreeks(Params{
			Spot:         spot,
			Strike:       contract.Strike,
			TimeToExpiry: contract.TimeToExpiry(now),
			Rate:         rate,
			Volatility:   vol,
		}, contract.OptionType)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		result.Greeks = &greeks
		results = append(results, result)
	}

	return results
}

func chainImpliedVol(contract *eventmodels.OptionContract, spot, rate float64, now time.Time) (float64, error) {
	if contract.Quote != nil && contract.Quote.ImpliedVolatility > 0 {
		return contract.Quote.ImpliedVolatility, nil
	}

	mark := contract.Quote.MarkPrice()
	if mark <= 0 {
		return 0, &eventmodels.DataValidationError{Func: "pricing.ChainGreeks", Reason: fmt.Sprintf("contract %s has no implied volatility and no usable mark price", contract.Symbol)}
	}

	return ImpliedVolatility(mark, spot, contract.Strike, contract.TimeToExpiry(now), rate, contract.OptionType)
}
