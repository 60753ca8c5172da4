package volatility

import (
	"time"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

// OptionDataPoint is one (strike, expiry, implied vol) observation from a
// chain snapshot.
type OptionDataPoint struct {
	Strike     float64
	Expiration time.Time
	ImpliedVol float64
	Type       eventmodels.OptionType
}

func yearsUntil(expiration, now time.Time) float64 {
	return expiration.Sub(now).Hours() / 24.0 / 365.0
}
