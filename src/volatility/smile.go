package volatility

import (
	"sort"
	"time"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

type SmilePoint struct {
	Strike     float64
	Moneyness  float64
	ImpliedVol float64
	Type       eventmodels.OptionType
}

// Smile filters the chain to the single expiry bucket nearest targetExpiry
// and returns its observations sorted by strike.
func Smile(points []OptionDataPoint, spot float64, targetExpiry time.Time) ([]SmilePoint, error) {
	if spot <= 0 {
		return nil, &eventmodels.DataValidationError{Func: "volatility.Smile", Reason: "spot must be positive"}
	}

	if len(points) == 0 {
		return nil, &eventmodels.InsufficientDataError{Func: "volatility.Smile", Need: 1, Have: 0}
	}

	nearest := points[0].Expiration
	for i := 1; i < len(points); i++ {
		if absDuration(points[i].Expiration.Sub(targetExpiry)) < absDuration(nearest.Sub(targetExpiry)) {
			nearest = points[i].Expiration
		}
	}

	smile := make([]SmilePoint, 0)
	for i := range points {
		if !points[i].Expiration.Equal(nearest) {
			continue
		}

		smile = append(smile, SmilePoint{
			Strike:     points[i].Strike,
			Moneyness:  points[i].Strike / spot,
			ImpliedVol: points[i].ImpliedVol,
			Type:       points[i].Type,
		})
	}

	sort.Slice(smile, func(i, j int) bool {
		return smile[i].Strike < smile[j].Strike
	})

	return smile, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}

	return d
}
