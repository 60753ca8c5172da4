package volatility

import (
	"math"
	"sort"
	"time"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

type TermStructurePoint struct {
	ExpiryDays    float64
	Strike        float64
	ATMVolatility float64
}

// TermStructure reports, for each unique expiry, the at-the-money implied
// vol: the observation whose strike is closest to spot, ties broken by the
// smaller strike. Points are sorted by days to expiry.
func TermStructure(points []OptionDataPoint, spot float64, now time.Time) ([]TermStructurePoint, error) {
	if spot <= 0 {
		return nil, &eventmodels.DataValidationError{Func: "volatility.TermStructure", Reason: "spot must be positive"}
	}

	if len(points) == 0 {
		return nil, &eventmodels.InsufficientDataError{Func: "volatility.TermStructure", Need: 1, Have: 0}
	}

	// keyed by UnixNano: two equal expirations must share a bucket even when
	// one still carries a monotonic clock reading
	atm := make(map[int64]OptionDataPoint)

	for i := range points {
		expiry := points[i].Expiration.UnixNano()

		current, found := atm[expiry]
		if !found {
			atm[expiry] = points[i]
			continue
		}

		candidateDistance := math.Abs(points[i].Strike - spot)
		currentDistance := math.Abs(current.Strike - spot)

		if candidateDistance < currentDistance ||
			(candidateDistance == currentDistance && points[i].Strike < current.Strike) {
			atm[expiry] = points[i]
		}
	}

	structure := make([]TermStructurePoint, 0, len(atm))
	for _, point := range atm {
		structure = append(structure, TermStructurePoint{
			ExpiryDays:    point.Expiration.Sub(now).Hours() / 24.0,
			Strike:        point.Strike,
			ATMVolatility: point.ImpliedVol,
		})
	}

	sort.Slice(structure, func(i, j int) bool {
		return structure[i].ExpiryDays < structure[j].ExpiryDays
	})

	return structure, nil
}
