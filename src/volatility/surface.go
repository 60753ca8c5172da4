package volatility

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jiaming2012/options-lab/src/eventmodels"
)

var ErrOutsideSurfaceBounds = fmt.Errorf("point is outside the observed surface bounds")

// Surface is an implied-volatility grid indexed by (moneyness = strike/spot,
// time-to-expiry in years). Axes are the sorted unique observed values;
// unobserved cells hold NaN. Lookups never extrapolate past the observed
// bounds.
type Surface struct {
	Spot      float64
	Moneyness []float64
	Expiries  []float64
	Grid      [][]float64 // Grid[i][j] = iv at Moneyness[i], Expiries[j]
}

// BuildSurface groups chain observations into the grid. Duplicate
// (moneyness, expiry) observations are averaged. Returns
// DataValidationError or InsufficientDataError.
func BuildSurface(points []OptionDataPoint, spot float64, now time.Time) (*Surface, error) {
	if spot <= 0 {
		return nil, &eventmodels.DataValidationError{Func: "volatility.BuildSurface", Reason: fmt.Sprintf("spot must be positive, got %v", spot)}
	}

	if len(points) == 0 {
		return nil, &eventmodels.InsufficientDataError{Func: "volatility.BuildSurface", Need: 1, Have: 0}
	}

	type cellKey struct {
		moneyness float64
		expiry    float64
	}

	sums := make(map[cellKey]float64)
	counts := make(map[cellKey]int)
	moneynessSet := make(map[float64]struct{})
	expirySet := make(map[float64]struct{})

	for i := range points {
		if points[i].Strike <= 0 {
			return nil, &eventmodels.DataValidationError{Func: "volatility.BuildSurface", Reason: fmt.Sprintf("point %d: strike must be positive, got %v", i, points[i].Strike)}
		}

		if points[i].ImpliedVol <= 0 {
			return nil, &eventmodels.DataValidationError{Func: "volatility.BuildSurface", Reason: fmt.Sprintf("point %d: implied vol must be positive, got %v", i, points[i].ImpliedVol)}
		}

		expiry := yearsUntil(points[i].Expiration, now)
		if expiry <= 0 {
			continue // expired observations carry no forward information
		}

		key := cellKey{moneyness: points[i].Strike / spot, expiry: expiry}
		sums[key] += points[i].ImpliedVol
		counts[key]++
		moneynessSet[key.moneyness] = struct{}{}
		expirySet[key.expiry] = struct{}{}
	}

	if len(sums) == 0 {
		return nil, &eventmodels.InsufficientDataError{Func: "volatility.BuildSurface", Need: 1, Have: 0}
	}

	moneyness := sortedKeys(moneynessSet)
	expiries := sortedKeys(expirySet)

	grid := make([][]float64, len(moneyness))
	for i := range grid {
		grid[i] = make([]float64, len(expiries))
		for j := range grid[i] {
			grid[i][j] = math.NaN()
		}
	}

	moneynessIndex := indexOf(moneyness)
	expiryIndex := indexOf(expiries)

	for key, sum := range sums {
		grid[moneynessIndex[key.moneyness]][expiryIndex[key.expiry]] = sum / float64(counts[key])
	}

	return &Surface{
		Spot:      spot,
		Moneyness: moneyness,
		Expiries:  expiries,
		Grid:      grid,
	}, nil
}

// Lookup returns the implied vol at the nearest observed grid cell. Queries
// outside the observed moneyness or expiry bounds return
// ErrOutsideSurfaceBounds rather than extrapolating silently.
func (s *Surface) Lookup(moneyness, timeToExpiry float64) (float64, error) {
	if moneyness < s.Moneyness[0] || moneyness > s.Moneyness[len(s.Moneyness)-1] {
		return 0, fmt.Errorf("Surface.Lookup: moneyness %v outside [%v, %v]: %w", moneyness, s.Moneyness[0], s.Moneyness[len(s.Moneyness)-1], ErrOutsideSurfaceBounds)
	}

	if timeToExpiry < s.Expiries[0] || timeToExpiry > s.Expiries[len(s.Expiries)-1] {
		return 0, fmt.Errorf("Surface.Lookup: expiry %v outside [%v, %v]: %w", timeToExpiry, s.Expiries[0], s.Expiries[len(s.Expiries)-1], ErrOutsideSurfaceBounds)
	}

	i := nearestIndex(s.Moneyness, moneyness)
	j := nearestIndex(s.Expiries, timeToExpiry)

	if !math.IsNaN(s.Grid[i][j]) {
		return s.Grid[i][j], nil
	}

	// nearest axis cell was unobserved: fall back to the closest observed
	// cell by axis-index distance
	bestDistance := math.MaxInt32
	best := math.NaN()

	for gi := range s.Grid {
		for gj := range s.Grid[gi] {
			if math.IsNaN(s.Grid[gi][gj]) {
				continue
			}

			distance := abs(gi-i) + abs(gj-j)
			if distance < bestDistance {
				bestDistance = distance
				best = s.Grid[gi][gj]
			}
		}
	}

	if math.IsNaN(best) {
		return 0, fmt.Errorf("Surface.Lookup: no observed cells in surface")
	}

	return best, nil
}

func sortedKeys(set map[float64]struct{}) []float64 {
	keys := make([]float64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Float64s(keys)
	return keys
}

func indexOf(sorted []float64) map[float64]int {
	index := make(map[float64]int, len(sorted))
	for i, v := range sorted {
		index[v] = i
	}

	return index
}

func nearestIndex(sorted []float64, target float64) int {
	pos := sort.SearchFloat64s(sorted, target)
	if pos == 0 {
		return 0
	}

	if pos == len(sorted) {
		return len(sorted) - 1
	}

	if target-sorted[pos-1] <= sorted[pos]-target {
		return pos - 1
	}

	return pos
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
