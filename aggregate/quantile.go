package aggregate

import (
	"math"
	"sort"

	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// DefaultQuantiles are the probabilities reported by performance summaries.
var DefaultQuantiles = []float64{0.025, 0.05, 0.5, 0.95, 0.975}

// Quantile returns the q-th quantile of values with linear interpolation
// between closest ranks: h = (n-1)q, result x[floor(h)] + (h-floor(h)) *
// (x[floor(h)+1] - x[floor(h)]). NaN entries are skipped and an empty input
// gives NaN.
func Quantile(values []float64, q float64) (float64, error) {
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, errors.NewInvalidParameterError("aggregate.Quantile", "q", q, "must be in [0, 1]")
	}
	x := dropNaN(values)
	sort.Float64s(x)
	return quantileSorted(x, q), nil
}

// Quantiles evaluates several probabilities on the same values.
func Quantiles(values []float64, qs []float64) ([]float64, error) {
	for _, q := range qs {
		if q < 0 || q > 1 || math.IsNaN(q) {
			return nil, errors.NewInvalidParameterError("aggregate.Quantiles", "q", q, "must be in [0, 1]")
		}
	}
	x := dropNaN(values)
	sort.Float64s(x)

	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = quantileSorted(x, q)
	}
	return out, nil
}

func quantileSorted(x []float64, q float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * q
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return x[n-1]
	}
	return x[i] + (h-lo)*(x[i+1]-x[i])
}
