package uncertainty

import (
	"gonum.org/v1/gonum/floats"

	"github.com/lciaqsar/qsarstats/core/series"
)

// DefaultZScore is the one-sided z-score of a two-sided ~90% interval.
const DefaultZScore = 1.645

// PredictionInterval returns estimate - z*err and estimate + z*err, element by
// element. The estimate and err must be in the same units (log10 for PODs).
func PredictionInterval(estimate *series.Series, err, z float64) (lower, upper *series.Series) {
	half := z * err

	lower = estimate.Rename("lb")
	floats.AddConst(-half, lower.Values)

	upper = estimate.Rename("ub")
	floats.AddConst(half, upper.Values)
	return lower, upper
}
