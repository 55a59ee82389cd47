// Package metrics scores predictions against observed values.
//
// The vector functions take gonum vectors of equal length. Score works on
// identifier-indexed series: it aligns them, drops pairs with a missing side
// and reports every regression metric at once.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Scoring names as they appear in stored performance tables.
const (
	R2                = "r2"
	RootMeanSquared   = "root_mean_squared_error"
	MeanSquared       = "mean_squared_error"
	MeanAbsolute      = "mean_absolute_error"
	NegRootMeanSquare = "neg_root_mean_squared_error"
)

// MSE computes the mean squared error.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLengths("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE computes the root mean squared error.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLengths("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score computes the coefficient of determination.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLengths("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	yMean := mat.Sum(yTrue) / float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		tss += (t - yMean) * (t - yMean)
		rss += (t - p) * (t - p)
	}

	if tss == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

// Scores holds the regression metrics for one prediction set.
type Scores struct {
	Samples int
	R2      float64
	RMSE    float64
	MSE     float64
	MAE     float64
}

// Get returns the metric stored under one of the scoring names.
func (s Scores) Get(name string) (float64, bool) {
	switch name {
	case R2:
		return s.R2, true
	case RootMeanSquared:
		return s.RMSE, true
	case NegRootMeanSquare:
		return -s.RMSE, true
	case MeanSquared:
		return s.MSE, true
	case MeanAbsolute:
		return s.MAE, true
	}
	return 0, false
}

// Score aligns yTrue and yPred on their identifiers, drops pairs with a NaN
// on either side and computes every metric. R2 is NaN when the observed
// values have no variance.
func Score(yTrue, yPred *series.Series) (Scores, error) {
	t, p := series.Align(yTrue, yPred)

	var obs, pred []float64
	for i := range t.Values {
		if math.IsNaN(t.Values[i]) || math.IsNaN(p.Values[i]) {
			continue
		}
		obs = append(obs, t.Values[i])
		pred = append(pred, p.Values[i])
	}
	if len(obs) == 0 {
		return Scores{}, errors.NewValueError("metrics.Score", "no shared observations")
	}

	tv := mat.NewVecDense(len(obs), obs)
	pv := mat.NewVecDense(len(pred), pred)

	out := Scores{Samples: len(obs)}
	out.MSE, _ = MSE(tv, pv)
	out.RMSE = math.Sqrt(out.MSE)
	out.MAE, _ = MAE(tv, pv)
	r2, err := R2Score(tv, pv)
	if err != nil {
		r2 = math.NaN()
	}
	out.R2 = r2
	return out, nil
}

func checkLengths(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue.IsEmpty() {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.IsEmpty() || yPred.Len() != n {
		got := 0
		if !yPred.IsEmpty() {
			got = yPred.Len()
		}
		return 0, errors.NewDimensionError(op, n, got, 0)
	}
	return n, nil
}
