package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lciaqsar/qsarstats/core/parallel"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// parallelRows is the row count above which Predict splits rows across workers.
const parallelRows = 4096

// LinearEstimator is an ordinary least squares model over named features.
type LinearEstimator struct {
	BaseEstimator
	Features  []string
	Coef      []float64
	Intercept float64
}

// NewLinearEstimator returns an unfitted estimator for the given features.
func NewLinearEstimator(features []string) *LinearEstimator {
	return &LinearEstimator{Features: append([]string(nil), features...)}
}

// NewFittedLinearEstimator builds an estimator from known coefficients.
func NewFittedLinearEstimator(features []string, coef []float64, intercept float64) (*LinearEstimator, error) {
	if len(features) != len(coef) {
		return nil, errors.NewDimensionError("model.NewFittedLinearEstimator", len(features), len(coef), 1)
	}
	le := &LinearEstimator{
		Features:  append([]string(nil), features...),
		Coef:      append([]float64(nil), coef...),
		Intercept: intercept,
	}
	le.SetFitted()
	return le, nil
}

// FeatureNames returns the fitted feature columns.
func (le *LinearEstimator) FeatureNames() []string {
	return append([]string(nil), le.Features...)
}

// Fit solves the normal equations w = (XᵀX)⁻¹Xᵀy with an intercept column.
func (le *LinearEstimator) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewValueError("LinearEstimator.Fit", "empty data")
	}
	if ry != r {
		return errors.NewDimensionError("LinearEstimator.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LinearEstimator.Fit", "y must be a column vector")
	}
	if len(le.Features) != c {
		return errors.NewDimensionError("LinearEstimator.Fit", len(le.Features), c, 1)
	}

	design := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		design.Set(i, 0, 1.0)
		for j := 0; j < c; j++ {
			design.Set(i, j+1, X.At(i, j))
		}
	}

	var xtx mat.Dense
	xtx.Mul(design.T(), design)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return errors.Wrap(err, "LinearEstimator.Fit: singular matrix")
	}

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var xty mat.VecDense
	xty.MulVec(design.T(), yVec)

	var w mat.VecDense
	w.MulVec(&xtxInv, &xty)

	le.Intercept = w.AtVec(0)
	le.Coef = make([]float64, c)
	for j := 0; j < c; j++ {
		le.Coef[j] = w.AtVec(j + 1)
	}
	le.SetFitted()
	return nil
}

// Predict computes X·coef + intercept.
func (le *LinearEstimator) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !le.IsFitted() {
		return nil, errors.NewValueError("LinearEstimator.Predict", "estimator is not fitted")
	}

	r, c := X.Dims()
	if c != len(le.Coef) {
		return nil, errors.NewDimensionError("LinearEstimator.Predict", len(le.Coef), c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	predictRows := func(start, end int) {
		for i := start; i < end; i++ {
			pred := le.Intercept
			for j := 0; j < c; j++ {
				pred += X.At(i, j) * le.Coef[j]
			}
			predictions.Set(i, 0, pred)
		}
	}
	if r < parallelRows {
		predictRows(0, r)
	} else {
		parallel.Parallelize(r, 0, predictRows)
	}
	return predictions, nil
}
