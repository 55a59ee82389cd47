// Package model holds the contract for stored estimators and the linear
// estimator the file store can persist.
//
// The analysis engine never trains the QSAR models it reports on; it loads
// them and asks for predictions on feature tables whose columns it first
// reorders to FeatureNames.
package model

import "gonum.org/v1/gonum/mat"

// Fitter is an estimator that can learn from data.
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor is a fitted estimator.
type Predictor interface {
	// Predict returns an n×1 matrix of predictions for the rows of X. The
	// columns of X follow FeatureNames.
	Predict(X mat.Matrix) (mat.Matrix, error)
	// FeatureNames returns the feature columns seen during fitting, in order.
	FeatureNames() []string
}
