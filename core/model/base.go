package model

// EstimatorState is the training state of an estimator.
type EstimatorState int

const (
	// NotFitted marks an estimator without learned parameters.
	NotFitted EstimatorState = iota
	// Fitted marks an estimator ready to predict.
	Fitted
)

// BaseEstimator tracks the training state. State is exported so that gob
// persistence keeps it.
type BaseEstimator struct {
	State EstimatorState
}

// IsFitted reports whether the estimator has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}
