package model

import (
	"encoding/json"
	"io"

	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// LinearModelType is the model_type written for linear estimators.
const LinearModelType = "LinearRegression"

// ModelWeights is the JSON exchange format for linear models exported from
// a training pipeline.
type ModelWeights struct {
	ModelType    string            `json:"model_type"`
	Version      string            `json:"version"`
	Features     []string          `json:"feature_names_in"`
	Coefficients []float64         `json:"coef"`
	Intercept    float64           `json:"intercept"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Validate checks that the weights describe a fitted linear model.
func (mw *ModelWeights) Validate() error {
	if mw.ModelType != LinearModelType {
		return errors.NewInvalidParameterError("model.ModelWeights.Validate", "model_type", mw.ModelType, "only "+LinearModelType+" is supported")
	}
	if len(mw.Coefficients) == 0 {
		return errors.NewValueError("model.ModelWeights.Validate", "fitted model must have coefficients")
	}
	if len(mw.Features) != len(mw.Coefficients) {
		return errors.NewDimensionError("model.ModelWeights.Validate", len(mw.Features), len(mw.Coefficients), 1)
	}
	return nil
}

// Predictor builds the estimator described by the weights.
func (mw *ModelWeights) Predictor() (*LinearEstimator, error) {
	if err := mw.Validate(); err != nil {
		return nil, err
	}
	return NewFittedLinearEstimator(mw.Features, mw.Coefficients, mw.Intercept)
}

// ExportWeights returns the JSON exchange form of le.
func (le *LinearEstimator) ExportWeights() (*ModelWeights, error) {
	if !le.IsFitted() {
		return nil, errors.NewValueError("LinearEstimator.ExportWeights", "estimator is not fitted")
	}
	return &ModelWeights{
		ModelType:    LinearModelType,
		Version:      "1",
		Features:     le.FeatureNames(),
		Coefficients: append([]float64(nil), le.Coef...),
		Intercept:    le.Intercept,
	}, nil
}

// ReadWeights decodes ModelWeights JSON and builds the estimator.
func ReadWeights(r io.Reader) (*LinearEstimator, error) {
	var mw ModelWeights
	if err := json.NewDecoder(r).Decode(&mw); err != nil {
		return nil, errors.Wrap(err, "failed to decode model weights")
	}
	return mw.Predictor()
}

// WriteWeights encodes the weights of le as indented JSON.
func WriteWeights(le *LinearEstimator, w io.Writer) error {
	mw, err := le.ExportWeights()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(mw), "failed to encode model weights")
}
