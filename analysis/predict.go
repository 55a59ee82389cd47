package analysis

import (
	"context"

	"github.com/lciaqsar/qsarstats/aggregate"
	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
	"github.com/lciaqsar/qsarstats/pkg/log"
	"github.com/lciaqsar/qsarstats/store"
	"github.com/lciaqsar/qsarstats/uncertainty"
)

// PredictionName is the name of prediction series.
const PredictionName = "prediction"

// PredictOptions tunes Predict.
type PredictOptions struct {
	// InverseTransform returns 10**prediction instead of log10 units.
	InverseTransform bool
	// ExcludeTraining drops the chemicals the model was trained on.
	ExcludeTraining bool
}

// Predict runs the estimator of key over every chemical with features. It
// returns the predictions and the feature table with the estimator's columns.
func (a *Analyzer) Predict(ctx context.Context, key modelkey.Key, opts PredictOptions) (*series.Series, *series.Frame, error) {
	q, err := a.query(ctx, key, opts.ExcludeTraining)
	if err != nil {
		return nil, nil, err
	}
	X, err := a.data.LoadFeatures(ctx, q)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load features for %s", key)
	}
	return a.prediction(ctx, key, X, opts.InverseTransform)
}

// InSamplePrediction predicts the chemicals that have both features and an
// observed target. InverseTransform applies to the predictions only; yTrue
// stays in stored units.
func (a *Analyzer) InSamplePrediction(ctx context.Context, key modelkey.Key, inverseTransform bool) (yPred *series.Series, X *series.Frame, yTrue *series.Series, err error) {
	q, err := a.query(ctx, key, false)
	if err != nil {
		return nil, nil, nil, err
	}
	features, yTrue, err := a.data.LoadFeaturesAndTarget(ctx, q)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "load features and target for %s", key)
	}
	yPred, X, err = a.prediction(ctx, key, features, inverseTransform)
	if err != nil {
		return nil, nil, nil, err
	}
	return yPred, X, yTrue, nil
}

// OutOfSamplePrediction reduces the stored cross-validation predictions of
// key to one value per chemical with method, and returns them with the
// observed targets of the same chemicals. Chemicals lacking either side are
// dropped, so both series share one index.
func (a *Analyzer) OutOfSamplePrediction(ctx context.Context, key modelkey.Key, method aggregate.Method) (yPred, yTrue *series.Series, err error) {
	q, err := a.query(ctx, key, false)
	if err != nil {
		return nil, nil, err
	}
	target, err := a.data.LoadTarget(ctx, q)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load target for %s", key)
	}

	stored, err := a.results.ReadResult(ctx, key, store.Predictions)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read predictions for %s", key)
	}
	if stored.Cols() == 0 {
		return nil, nil, errors.Wrapf(errors.ErrMissingColumn, "predictions for %s have no value column", key)
	}

	replicates := stored.ColumnAt(0).Rename(PredictionName)
	aggregated := aggregate.GroupByIndex(replicates, method)
	yPred, yTrue = series.Align(aggregated, target)

	logger := a.keyLogger(key, log.OperationPredict)
	if dropped := aggregated.Len() - yPred.Len(); dropped > 0 {
		logger.Warn("predicted chemicals without observed target dropped",
			log.SamplesKey, dropped,
		)
	}
	logger.Debug("aggregated out-of-sample predictions",
		"aggregation", method.String(),
		log.SamplesKey, yPred.Len(),
		log.ReplicateCountKey, replicates.Len(),
	)
	return yPred, yTrue, nil
}

// prediction reorders X to the estimator's features and predicts.
func (a *Analyzer) prediction(ctx context.Context, key modelkey.Key, X *series.Frame, inverse bool) (*series.Series, *series.Frame, error) {
	estimator, err := a.results.ReadEstimator(ctx, key)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read estimator for %s", key)
	}
	X, err = X.SelectColumns(estimator.FeatureNames())
	if err != nil {
		return nil, nil, errors.Wrapf(err, "features of %s", key)
	}

	values := make([]float64, X.Rows())
	if X.Data != nil {
		out, err := estimator.Predict(X.Data)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "predict %s", key)
		}
		if r, _ := out.Dims(); r != X.Rows() {
			return nil, nil, errors.NewDimensionError("analysis.Predict", X.Rows(), r, 0)
		}
		for i := range values {
			values[i] = out.At(i, 0)
		}
	}

	yPred, err := series.New(PredictionName, X.Index, values)
	if err != nil {
		return nil, nil, err
	}
	if inverse {
		yPred = uncertainty.InverseLog10(yPred)
	}

	a.keyLogger(key, log.OperationPredict).Debug("predicted",
		log.SamplesKey, yPred.Len(),
		log.FeaturesKey, X.Cols(),
	)
	return yPred, X, nil
}
