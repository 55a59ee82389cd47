package analysis

import (
	"context"
	"math"

	"github.com/lciaqsar/qsarstats/aggregate"
	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/metrics"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
	"github.com/lciaqsar/qsarstats/pkg/log"
	"github.com/lciaqsar/qsarstats/store"
	"github.com/lciaqsar/qsarstats/uncertainty"
)

// IntervalOptions tunes the POD and MOE distributions.
type IntervalOptions struct {
	// InverseTransform converts value, lower and upper to natural units.
	InverseTransform bool
	// Normalize reports cumulative frequency instead of count.
	Normalize bool
	// ExcludeTraining drops chemicals the model was trained on, since they
	// already have labelled data.
	ExcludeTraining bool
}

// DefaultIntervalOptions excludes training chemicals and keeps log10 units.
func DefaultIntervalOptions() IntervalOptions {
	return IntervalOptions{ExcludeTraining: true}
}

// PercentileCDF is the MOE distribution for one exposure percentile.
type PercentileCDF struct {
	Percentile string
	Table      uncertainty.CDFTable
}

// LabeledSeries is a series tagged with a display label.
type LabeledSeries struct {
	Label  string
	Series *series.Series
}

// TypicalPODError returns the median of metric over the stored
// cross-validation performances of key. metric defaults to
// root_mean_squared_error.
func (a *Analyzer) TypicalPODError(ctx context.Context, key modelkey.Key, metric string) (float64, error) {
	if metric == "" {
		metric = metrics.RootMeanSquared
	}
	perf, err := a.results.ReadResult(ctx, key, store.Performances)
	if err != nil {
		return 0, errors.Wrapf(err, "read performances for %s", key)
	}
	col, err := perf.Column(metric)
	if err != nil {
		return 0, errors.Wrapf(err, "performances of %s", key)
	}
	typical := aggregate.Apply(aggregate.Median, col.Values)
	if math.IsNaN(typical) {
		return 0, errors.NewValueError("analysis.TypicalPODError", "no "+metric+" values for "+key.String())
	}
	return typical, nil
}

// PODAndPredictionInterval predicts PODs for key and returns their
// cumulative distribution with a prediction interval of z times the typical
// POD error around each value.
func (a *Analyzer) PODAndPredictionInterval(ctx context.Context, key modelkey.Key, opts IntervalOptions) (uncertainty.CDFTable, error) {
	yPred, _, err := a.Predict(ctx, key, PredictOptions{ExcludeTraining: opts.ExcludeTraining})
	if err != nil {
		return uncertainty.CDFTable{}, err
	}
	rmse, err := a.TypicalPODError(ctx, key, metrics.RootMeanSquared)
	if err != nil {
		return uncertainty.CDFTable{}, err
	}

	table, err := uncertainty.BuildCDFTable(uncertainty.ValuePOD, yPred, rmse, a.settings.ZScore, opts.Normalize, opts.InverseTransform)
	if err != nil {
		return uncertainty.CDFTable{}, err
	}

	a.keyLogger(key, log.OperationPOD).Debug("built POD distribution",
		log.SamplesKey, table.Len(),
		log.DroppedKey, yPred.Len()-table.Len(),
		log.ErrorMagnitudeKey, rmse,
		log.ZScoreKey, a.settings.ZScore,
	)
	return table, nil
}

// MOEAndPredictionIntervals returns one MOE distribution per exposure
// percentile column, in column order. MOEs are log10 POD minus log10
// exposure over the chemicals present in both; the interval around each MOE
// carries the hazard uncertainty only.
func (a *Analyzer) MOEAndPredictionIntervals(ctx context.Context, key modelkey.Key, opts IntervalOptions) ([]PercentileCDF, error) {
	yPred, _, err := a.Predict(ctx, key, PredictOptions{ExcludeTraining: opts.ExcludeTraining})
	if err != nil {
		return nil, err
	}
	exposure, err := a.data.LoadExposureData(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load exposure data")
	}
	moes, err := uncertainty.MarginsOfExposureFrame(yPred, exposure, true)
	if err != nil {
		return nil, err
	}
	rmse, err := a.TypicalPODError(ctx, key, metrics.RootMeanSquared)
	if err != nil {
		return nil, err
	}

	logger := a.keyLogger(key, log.OperationMOE)
	out := make([]PercentileCDF, 0, len(exposure.Columns))
	for _, percentile := range exposure.Columns {
		moe, err := moes.Column(percentile)
		if err != nil {
			return nil, err
		}

		table, err := uncertainty.BuildCDFTable(uncertainty.ValueMOE, moe, rmse, a.settings.ZScore, opts.Normalize, opts.InverseTransform)
		if err != nil {
			return nil, err
		}
		logger.Debug("built MOE distribution",
			log.PercentileKey, percentile,
			log.SamplesKey, table.Len(),
		)
		out = append(out, PercentileCDF{Percentile: percentile, Table: table})
	}
	return out, nil
}

// PODComparisonData returns the authoritative PODs of the key's effect, the
// surrogate PODs the model was trained on and the QSAR predictions, labelled
// with the configured labels in that order.
func (a *Analyzer) PODComparisonData(ctx context.Context, key modelkey.Key) ([]LabeledSeries, error) {
	q, err := a.query(ctx, key, false)
	if err != nil {
		return nil, err
	}
	effect, ok := q.Key[a.settings.EffectKeyName]
	if !ok {
		names, err := a.results.ReadModelKeyNames(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "read model key names")
		}
		return nil, errors.NewInvalidDimensionError("analysis.PODComparisonData", a.settings.EffectKeyName, names)
	}

	authoritative, err := a.data.LoadAuthoritativePODs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load authoritative PODs")
	}
	yAuth, err := authoritative.Column(effect)
	if err != nil {
		return nil, errors.Wrapf(err, "authoritative PODs for effect %s", effect)
	}

	_, yTrue, err := a.data.LoadFeaturesAndTarget(ctx, q)
	if err != nil {
		return nil, errors.Wrapf(err, "load features and target for %s", key)
	}
	yPred, _, err := a.Predict(ctx, key, PredictOptions{})
	if err != nil {
		return nil, err
	}

	return []LabeledSeries{
		{Label: a.settings.AuthoritativeLabel, Series: yAuth.DropNaN()},
		{Label: a.settings.SurrogateLabel, Series: yTrue},
		{Label: a.settings.QSARLabel, Series: yPred},
	}, nil
}
