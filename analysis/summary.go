package analysis

import (
	"context"
	"math"
	"sort"
	"strconv"

	"github.com/lciaqsar/qsarstats/aggregate"
	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/metrics"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
	"github.com/lciaqsar/qsarstats/pkg/log"
	"github.com/lciaqsar/qsarstats/store"
	"github.com/lciaqsar/qsarstats/uncertainty"
)

// Describe column names added when RMSE is described.
const (
	GSDColumn        = "gsd"
	GSDSquaredColumn = "gsd_squared"
)

// DefaultPercentiles are the percentiles Describe reports when none are given.
var DefaultPercentiles = []float64{0.25, 0.5, 0.75}

// SummaryRow holds the quantiles of one metric for one (effect, model) pair.
type SummaryRow struct {
	Effect string
	Model  string
	Metric string
	Values []float64
}

// PerformanceSummary compares cross-validation scores across models. Every
// row has one value per entry of Quantiles.
type PerformanceSummary struct {
	Quantiles []float64
	Rows      []SummaryRow
}

// InSampleScore is the in-sample fit of one model.
type InSampleScore struct {
	Key    modelkey.Key
	Scores metrics.Scores
}

// SummarizeModelPerformances pools the fold scores of keys (every key when
// nil) by effect and model and reports their quantiles. Only metrics with a
// configured label are kept and they are reported under that label. When
// effect labels are configured only those effects are summarized, in label
// order; otherwise every effect is, sorted by name. Models are sorted by
// value. quantiles defaults to the configured ones.
func (a *Analyzer) SummarizeModelPerformances(ctx context.Context, keys []modelkey.Key, quantiles []float64) (PerformanceSummary, error) {
	if len(quantiles) == 0 {
		quantiles = a.settings.Quantiles
	}
	if len(quantiles) == 0 {
		quantiles = aggregate.DefaultQuantiles
	}

	names, err := a.results.ReadModelKeyNames(ctx)
	if err != nil {
		return PerformanceSummary{}, errors.Wrap(err, "read model key names")
	}
	effectAt := names.Index(a.settings.EffectKeyName)
	if effectAt < 0 {
		return PerformanceSummary{}, errors.NewInvalidDimensionError("analysis.SummarizeModelPerformances", a.settings.EffectKeyName, names)
	}
	modelAt := names.Index(a.settings.ModelKeyName)
	if modelAt < 0 {
		return PerformanceSummary{}, errors.NewInvalidDimensionError("analysis.SummarizeModelPerformances", a.settings.ModelKeyName, names)
	}

	frames, err := a.results.CombineResults(ctx, store.Performances, keys)
	if err != nil {
		return PerformanceSummary{}, errors.Wrap(err, "combine performances")
	}

	effectLabels := a.settings.LabelForEffect
	metricKeys := a.settings.LabelForMetric.Keys()

	// effect -> model -> metric -> pooled fold scores
	pools := make(map[string]map[string]map[string][]float64)
	for _, kf := range frames {
		if err := names.Validate(kf.Key); err != nil {
			return PerformanceSummary{}, err
		}
		effect, variant := kf.Key[effectAt], kf.Key[modelAt]
		if len(effectLabels) > 0 && !effectLabels.Has(effect) {
			continue
		}
		for _, metric := range metricKeys {
			j := kf.Frame.ColumnIndex(metric)
			if j < 0 {
				continue
			}
			byModel, ok := pools[effect]
			if !ok {
				byModel = make(map[string]map[string][]float64)
				pools[effect] = byModel
			}
			byMetric, ok := byModel[variant]
			if !ok {
				byMetric = make(map[string][]float64)
				byModel[variant] = byMetric
			}
			byMetric[metric] = append(byMetric[metric], kf.Frame.ColumnAt(j).Values...)
		}
	}

	var effects []string
	if len(effectLabels) > 0 {
		effects = effectLabels.Keys()
	} else {
		for effect := range pools {
			effects = append(effects, effect)
		}
		sort.Strings(effects)
	}

	summary := PerformanceSummary{Quantiles: append([]float64(nil), quantiles...)}
	for _, effect := range effects {
		byModel, ok := pools[effect]
		if !ok {
			continue
		}
		variants := make([]string, 0, len(byModel))
		for v := range byModel {
			variants = append(variants, v)
		}
		sort.Strings(variants)

		for _, variant := range variants {
			for _, metric := range metricKeys {
				pooled, ok := byModel[variant][metric]
				if !ok {
					continue
				}
				values, err := aggregate.Quantiles(pooled, quantiles)
				if err != nil {
					return PerformanceSummary{}, err
				}
				summary.Rows = append(summary.Rows, SummaryRow{
					Effect: effectLabels.Label(effect),
					Model:  variant,
					Metric: a.settings.LabelForMetric.Label(metric),
					Values: values,
				})
			}
		}
	}

	a.logger.Debug("summarized model performances",
		log.OperationKey, log.OperationSummary,
		log.ModelCountKey, len(frames),
		"rows", len(summary.Rows),
	)
	return summary, nil
}

// Describe summarizes the stored result rt of key with count, mean, std,
// min, the given percentiles and max, one column per configured metric
// (scoring names for importance results). Importance values are pooled over
// the rows labelled with each scoring name. When RMSE is described the
// geometric standard deviation and its 95% adjusted value are added as the
// gsd and gsd_squared columns.
func (a *Analyzer) Describe(ctx context.Context, key modelkey.Key, rt store.ResultType, percentiles []float64) (*series.Frame, error) {
	percentiles, err := describePercentiles(percentiles)
	if err != nil {
		return nil, err
	}

	table, err := a.results.ReadResult(ctx, key, rt)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s for %s", rt, key)
	}

	var (
		columns []string
		values  [][]float64
	)
	if rt.IsImportance() {
		for _, metric := range a.settings.LabelForScoring.Keys() {
			pooled := importanceValues(table, metric)
			if pooled == nil {
				return nil, errors.Wrapf(errors.ErrMissingColumn, "no %s rows in %s of %s", metric, rt, key)
			}
			columns = append(columns, metric)
			values = append(values, pooled)
		}
	} else {
		metricKeys := a.settings.LabelForMetric.Keys()
		for _, metric := range metricKeys {
			col, err := table.Column(metric)
			if err != nil {
				return nil, errors.Wrapf(err, "%s of %s", rt, key)
			}
			columns = append(columns, metric)
			values = append(values, col.Values)
		}
		if a.settings.LabelForMetric.Has(metrics.RootMeanSquared) {
			rmse, err := table.Column(metrics.RootMeanSquared)
			if err != nil {
				return nil, errors.Wrapf(err, "%s of %s", rt, key)
			}
			gsd := make([]float64, rmse.Len())
			adjusted := make([]float64, rmse.Len())
			for i, v := range rmse.Values {
				gsd[i], adjusted[i] = uncertainty.GSD(v, uncertainty.GSDZScore)
			}
			columns = append(columns, GSDColumn, GSDSquaredColumn)
			values = append(values, gsd, adjusted)
		}
	}

	index := describeIndex(percentiles)
	data := make([]float64, len(index)*len(columns))
	for j, v := range values {
		stats, err := describeValues(v, percentiles)
		if err != nil {
			return nil, err
		}
		for i, s := range stats {
			data[i*len(columns)+j] = s
		}
	}

	a.keyLogger(key, log.OperationDescribe).Debug("described results",
		log.ResultTypeKey, rt.String(),
		"columns", len(columns),
	)
	return series.NewFrame(index, columns, data)
}

// CompareInSample scores the in-sample predictions of keys, which must all
// model the same effect.
func (a *Analyzer) CompareInSample(ctx context.Context, keys []modelkey.Key) ([]InSampleScore, error) {
	names, err := a.results.ReadModelKeyNames(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read model key names")
	}
	effect, err := modelkey.SharedValue(keys, names, a.settings.EffectKeyName)
	if err != nil {
		return nil, err
	}

	out := make([]InSampleScore, 0, len(keys))
	for _, key := range keys {
		yPred, _, yTrue, err := a.InSamplePrediction(ctx, key, false)
		if err != nil {
			return nil, err
		}
		scores, err := metrics.Score(yTrue, yPred)
		if err != nil {
			return nil, errors.Wrapf(err, "score %s", key)
		}
		out = append(out, InSampleScore{Key: key.Clone(), Scores: scores})
	}

	a.logger.Debug("compared in-sample fits",
		log.OperationKey, log.OperationCompare,
		"effect", effect,
		log.ModelCountKey, len(out),
	)
	return out, nil
}

// importanceValues returns every value in the rows labelled metric, or nil
// when there are none.
func importanceValues(table *series.Frame, metric string) []float64 {
	var out []float64
	for i, label := range table.Index {
		if label != metric {
			continue
		}
		for j := 0; j < table.Cols(); j++ {
			out = append(out, table.At(i, j))
		}
	}
	return out
}

// describePercentiles validates, sorts and deduplicates percentiles and
// makes sure the median is among them.
func describePercentiles(percentiles []float64) ([]float64, error) {
	if len(percentiles) == 0 {
		percentiles = DefaultPercentiles
	}
	out := make([]float64, 0, len(percentiles)+1)
	hasMedian := false
	for _, p := range percentiles {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return nil, errors.NewInvalidParameterError("analysis.Describe", "percentiles", p, "must be in [0, 1]")
		}
		if p == 0.5 {
			hasMedian = true
		}
		out = append(out, p)
	}
	if !hasMedian {
		out = append(out, 0.5)
	}
	sort.Float64s(out)

	uniq := out[:1]
	for _, p := range out[1:] {
		if p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	return uniq, nil
}

func describeIndex(percentiles []float64) []string {
	index := []string{"count", "mean", "std", "min"}
	for _, p := range percentiles {
		index = append(index, formatPercentile(p))
	}
	return append(index, "max")
}

// formatPercentile renders 0.25 as "25%" and 0.025 as "2.5%".
func formatPercentile(p float64) string {
	pct := math.Round(p*100*1e6) / 1e6
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// describeValues returns the statistics of describeIndex, NaN excluded.
func describeValues(values, percentiles []float64) ([]float64, error) {
	qs, err := aggregate.Quantiles(values, percentiles)
	if err != nil {
		return nil, err
	}
	out := []float64{
		aggregate.Apply(aggregate.Count, values),
		aggregate.Apply(aggregate.Mean, values),
		aggregate.Apply(aggregate.Std, values),
		aggregate.Apply(aggregate.Min, values),
	}
	out = append(out, qs...)
	return append(out, aggregate.Apply(aggregate.Max, values)), nil
}
