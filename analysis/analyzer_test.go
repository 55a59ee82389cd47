package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lciaqsar/qsarstats/aggregate"
	"github.com/lciaqsar/qsarstats/config"
	"github.com/lciaqsar/qsarstats/core/model"
	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/metrics"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
	"github.com/lciaqsar/qsarstats/pkg/log"
	"github.com/lciaqsar/qsarstats/store"
	"github.com/lciaqsar/qsarstats/uncertainty"
)

var (
	names        = modelkey.Names{"target_effect", "model_build"}
	generalIn    = modelkey.Key{"general", "in"}
	generalOut   = modelkey.Key{"general", "out"}
	reproductive = modelkey.Key{"reproductive", "in"}
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustFrame(t *testing.T, index, columns []string, data []float64) *series.Frame {
	t.Helper()
	f, err := series.NewFrame(index, columns, data)
	require.NoError(t, err)
	return f
}

func mustSeries(t *testing.T, name string, index []string, values []float64) *series.Series {
	t.Helper()
	s, err := series.New(name, index, values)
	require.NoError(t, err)
	return s
}

// newFixture builds a store where generalIn predicts 0.5*logp for five
// chemicals, c1 and c2 being the training set of the general effect.
func newFixture(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory(names)

	m.SetFeatures(mustFrame(t,
		[]string{"c1", "c2", "c3", "c4", "c5"},
		[]string{"mw", "logp"},
		[]float64{100, 1, 200, 2, 300, 3, 400, 4, 500, 5}))
	m.SetTarget("general", mustSeries(t, "general", []string{"c1", "c2"}, []float64{0.5, 1.2}))
	m.SetTarget("reproductive", mustSeries(t, "reproductive", []string{"c3"}, []float64{1.0}))
	m.SetExposure(mustFrame(t,
		[]string{"c3", "c4", "c9"},
		[]string{"50th", "95th"},
		[]float64{0.5, 1.0, 1.0, 2.5, 0, 0}))
	m.SetAuthoritativePODs(mustFrame(t,
		[]string{"c1", "c2", "c3"},
		[]string{"general"},
		[]float64{0.7, math.NaN(), 1.1}))

	est, err := model.NewFittedLinearEstimator([]string{"logp"}, []float64{0.5}, 0)
	require.NoError(t, err)
	require.NoError(t, m.AddModel(generalIn, est))
	require.NoError(t, m.AddModel(reproductive, est))

	require.NoError(t, m.SetResult(generalIn, store.Performances, mustFrame(t,
		[]string{"0", "1", "2"},
		[]string{"r2", "root_mean_squared_error", "median_absolute_error"},
		[]float64{
			0.6, 0.2, 0.1,
			0.8, 0.4, 0.3,
			0.7, 0.3, 0.2,
		})))
	require.NoError(t, m.SetResult(generalOut, store.Performances, mustFrame(t,
		[]string{"0", "1"},
		[]string{"r2", "root_mean_squared_error"},
		[]float64{0.1, 0.5, 0.2, 0.7})))
	require.NoError(t, m.SetResult(reproductive, store.Performances, mustFrame(t,
		[]string{"0"},
		[]string{"r2", "root_mean_squared_error"},
		[]float64{0.4, 0.9})))
	return m
}

func newTestAnalyzer(t *testing.T, m *store.Memory, settings *config.Settings, opts ...Option) *Analyzer {
	t.Helper()
	a, err := New(m, m, settings, opts...)
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	m := newFixture(t)

	_, err := New(nil, m, nil)
	assert.Error(t, err)

	bad := config.Default()
	bad.ZScore = -1
	_, err = New(m, m, bad)
	var paramErr *errors.InvalidParameterError
	assert.True(t, errors.As(err, &paramErr))

	a := newTestAnalyzer(t, m, nil)
	assert.Equal(t, "target_effect", a.Settings().EffectKeyName)
}

func TestPredict(t *testing.T) {
	ctx := context.Background()
	a := newTestAnalyzer(t, newFixture(t), nil)

	yPred, X, err := a.Predict(ctx, generalIn, PredictOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3", "c4", "c5"}, yPred.Index)
	assert.InDeltaSlice(t, []float64{0.5, 1, 1.5, 2, 2.5}, yPred.Values, 1e-12)
	assert.Equal(t, []string{"logp"}, X.Columns)

	yPred, _, err = a.Predict(ctx, generalIn, PredictOptions{ExcludeTraining: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"c3", "c4", "c5"}, yPred.Index)

	yPred, _, err = a.Predict(ctx, generalIn, PredictOptions{ExcludeTraining: true, InverseTransform: true})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{math.Pow(10, 1.5), 100, math.Pow(10, 2.5)}, yPred.Values, 1e-9)

	_, _, err = a.Predict(ctx, generalOut, PredictOptions{})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestInSamplePrediction(t *testing.T) {
	a := newTestAnalyzer(t, newFixture(t), nil)

	yPred, X, yTrue, err := a.InSamplePrediction(context.Background(), generalIn, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, yPred.Index)
	assert.Equal(t, yTrue.Index, yPred.Index)
	assert.Equal(t, 2, X.Rows())
	assert.InDeltaSlice(t, []float64{math.Pow(10, 0.5), 10}, yPred.Values, 1e-9)
	// observed values stay in log10 units
	assert.Equal(t, []float64{0.5, 1.2}, yTrue.Values)
}

func TestOutOfSamplePrediction(t *testing.T) {
	m := newFixture(t)
	require.NoError(t, m.SetResult(generalIn, store.Predictions, mustFrame(t,
		[]string{"c2", "c1", "c2", "c1", "c7"},
		[]string{"y_pred"},
		[]float64{1.0, 0.4, 1.4, 0.6, 3.0})))
	a := newTestAnalyzer(t, m, nil)

	tests := []struct {
		method aggregate.Method
		want   []float64
	}{
		{aggregate.Mean, []float64{0.5, 1.2}},
		{aggregate.Max, []float64{0.6, 1.4}},
		{aggregate.Count, []float64{2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			yPred, yTrue, err := a.OutOfSamplePrediction(context.Background(), generalIn, tt.method)
			require.NoError(t, err)
			assert.Equal(t, PredictionName, yPred.Name)
			// c7 has no observed target and is dropped from both sides
			assert.Equal(t, []string{"c1", "c2"}, yPred.Index)
			assert.Equal(t, yPred.Index, yTrue.Index)
			assert.InDeltaSlice(t, tt.want, yPred.Values, 1e-12)
			assert.Equal(t, []float64{0.5, 1.2}, yTrue.Values)
		})
	}
}

func TestTypicalPODError(t *testing.T) {
	ctx := context.Background()
	m := newFixture(t)
	a := newTestAnalyzer(t, m, nil)

	rmse, err := a.TypicalPODError(ctx, generalIn, "")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, rmse, 1e-12)

	r2, err := a.TypicalPODError(ctx, generalIn, metrics.R2)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, r2, 1e-12)

	_, err = a.TypicalPODError(ctx, generalIn, "explained_variance")
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))

	require.NoError(t, m.SetResult(generalOut, store.Performances, mustFrame(t,
		[]string{"0"}, []string{"root_mean_squared_error"}, []float64{math.NaN()})))
	_, err = a.TypicalPODError(ctx, generalOut, "")
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))
}

func TestPODAndPredictionInterval(t *testing.T) {
	a := newTestAnalyzer(t, newFixture(t), nil)

	table, err := a.PODAndPredictionInterval(context.Background(), generalIn, DefaultIntervalOptions())
	require.NoError(t, err)

	halfWidth := 1.645 * 0.3
	assert.Equal(t, []string{"c3", "c4", "c5"}, table.Index)
	assert.InDeltaSlice(t, []float64{1.5, 2, 2.5}, table.Values, 1e-12)
	assert.InDeltaSlice(t, []float64{1.5 - halfWidth, 2 - halfWidth, 2.5 - halfWidth}, table.Lower, 1e-12)
	assert.InDeltaSlice(t, []float64{1.5 + halfWidth, 2 + halfWidth, 2.5 + halfWidth}, table.Upper, 1e-12)
	assert.Equal(t, []float64{1, 2, 3}, table.Cumulative)
	assert.False(t, table.NaturalUnits)

	natural, err := a.PODAndPredictionInterval(context.Background(), generalIn,
		IntervalOptions{ExcludeTraining: true, InverseTransform: true, Normalize: true})
	require.NoError(t, err)
	assert.True(t, natural.NaturalUnits)
	assert.InDelta(t, math.Pow(10, 2-halfWidth), natural.Lower[1], 1e-9)
	assert.InDeltaSlice(t, []float64{1.0 / 3, 2.0 / 3, 1}, natural.Cumulative, 1e-12)
}

func TestMOEAndPredictionIntervals(t *testing.T) {
	a := newTestAnalyzer(t, newFixture(t), nil)

	got, err := a.MOEAndPredictionIntervals(context.Background(), generalIn, DefaultIntervalOptions())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "50th", got[0].Percentile)
	assert.Equal(t, []string{"c3", "c4"}, got[0].Table.Index)
	assert.InDeltaSlice(t, []float64{1, 1}, got[0].Table.Values, 1e-12)

	assert.Equal(t, "95th", got[1].Percentile)
	assert.Equal(t, []string{"c4", "c3"}, got[1].Table.Index)
	assert.InDeltaSlice(t, []float64{-0.5, 0.5}, got[1].Table.Values, 1e-12)
	assert.InDelta(t, -0.5-1.645*0.3, got[1].Table.Lower[0], 1e-12)
}

func TestMOEWithoutExposure(t *testing.T) {
	m := newFixture(t)
	m.SetExposure(nil)
	a := newTestAnalyzer(t, m, nil)

	_, err := a.MOEAndPredictionIntervals(context.Background(), generalIn, DefaultIntervalOptions())
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestPODComparisonData(t *testing.T) {
	a := newTestAnalyzer(t, newFixture(t), nil)

	got, err := a.PODComparisonData(context.Background(), generalIn)
	require.NoError(t, err)
	require.Len(t, got, 3)

	labels := []string{got[0].Label, got[1].Label, got[2].Label}
	s := a.Settings()
	assert.Equal(t, []string{s.AuthoritativeLabel, s.SurrogateLabel, s.QSARLabel}, labels)
	assert.Equal(t, []string{"c1", "c3"}, got[0].Series.Index)
	assert.Equal(t, []string{"c1", "c2"}, got[1].Series.Index)
	assert.Equal(t, 5, got[2].Series.Len())
}

// namesOnce serves the model key names once and fails on later reads.
type namesOnce struct {
	*store.Memory
	calls int
}

func (n *namesOnce) ReadModelKeyNames(ctx context.Context) (modelkey.Names, error) {
	n.calls++
	if n.calls > 1 {
		return nil, errors.New("manifest gone")
	}
	return n.Memory.ReadModelKeyNames(ctx)
}

func TestPODComparisonDataUnknownEffect(t *testing.T) {
	ctx := context.Background()
	m := newFixture(t)
	settings := config.Default()
	settings.EffectKeyName = "endpoint"

	a := newTestAnalyzer(t, m, settings)
	_, err := a.PODComparisonData(ctx, generalIn)
	var dimErr *errors.InvalidDimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, []string(names), dimErr.Known)

	flaky, err := New(&namesOnce{Memory: m}, m, settings)
	require.NoError(t, err)
	_, err = flaky.PODComparisonData(ctx, generalIn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest gone")
	assert.False(t, errors.As(err, &dimErr))
}

func TestImportantFeatures(t *testing.T) {
	ctx := context.Background()
	m := newFixture(t)
	require.NoError(t, m.SetResult(generalIn, store.Importances, mustFrame(t,
		[]string{"r2", "r2", metrics.NegRootMeanSquare},
		[]string{"logp", "mw", "tpsa"},
		[]float64{
			0.1, 0.5, 0.0,
			0.3, 0.7, 0.1,
			0.9, 0.0, 0.9,
		})))

	settings := config.Default()
	settings.FeatureSelection.NFeatures = 2
	a := newTestAnalyzer(t, m, settings)

	got, err := a.ImportantFeatures(ctx, generalIn)
	require.NoError(t, err)
	assert.Equal(t, []string{"mw", "logp"}, got)

	_, err = a.ImportantFeatures(ctx, generalOut)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestImportantFeaturesReplicates(t *testing.T) {
	m := newFixture(t)
	require.NoError(t, m.SetResult(generalIn, store.ImportancesReplicates, mustFrame(t,
		[]string{"r2", "r2", "r2", "r2"},
		[]string{"logp", "mw"},
		[]float64{
			0.9, 0.1,
			0.8, 0.2,
			0.1, 0.6,
			0.2, 0.7,
		})))

	settings := config.Default()
	settings.FeatureSelection = config.FeatureSelection{
		CriterionMetric: "r2",
		NFeatures:       1,
		NSplitsSelect:   1,
		NRepeatsSelect:  1,
		NRepeatsPerm:    2,
	}
	a := newTestAnalyzer(t, m, settings)

	got, err := a.ImportantFeaturesReplicates(context.Background(), generalIn)
	require.NoError(t, err)
	if diff := cmp.Diff([][]string{{"logp"}, {"mw"}}, got); diff != "" {
		t.Errorf("replicate selections mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeModelPerformances(t *testing.T) {
	ctx := context.Background()
	a := newTestAnalyzer(t, newFixture(t), nil)

	summary, err := a.SummarizeModelPerformances(ctx, nil, []float64{0, 0.5, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, summary.Quantiles)

	want := []SummaryRow{
		{Effect: "general", Model: "in", Metric: "R²", Values: []float64{0.6, 0.7, 0.8}},
		{Effect: "general", Model: "in", Metric: "RMSE", Values: []float64{0.2, 0.3, 0.4}},
		{Effect: "general", Model: "in", Metric: "MedAE", Values: []float64{0.1, 0.2, 0.3}},
		{Effect: "general", Model: "out", Metric: "R²", Values: []float64{0.1, 0.15, 0.2}},
		{Effect: "general", Model: "out", Metric: "RMSE", Values: []float64{0.5, 0.6, 0.7}},
		{Effect: "reproductive", Model: "in", Metric: "R²", Values: []float64{0.4, 0.4, 0.4}},
		{Effect: "reproductive", Model: "in", Metric: "RMSE", Values: []float64{0.9, 0.9, 0.9}},
	}
	if diff := cmp.Diff(want, summary.Rows, cmp.Comparer(func(x, y float64) bool {
		return math.Abs(x-y) < 1e-12
	})); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeModelPerformancesEffectLabels(t *testing.T) {
	settings := config.Default()
	settings.LabelForEffect = config.LabelMap{{Key: "reproductive", Label: "Reproductive"}}
	settings.LabelForMetric = config.LabelMap{{Key: "root_mean_squared_error", Label: "RMSE"}}
	a := newTestAnalyzer(t, newFixture(t), settings)

	summary, err := a.SummarizeModelPerformances(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, summary.Rows, 1)
	assert.Equal(t, "Reproductive", summary.Rows[0].Effect)
	assert.Len(t, summary.Rows[0].Values, len(aggregate.DefaultQuantiles))
	assert.Equal(t, aggregate.DefaultQuantiles, summary.Quantiles)
}

func TestSummarizeModelPerformancesUnknownModelDimension(t *testing.T) {
	settings := config.Default()
	settings.ModelKeyName = "estimator"
	a := newTestAnalyzer(t, newFixture(t), settings)

	_, err := a.SummarizeModelPerformances(context.Background(), nil, nil)
	var dimErr *errors.InvalidDimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestDescribe(t *testing.T) {
	a := newTestAnalyzer(t, newFixture(t), nil)

	got, err := a.Describe(context.Background(), generalIn, store.Performances, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}, got.Index)
	assert.Equal(t, []string{"r2", "root_mean_squared_error", "median_absolute_error", GSDColumn, GSDSquaredColumn}, got.Columns)

	rmse, err := got.Column("root_mean_squared_error")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 0.3, 0.1, 0.2, 0.25, 0.3, 0.35, 0.4}, rmse.Values, 1e-12)

	gsd, err := got.Column(GSDColumn)
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(10, 0.2), gsd.Values[3], 1e-12)
	assert.InDelta(t, math.Pow(10, 0.4), gsd.Values[7], 1e-12)

	squared, err := got.Column(GSDSquaredColumn)
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(math.Pow(10, 0.3), 1.96), squared.Values[5], 1e-9)
}

func TestDescribeImportances(t *testing.T) {
	m := newFixture(t)
	require.NoError(t, m.SetResult(generalIn, store.Importances, mustFrame(t,
		[]string{"r2", "r2", metrics.NegRootMeanSquare},
		[]string{"logp", "mw"},
		[]float64{1, 2, 3, 4, 5, 6})))
	a := newTestAnalyzer(t, m, nil)

	got, err := a.Describe(context.Background(), generalIn, store.Importances, []float64{0.1})
	require.NoError(t, err)
	assert.Equal(t, []string{"count", "mean", "std", "min", "10%", "50%", "max"}, got.Index)
	assert.Equal(t, []string{"r2", metrics.NegRootMeanSquare}, got.Columns)

	r2, _ := got.Column("r2")
	assert.Equal(t, 4.0, r2.Values[0])
	assert.InDelta(t, 2.5, r2.Values[1], 1e-12)

	neg, _ := got.Column(metrics.NegRootMeanSquare)
	assert.Equal(t, 2.0, neg.Values[0])
	assert.Equal(t, 6.0, neg.Values[6])
}

func TestDescribeErrors(t *testing.T) {
	ctx := context.Background()
	settings := config.Default()
	settings.LabelForMetric = append(settings.LabelForMetric, config.Label{Key: "explained_variance", Label: "EV"})
	a := newTestAnalyzer(t, newFixture(t), settings)

	_, err := a.Describe(ctx, generalIn, store.Performances, nil)
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))

	_, err = a.Describe(ctx, generalIn, store.Importances, nil)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	rmseOnly := config.Default()
	rmseOnly.LabelForMetric = config.LabelMap{{Key: metrics.RootMeanSquared, Label: "RMSE"}}
	m := newFixture(t)
	require.NoError(t, m.SetResult(reproductive, store.Performances, mustFrame(t,
		[]string{"0"}, []string{"r2"}, []float64{0.4})))
	_, err = newTestAnalyzer(t, m, rmseOnly).Describe(ctx, reproductive, store.Performances, nil)
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))

	_, err = a.Describe(ctx, generalIn, store.Performances, []float64{1.5})
	var paramErr *errors.InvalidParameterError
	assert.True(t, errors.As(err, &paramErr))
}

func TestFormatPercentile(t *testing.T) {
	tests := map[float64]string{
		0.025: "2.5%",
		0.25:  "25%",
		0.07:  "7%",
		1:     "100%",
	}
	for p, want := range tests {
		assert.Equal(t, want, formatPercentile(p))
	}
}

func TestCompareInSample(t *testing.T) {
	ctx := context.Background()
	a := newTestAnalyzer(t, newFixture(t), nil)

	got, err := a.CompareInSample(ctx, []modelkey.Key{generalIn})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Scores.Samples)
	assert.InDelta(t, 0.02, got[0].Scores.MSE, 1e-12)
	assert.InDelta(t, 0.1, got[0].Scores.MAE, 1e-12)

	_, err = a.CompareInSample(ctx, []modelkey.Key{generalIn, reproductive})
	var groupErr *errors.InconsistentGroupingError
	assert.True(t, errors.As(err, &groupErr))
}

func TestBatchPODIsolatesFailures(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	a := newTestAnalyzer(t, newFixture(t), nil, WithLogger(logger))

	keys := []modelkey.Key{generalIn, generalOut, generalIn}
	got := a.BatchPOD(context.Background(), keys, 2, DefaultIntervalOptions())
	require.Len(t, got, 3)

	for _, i := range []int{0, 2} {
		assert.NoError(t, got[i].Err)
		assert.Equal(t, generalIn, got[i].Key)
		assert.Equal(t, 3, got[i].Table.Len())
	}

	var itemErr *errors.ItemError
	require.True(t, errors.As(got[1].Err, &itemErr))
	assert.Equal(t, "general-out", itemErr.Item)
	assert.True(t, errors.Is(got[1].Err, errors.ErrNotFound))

	assert.True(t, logger.ContainsMessage("batch finished"))
	assert.True(t, logger.ContainsField("failed", float64(1)))
}

func TestBatchMOE(t *testing.T) {
	a := newTestAnalyzer(t, newFixture(t), nil)

	got := a.BatchMOE(context.Background(), []modelkey.Key{reproductive, generalIn}, 0, DefaultIntervalOptions())
	require.Len(t, got, 2)
	for _, r := range got {
		require.NoError(t, r.Err)
		assert.Len(t, r.Tables, 2)
	}
	// c3 is a training chemical of the reproductive effect
	assert.Equal(t, []string{"c4"}, got[0].Tables[0].Table.Index)
}

func TestBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := newTestAnalyzer(t, newFixture(t), nil)

	got := a.BatchPOD(ctx, []modelkey.Key{generalIn}, 1, DefaultIntervalOptions())
	assert.True(t, errors.Is(got[0].Err, context.Canceled))
}

func TestOrchestrationsAreRepeatable(t *testing.T) {
	ctx := context.Background()
	a := newTestAnalyzer(t, newFixture(t), nil)
	natural := IntervalOptions{InverseTransform: true, Normalize: true, ExcludeTraining: true}
	keys := []modelkey.Key{generalIn, reproductive}

	type outputs struct {
		POD     uncertainty.CDFTable
		MOE     []PercentileCDF
		Summary PerformanceSummary
		Batch   []PODResult
	}
	runAll := func() outputs {
		var (
			out outputs
			err error
		)
		out.POD, err = a.PODAndPredictionInterval(ctx, generalIn, natural)
		require.NoError(t, err)
		out.MOE, err = a.MOEAndPredictionIntervals(ctx, generalIn, DefaultIntervalOptions())
		require.NoError(t, err)
		out.Summary, err = a.SummarizeModelPerformances(ctx, nil, nil)
		require.NoError(t, err)
		out.Batch = a.BatchPOD(ctx, keys, 2, natural)
		for _, r := range out.Batch {
			require.NoError(t, r.Err)
		}
		return out
	}

	first, second := runAll(), runAll()
	if diff := cmp.Diff(first, second, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
	assert.True(t, first.POD.NaturalUnits)
}
