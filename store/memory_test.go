package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lciaqsar/qsarstats/core/model"
	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

var names = modelkey.Names{"target_effect", "model_build", "estimator"}

func newTestMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory(names)

	features, err := series.NewFrame(
		[]string{"c1", "c2", "c3", "c4"},
		[]string{"logp", "mw"},
		[]float64{1, 10, 2, 20, 3, 30, 4, 40})
	require.NoError(t, err)
	m.SetFeatures(features)

	y, err := series.New("general", []string{"c3", "c1", "c9"}, []float64{0.3, 0.1, 0.9})
	require.NoError(t, err)
	m.SetTarget("general", y)
	return m
}

func TestParseResultType(t *testing.T) {
	for _, rt := range []ResultType{Performances, Importances, ImportancesReplicates, Predictions} {
		got, err := ParseResultType(rt.String())
		require.NoError(t, err)
		assert.Equal(t, rt, got)
	}
	assert.True(t, ImportancesReplicates.IsImportance())
	assert.False(t, Predictions.IsImportance())

	_, err := ParseResultType("residuals")
	var paramErr *errors.InvalidParameterError
	assert.True(t, errors.As(err, &paramErr))

	var rt ResultType
	require.NoError(t, rt.UnmarshalText([]byte("predictions")))
	assert.Equal(t, Predictions, rt)
}

func TestMemoryModels(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)

	k1 := modelkey.Key{"general", "in", "rf"}
	k2 := modelkey.Key{"general", "out", "rf"}
	est, err := model.NewFittedLinearEstimator([]string{"logp"}, []float64{1}, 0)
	require.NoError(t, err)

	require.NoError(t, m.AddModel(k1, est))
	perf, _ := series.NewFrame([]string{"0"}, []string{"r2"}, []float64{0.5})
	require.NoError(t, m.SetResult(k2, Performances, perf))
	assert.Error(t, m.AddModel(modelkey.Key{"general"}, est))

	keys, err := m.ReadModelKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []modelkey.Key{k1, k2}, keys)

	got, err := m.ReadEstimator(ctx, k1)
	require.NoError(t, err)
	assert.Equal(t, []string{"logp"}, got.FeatureNames())

	_, err = m.ReadEstimator(ctx, k2)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = m.ReadResult(ctx, k1, Performances)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	combined, err := m.CombineResults(ctx, Performances, []modelkey.Key{k2})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, k2, combined[0].Key)

	_, err = m.CombineResults(ctx, Performances, nil)
	assert.Error(t, err, "k1 has no performances")
}

func TestMemoryFeatures(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory(t)
	q := FeatureQuery{Key: map[string]string{"target_effect": "general", "model_build": "in", "estimator": "rf"}}

	X, err := m.LoadFeatures(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, X.Index)

	q.ExcludeTraining = true
	X, err = m.LoadFeatures(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c4"}, X.Index)

	m.SetTrainingChemicals("general", []string{"c4"})
	X, err = m.LoadFeatures(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, X.Index)

	X, y, err := m.LoadFeaturesAndTarget(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"c3", "c1"}, y.Index)
	assert.Equal(t, y.Index, X.Index)
	assert.Equal(t, 30.0, X.At(0, 1))
}

func TestMemoryMissingData(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(names)

	_, err := m.LoadExposureData(ctx)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	_, err = m.LoadAuthoritativePODs(ctx)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	_, err = m.LoadFeatures(ctx, FeatureQuery{})
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = m.LoadTarget(ctx, FeatureQuery{Key: map[string]string{"estimator": "rf"}})
	var dimErr *errors.InvalidDimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = m.LoadTarget(ctx, FeatureQuery{Key: map[string]string{"target_effect": "repro"}})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
