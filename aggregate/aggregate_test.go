package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMethod(" Median ")
	require.NoError(t, err)
	assert.Equal(t, Median, got)

	_, err = ParseMethod("mode")
	var paramErr *errors.InvalidParameterError
	require.True(t, errors.As(err, &paramErr))
	assert.Equal(t, "mode", paramErr.Value)
}

func TestMethodText(t *testing.T) {
	var m Method
	require.NoError(t, m.UnmarshalText([]byte("std")))
	assert.Equal(t, Std, m)

	b, err := Var.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "var", string(b))

	assert.Error(t, m.UnmarshalText([]byte("nope")))
	assert.Equal(t, "unknown", Method(42).String())
}

func TestApply(t *testing.T) {
	values := []float64{4, 1, math.NaN(), 3, 2}

	tests := []struct {
		method Method
		want   float64
	}{
		{Mean, 2.5},
		{Median, 2.5},
		{Sum, 10},
		{Min, 1},
		{Max, 4},
		{Std, math.Sqrt(5.0 / 3.0)},
		{Var, 5.0 / 3.0},
		{Count, 4},
		{First, 4},
		{Last, 2},
	}
	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, Apply(tt.method, values), 1e-12)
		})
	}
}

func TestApplyEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Apply(Count, nil))
	assert.Equal(t, 0.0, Apply(Sum, []float64{math.NaN()}))
	assert.True(t, math.IsNaN(Apply(Mean, nil)))
	assert.True(t, math.IsNaN(Apply(Std, []float64{1})))
}

func TestGroupByIndex(t *testing.T) {
	s, err := series.New("prediction",
		[]string{"c2", "c1", "c2", "c1", "c3"},
		[]float64{1.0, 2.0, 3.0, 4.0, 5.0})
	require.NoError(t, err)

	got := GroupByIndex(s, Mean)
	assert.Equal(t, "prediction", got.Name)
	assert.Equal(t, []string{"c1", "c2", "c3"}, got.Index)
	assert.Equal(t, []float64{3.0, 2.0, 5.0}, got.Values)

	got = GroupByIndex(s, Count)
	assert.Equal(t, []float64{2, 2, 1}, got.Values)
}

func TestQuantile(t *testing.T) {
	values := []float64{10, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{0.025, 1.225},
		{0.5, 5.5},
		{0.95, 9.55},
		{1, 10},
	}
	for _, tt := range tests {
		got, err := Quantile(values, tt.q)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "q=%v", tt.q)
	}

	_, err := Quantile(values, 1.5)
	assert.Error(t, err)

	got, err := Quantile([]float64{math.NaN()}, 0.5)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestQuantiles(t *testing.T) {
	got, err := Quantiles([]float64{3, 1, 2}, DefaultQuantiles)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.05, 1.1, 2, 2.9, 2.95}, got, 1e-12)

	_, err = Quantiles([]float64{1}, []float64{-0.1})
	assert.Error(t, err)
}
