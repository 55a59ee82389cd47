package store

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lciaqsar/qsarstats/core/model"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

const manifestYAML = `model_key_names: [target_effect, model_build, estimator]
models:
  - key: [general, in, rf]
    estimator: models/general-in-rf.gob
    results:
      performances: results/general-in-rf/performances.csv
  - key: [general, out, lr]
    estimator: models/general-out-lr.json
features: data/features.csv
targets:
  general: data/target-general.csv
exposure: data/exposure.xlsx
authoritative_pods: data/pods.csv
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "manifest.yaml", manifestYAML)
	writeFile(t, dir, "data/features.csv", "DTXSID,logp,mw\nc1,1.5,100\nc2,,200\nc3,NaN,300\n")
	writeFile(t, dir, "data/target-general.csv", "DTXSID,general\nc1,0.5\nc3,1.5\n")
	writeFile(t, dir, "data/pods.csv", "DTXSID,general,repro\nc1,0.2,\nc4,0.4,1.1\n")
	writeFile(t, dir, "results/general-in-rf/performances.csv",
		"fold,r2,root_mean_squared_error\n0,0.61,0.80\n1,0.58,0.84\n")

	est, err := model.NewFittedLinearEstimator([]string{"logp"}, []float64{0.5}, 1)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0o755))
	require.NoError(t, model.SavePredictor(est, filepath.Join(dir, "models/general-in-rf.gob")))
	var weights bytes.Buffer
	require.NoError(t, model.WriteWeights(est, &weights))
	writeFile(t, dir, "models/general-out-lr.json", weights.String())

	x := excelize.NewFile()
	require.NoError(t, x.SetSheetRow("Sheet1", "A1", &[]interface{}{"DTXSID", "p50", "p95"}))
	require.NoError(t, x.SetSheetRow("Sheet1", "A2", &[]interface{}{"c1", -3.0, -2.5}))
	require.NoError(t, x.SetSheetRow("Sheet1", "A3", &[]interface{}{"c2", -4.0, -3.5}))
	require.NoError(t, x.SaveAs(filepath.Join(dir, "data/exposure.xlsx")))
	require.NoError(t, x.Close())

	return filepath.Join(dir, "manifest.yaml")
}

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	fs, err := OpenFile(writeFixture(t))
	require.NoError(t, err)

	keys, err := fs.ReadModelKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []modelkey.Key{{"general", "in", "rf"}, {"general", "out", "lr"}}, keys)

	X, err := fs.LoadFeatures(ctx, FeatureQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"logp", "mw"}, X.Columns)
	assert.True(t, math.IsNaN(X.At(1, 0)))
	assert.True(t, math.IsNaN(X.At(2, 0)))

	exposure, err := fs.LoadExposureData(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p50", "p95"}, exposure.Columns)
	assert.Equal(t, []string{"c1", "c2"}, exposure.Index)
	assert.Equal(t, -3.5, exposure.At(1, 1))

	pods, err := fs.LoadAuthoritativePODs(ctx)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(pods.At(0, 1)))

	y, err := fs.LoadTarget(ctx, FeatureQuery{Key: map[string]string{"target_effect": "general"}})
	require.NoError(t, err)
	assert.Equal(t, "general", y.Name)
	assert.Equal(t, []float64{0.5, 1.5}, y.Values)
}

func TestFileEstimatorsAndResults(t *testing.T) {
	ctx := context.Background()
	fs, err := OpenFile(writeFixture(t))
	require.NoError(t, err)

	for _, key := range []modelkey.Key{{"general", "in", "rf"}, {"general", "out", "lr"}} {
		est, err := fs.ReadEstimator(ctx, key)
		require.NoError(t, err, key.String())
		assert.Equal(t, []string{"logp"}, est.FeatureNames())
	}

	perf, err := fs.ReadResult(ctx, modelkey.Key{"general", "in", "rf"}, Performances)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, perf.Index)
	assert.Equal(t, 0.84, perf.At(1, 1))

	_, err = fs.ReadResult(ctx, modelkey.Key{"general", "out", "lr"}, Performances)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	combined, err := fs.CombineResults(ctx, Performances, []modelkey.Key{{"general", "in", "rf"}})
	require.NoError(t, err)
	assert.Len(t, combined, 1)
}

func TestOpenFileErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.yaml", "models: []\n")
	_, err := OpenFile(filepath.Join(dir, "empty.yaml"))
	assert.Error(t, err)

	writeFile(t, dir, "bad-result.yaml", "model_key_names: [a]\nmodels:\n  - key: [x]\n    results: {residuals: r.csv}\n")
	_, err = OpenFile(filepath.Join(dir, "bad-result.yaml"))
	var paramErr *errors.InvalidParameterError
	assert.True(t, errors.As(err, &paramErr))

	_, err = OpenFile(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}

func TestReadTableErrors(t *testing.T) {
	_, err := ReadTable("table.parquet")
	var paramErr *errors.InvalidParameterError
	assert.True(t, errors.As(err, &paramErr))

	_, err = ReadCSV(strings.NewReader("id,a\nc1,abc\n"))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	f, err := ReadCSV(strings.NewReader("id,a,b\nc1,1,2.5\nc2,NaN,-1\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, f, "id"))
	assert.Equal(t, "id,a,b\nc1,1,2.5\nc2,NaN,-1\n", buf.String())
}
