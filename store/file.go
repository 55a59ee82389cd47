package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lciaqsar/qsarstats/core/model"
	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Manifest describes where a results collection lives on disk. Relative
// paths are resolved against the manifest's directory.
type Manifest struct {
	ModelKeyNames     []string          `yaml:"model_key_names"`
	EffectKeyName     string            `yaml:"effect_key_name,omitempty"`
	Models            []ModelEntry      `yaml:"models"`
	Features          string            `yaml:"features"`
	Targets           map[string]string `yaml:"targets"`
	TrainingChemicals map[string]string `yaml:"training_chemicals,omitempty"`
	Exposure          string            `yaml:"exposure,omitempty"`
	AuthoritativePODs string            `yaml:"authoritative_pods,omitempty"`
}

// ModelEntry locates the estimator and result tables of one model.
type ModelEntry struct {
	Key       []string          `yaml:"key"`
	Estimator string            `yaml:"estimator,omitempty"`
	Results   map[string]string `yaml:"results,omitempty"`
}

// File serves a manifest. Data tables are read when the store is opened;
// estimators and result tables are read from disk on every request.
type File struct {
	*Memory
	dir     string
	entries map[string]ModelEntry
}

// ReadManifest decodes a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest %s", path)
	}
	if len(m.ModelKeyNames) == 0 {
		return nil, errors.NewValueError("store.ReadManifest", "model_key_names is empty")
	}
	return &m, nil
}

// OpenFile reads the manifest at path and the data tables it names.
func OpenFile(path string) (*File, error) {
	m, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	fs := &File{
		Memory:  NewMemory(m.ModelKeyNames),
		dir:     filepath.Dir(path),
		entries: make(map[string]ModelEntry, len(m.Models)),
	}
	if m.EffectKeyName != "" {
		fs.SetEffectKeyName(m.EffectKeyName)
	}

	for _, entry := range m.Models {
		key := modelkey.Key(entry.Key)
		if err := fs.AddModel(key, nil); err != nil {
			return nil, errors.Wrapf(err, "manifest model %s", key)
		}
		for name := range entry.Results {
			if _, err := ParseResultType(name); err != nil {
				return nil, errors.Wrapf(err, "manifest model %s", key)
			}
		}
		fs.entries[key.String()] = entry
	}

	if m.Features != "" {
		f, err := ReadTable(fs.resolve(m.Features))
		if err != nil {
			return nil, errors.Wrap(err, "features")
		}
		fs.SetFeatures(f)
	}
	for effect, p := range m.Targets {
		y, err := readFirstColumn(fs.resolve(p))
		if err != nil {
			return nil, errors.Wrapf(err, "target %s", effect)
		}
		fs.SetTarget(effect, y)
	}
	for effect, p := range m.TrainingChemicals {
		f, err := ReadTable(fs.resolve(p))
		if err != nil {
			return nil, errors.Wrapf(err, "training chemicals %s", effect)
		}
		fs.SetTrainingChemicals(effect, f.Index)
	}
	if m.Exposure != "" {
		f, err := ReadTable(fs.resolve(m.Exposure))
		if err != nil {
			return nil, errors.Wrap(err, "exposure")
		}
		fs.SetExposure(f)
	}
	if m.AuthoritativePODs != "" {
		f, err := ReadTable(fs.resolve(m.AuthoritativePODs))
		if err != nil {
			return nil, errors.Wrap(err, "authoritative PODs")
		}
		fs.SetAuthoritativePODs(f)
	}
	return fs, nil
}

// ReadEstimator loads the estimator file of key. ".json" files hold
// ModelWeights; anything else is read as gob.
func (fs *File) ReadEstimator(ctx context.Context, key modelkey.Key) (model.Predictor, error) {
	entry, ok := fs.entries[key.String()]
	if !ok || entry.Estimator == "" {
		return nil, notFound("estimator", key)
	}
	path := fs.resolve(entry.Estimator)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open weights")
		}
		defer file.Close()
		return model.ReadWeights(file)
	}
	return model.LoadPredictor(path)
}

// ReadResult loads the rt table of key.
func (fs *File) ReadResult(ctx context.Context, key modelkey.Key, rt ResultType) (*series.Frame, error) {
	entry, ok := fs.entries[key.String()]
	if !ok {
		return nil, notFound(rt.String(), key)
	}
	p, ok := entry.Results[rt.String()]
	if !ok {
		return nil, notFound(rt.String(), key)
	}
	return ReadTable(fs.resolve(p))
}

// CombineResults collects the rt tables of keys, or of every key.
func (fs *File) CombineResults(ctx context.Context, rt ResultType, keys []modelkey.Key) ([]KeyedFrame, error) {
	return combine(ctx, fs.Memory, fs.ReadResult, rt, keys)
}

func (fs *File) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(fs.dir, p)
}

func readFirstColumn(path string) (*series.Series, error) {
	f, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	if f.Cols() == 0 {
		return nil, errors.NewValueError("store.readFirstColumn", "table has no value column: "+path)
	}
	return f.ColumnAt(0), nil
}
