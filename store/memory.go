package store

import (
	"context"
	"sync"

	"github.com/lciaqsar/qsarstats/core/model"
	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

type memoryModel struct {
	key       modelkey.Key
	estimator model.Predictor
	results   map[ResultType]*series.Frame
}

// Memory keeps every table in memory. It is safe for concurrent use.
type Memory struct {
	mu sync.RWMutex

	names         modelkey.Names
	effectKeyName string
	models        map[string]*memoryModel
	order         []string

	features  *series.Frame
	targets   map[string]*series.Series
	training  map[string][]string
	exposure  *series.Frame
	authority *series.Frame
}

// NewMemory returns an empty store for keys with the given dimension names.
func NewMemory(names modelkey.Names) *Memory {
	return &Memory{
		names:         append(modelkey.Names(nil), names...),
		effectKeyName: DefaultEffectKeyName,
		models:        make(map[string]*memoryModel),
		targets:       make(map[string]*series.Series),
		training:      make(map[string][]string),
	}
}

// SetEffectKeyName changes the key dimension used to look up targets.
func (m *Memory) SetEffectKeyName(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.effectKeyName = name
}

func (m *Memory) model(key modelkey.Key) *memoryModel {
	id := key.String()
	mm, ok := m.models[id]
	if !ok {
		mm = &memoryModel{key: key.Clone(), results: make(map[ResultType]*series.Frame)}
		m.models[id] = mm
		m.order = append(m.order, id)
	}
	return mm
}

// AddModel registers key with its estimator. A nil estimator registers the
// key alone.
func (m *Memory) AddModel(key modelkey.Key, estimator model.Predictor) error {
	if err := m.names.Validate(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model(key).estimator = estimator
	return nil
}

// SetResult stores a result table for key, registering the key if needed.
func (m *Memory) SetResult(key modelkey.Key, rt ResultType, frame *series.Frame) error {
	if err := m.names.Validate(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model(key).results[rt] = frame
	return nil
}

// SetFeatures stores the feature table, one row per chemical.
func (m *Memory) SetFeatures(f *series.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.features = f
}

// SetTarget stores the observed target for an effect.
func (m *Memory) SetTarget(effect string, y *series.Series) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[effect] = y
}

// SetTrainingChemicals records the chemicals used to train models of an
// effect. Without it the target's chemicals are treated as the training set.
func (m *Memory) SetTrainingChemicals(effect string, ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.training[effect] = append([]string(nil), ids...)
}

// SetExposure stores the exposure table, one column per percentile.
func (m *Memory) SetExposure(f *series.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exposure = f
}

// SetAuthoritativePODs stores the authoritative PODs, one column per effect.
func (m *Memory) SetAuthoritativePODs(f *series.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authority = f
}

// ReadModelKeyNames returns the key dimension names.
func (m *Memory) ReadModelKeyNames(ctx context.Context) (modelkey.Names, error) {
	return append(modelkey.Names(nil), m.names...), nil
}

// ReadModelKeys returns the registered keys in insertion order.
func (m *Memory) ReadModelKeys(ctx context.Context) ([]modelkey.Key, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]modelkey.Key, len(m.order))
	for i, id := range m.order {
		keys[i] = m.models[id].key.Clone()
	}
	return keys, nil
}

// ReadEstimator returns the estimator stored for key.
func (m *Memory) ReadEstimator(ctx context.Context, key modelkey.Key) (model.Predictor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mm, ok := m.models[key.String()]
	if !ok || mm.estimator == nil {
		return nil, notFound("estimator", key)
	}
	return mm.estimator, nil
}

// ReadResult returns the result table of type rt for key.
func (m *Memory) ReadResult(ctx context.Context, key modelkey.Key, rt ResultType) (*series.Frame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mm, ok := m.models[key.String()]
	if !ok {
		return nil, notFound(rt.String(), key)
	}
	f, ok := mm.results[rt]
	if !ok {
		return nil, notFound(rt.String(), key)
	}
	return f, nil
}

// CombineResults collects the rt tables of keys, or of every key when keys
// is nil. A missing table fails the whole call.
func (m *Memory) CombineResults(ctx context.Context, rt ResultType, keys []modelkey.Key) ([]KeyedFrame, error) {
	return combine(ctx, m, m.ReadResult, rt, keys)
}

type resultReader func(ctx context.Context, key modelkey.Key, rt ResultType) (*series.Frame, error)

func combine(ctx context.Context, m *Memory, read resultReader, rt ResultType, keys []modelkey.Key) ([]KeyedFrame, error) {
	if keys == nil {
		var err error
		if keys, err = m.ReadModelKeys(ctx); err != nil {
			return nil, err
		}
	}
	out := make([]KeyedFrame, 0, len(keys))
	for _, k := range keys {
		f, err := read(ctx, k, rt)
		if err != nil {
			return nil, err
		}
		out = append(out, KeyedFrame{Key: k.Clone(), Frame: f})
	}
	return out, nil
}

func (m *Memory) effect(q FeatureQuery) (string, error) {
	effect, ok := q.Key[m.effectKeyName]
	if !ok {
		return "", errors.NewInvalidDimensionError("store.FeatureQuery", m.effectKeyName, m.names)
	}
	return effect, nil
}

// LoadTarget returns the observed target for the query's effect.
func (m *Memory) LoadTarget(ctx context.Context, q FeatureQuery) (*series.Series, error) {
	effect, err := m.effect(q)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	y, ok := m.targets[effect]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "target for effect %s", effect)
	}
	return y.Copy(), nil
}

// LoadFeatures returns the feature table, without the training chemicals
// when q.ExcludeTraining is set.
func (m *Memory) LoadFeatures(ctx context.Context, q FeatureQuery) (*series.Frame, error) {
	m.mu.RLock()
	features := m.features
	m.mu.RUnlock()
	if features == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "features")
	}
	if !q.ExcludeTraining {
		return features.SelectRows(features.Index), nil
	}

	training, err := m.trainingChemicals(q)
	if err != nil {
		return nil, err
	}
	exclude := make(map[string]struct{}, len(training))
	for _, id := range training {
		exclude[id] = struct{}{}
	}
	keep := make([]string, 0, features.Rows())
	for _, id := range features.Index {
		if _, ok := exclude[id]; !ok {
			keep = append(keep, id)
		}
	}
	return features.SelectRows(keep), nil
}

// LoadFeaturesAndTarget returns the features and target restricted to the
// chemicals present in both, in target order.
func (m *Memory) LoadFeaturesAndTarget(ctx context.Context, q FeatureQuery) (*series.Frame, *series.Series, error) {
	y, err := m.LoadTarget(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	X, err := m.LoadFeatures(ctx, FeatureQuery{Key: q.Key})
	if err != nil {
		return nil, nil, err
	}
	y, X, err = series.AlignFrame(y, X)
	if err != nil {
		return nil, nil, err
	}
	return X, y, nil
}

// LoadExposureData returns the exposure table.
func (m *Memory) LoadExposureData(ctx context.Context) (*series.Frame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.exposure == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "exposure data")
	}
	return m.exposure, nil
}

// LoadAuthoritativePODs returns the authoritative POD table.
func (m *Memory) LoadAuthoritativePODs(ctx context.Context) (*series.Frame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.authority == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "authoritative PODs")
	}
	return m.authority, nil
}

func (m *Memory) trainingChemicals(q FeatureQuery) ([]string, error) {
	effect, err := m.effect(q)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ids, ok := m.training[effect]; ok {
		return ids, nil
	}
	if y, ok := m.targets[effect]; ok {
		return y.Index, nil
	}
	return nil, nil
}
