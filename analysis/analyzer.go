// Package analysis composes the uncertainty engine into per-model results:
// predictions, POD and MOE distributions with prediction intervals,
// reproduced feature selections and performance summaries.
//
// An Analyzer holds no state besides its collaborators and settings. Every
// method reads what it needs from the stores, runs pure transforms and
// returns new values, so repeated calls over unchanged stores give identical
// results.
package analysis

import (
	"context"

	"github.com/lciaqsar/qsarstats/config"
	"github.com/lciaqsar/qsarstats/core/model"
	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
	"github.com/lciaqsar/qsarstats/pkg/log"
	"github.com/lciaqsar/qsarstats/selection"
	"github.com/lciaqsar/qsarstats/store"
)

// ResultsStore supplies trained estimators and their stored results.
type ResultsStore interface {
	ReadModelKeyNames(ctx context.Context) (modelkey.Names, error)
	ReadModelKeys(ctx context.Context) ([]modelkey.Key, error)
	ReadEstimator(ctx context.Context, key modelkey.Key) (model.Predictor, error)
	ReadResult(ctx context.Context, key modelkey.Key, rt store.ResultType) (*series.Frame, error)
	CombineResults(ctx context.Context, rt store.ResultType, keys []modelkey.Key) ([]store.KeyedFrame, error)
}

// DataStore supplies features, targets, exposure estimates and reference PODs.
type DataStore interface {
	LoadFeatures(ctx context.Context, q store.FeatureQuery) (*series.Frame, error)
	LoadFeaturesAndTarget(ctx context.Context, q store.FeatureQuery) (*series.Frame, *series.Series, error)
	LoadTarget(ctx context.Context, q store.FeatureQuery) (*series.Series, error)
	LoadExposureData(ctx context.Context) (*series.Frame, error)
	LoadAuthoritativePODs(ctx context.Context) (*series.Frame, error)
}

// FeatureSelector reproduces a training-time feature selection.
type FeatureSelector interface {
	SelectFeatures(importances *series.Frame, criterionMetric string, nFeatures int) ([]string, error)
}

// Analyzer runs analyses over one results collection.
type Analyzer struct {
	results  ResultsStore
	data     DataStore
	settings config.Settings
	selector FeatureSelector
	logger   log.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithSelector replaces the median-importance feature selector.
func WithSelector(s FeatureSelector) Option {
	return func(a *Analyzer) { a.selector = s }
}

// New returns an Analyzer. settings is copied and validated.
func New(results ResultsStore, data DataStore, settings *config.Settings, opts ...Option) (*Analyzer, error) {
	if results == nil || data == nil {
		return nil, errors.NewValueError("analysis.New", "results and data stores are required")
	}
	if settings == nil {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{
		results:  results,
		data:     data,
		settings: *settings,
		selector: selection.MedianImportance{},
		logger:   log.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(log.ComponentKey, "analysis")
	return a, nil
}

// Settings returns a copy of the settings the Analyzer runs with.
func (a *Analyzer) Settings() config.Settings {
	return a.settings
}

// query builds the data store query of key.
func (a *Analyzer) query(ctx context.Context, key modelkey.Key, excludeTraining bool) (store.FeatureQuery, error) {
	names, err := a.results.ReadModelKeyNames(ctx)
	if err != nil {
		return store.FeatureQuery{}, errors.Wrap(err, "read model key names")
	}
	keyFor, err := names.Map(key)
	if err != nil {
		return store.FeatureQuery{}, err
	}
	return store.FeatureQuery{Key: keyFor, ExcludeTraining: excludeTraining}, nil
}

func (a *Analyzer) keyLogger(key modelkey.Key, operation string) log.Logger {
	return a.logger.With(log.ModelKeyKey, key.String(), log.OperationKey, operation)
}
