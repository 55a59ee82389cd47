// Package store provides the results and data collaborators the analysis
// engine reads from: an in-memory store for tests and embedding, and a
// file-backed store driven by a YAML manifest.
package store

import (
	"strings"

	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// ResultType names a stored result table.
type ResultType int

const (
	// Performances holds one row per cross-validation fold and one column
	// per scoring metric.
	Performances ResultType = iota
	// Importances holds permutation importances, rows labelled by metric.
	Importances
	// ImportancesReplicates holds Importances for every replicate, stacked
	// in blocks of a fixed stride.
	ImportancesReplicates
	// Predictions holds out-of-sample predictions, one row per chemical and
	// replicate.
	Predictions
)

var resultTypeNames = [...]string{
	Performances:          "performances",
	Importances:           "importances",
	ImportancesReplicates: "importances_replicates",
	Predictions:           "predictions",
}

func (rt ResultType) String() string {
	if rt < 0 || int(rt) >= len(resultTypeNames) {
		return "unknown"
	}
	return resultTypeNames[rt]
}

// IsImportance reports whether rt holds feature importances.
func (rt ResultType) IsImportance() bool {
	return rt == Importances || rt == ImportancesReplicates
}

// ParseResultType resolves a result type name.
func ParseResultType(name string) (ResultType, error) {
	for i, n := range resultTypeNames {
		if n == name {
			return ResultType(i), nil
		}
	}
	return 0, errors.NewInvalidParameterError("store.ParseResultType", "result_type", name,
		"expected one of "+strings.Join(resultTypeNames[:], ", "))
}

// UnmarshalText reads a ResultType from YAML keys and flags.
func (rt *ResultType) UnmarshalText(text []byte) error {
	parsed, err := ParseResultType(string(text))
	if err != nil {
		return err
	}
	*rt = parsed
	return nil
}

// FeatureQuery selects the rows a data store loads for one model.
type FeatureQuery struct {
	// Key maps each model key name to its value.
	Key map[string]string
	// ExcludeTraining drops chemicals used to train the model.
	ExcludeTraining bool
}

// KeyedFrame is a result table tagged with its model key.
type KeyedFrame struct {
	Key   modelkey.Key
	Frame *series.Frame
}

// DefaultEffectKeyName is the model key dimension holding the target effect.
const DefaultEffectKeyName = "target_effect"

func notFound(what string, key modelkey.Key) error {
	return errors.Wrapf(errors.ErrNotFound, "%s for model %s", what, key)
}
