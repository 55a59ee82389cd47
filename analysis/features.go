package analysis

import (
	"context"

	"github.com/lciaqsar/qsarstats/modelkey"
	"github.com/lciaqsar/qsarstats/pkg/errors"
	"github.com/lciaqsar/qsarstats/pkg/log"
	"github.com/lciaqsar/qsarstats/replicates"
	"github.com/lciaqsar/qsarstats/store"
)

// ImportantFeatures reproduces the feature selection of key from its stored
// permutation importances.
func (a *Analyzer) ImportantFeatures(ctx context.Context, key modelkey.Key) ([]string, error) {
	importances, err := a.results.ReadResult(ctx, key, store.Importances)
	if err != nil {
		return nil, errors.Wrapf(err, "read importances for %s", key)
	}
	fs := a.settings.FeatureSelection
	features, err := a.selector.SelectFeatures(importances, fs.CriterionMetric, fs.NFeatures)
	if err != nil {
		return nil, errors.Wrapf(err, "select features for %s", key)
	}
	return features, nil
}

// ImportantFeaturesReplicates reproduces the feature selection of every
// cross-validation replicate of key. The replicate table is cut into blocks
// whose size follows from the feature-selection settings.
func (a *Analyzer) ImportantFeaturesReplicates(ctx context.Context, key modelkey.Key) ([][]string, error) {
	table, err := a.results.ReadResult(ctx, key, store.ImportancesReplicates)
	if err != nil {
		return nil, errors.Wrapf(err, "read importance replicates for %s", key)
	}

	fs := a.settings.FeatureSelection
	stride, err := replicates.Stride(fs.NSplitsSelect, fs.NRepeatsSelect, fs.NRepeatsPerm)
	if err != nil {
		return nil, err
	}
	blocks, err := replicates.Split(table, stride)
	if err != nil {
		return nil, err
	}

	out := make([][]string, len(blocks))
	for i, block := range blocks {
		features, err := a.selector.SelectFeatures(block, fs.CriterionMetric, fs.NFeatures)
		if err != nil {
			return nil, errors.Wrapf(err, "select features for %s replicate %d", key, i)
		}
		out[i] = features
	}

	a.keyLogger(key, "features").Debug("reproduced replicate selections",
		log.StrideKey, stride,
		log.ReplicateCountKey, len(blocks),
	)
	return out, nil
}
