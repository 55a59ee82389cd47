// Package selection reproduces the feature selection done at training time
// from stored permutation importances.
package selection

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// MedianImportance ranks features by the median of their importance scores.
//
// The importance table has one row per permutation repeat, labelled by the
// scoring metric it was measured with, and one column per feature.
type MedianImportance struct{}

// SelectFeatures returns the nFeatures columns with the highest median
// importance over the rows labelled criterionMetric. Ties keep column order.
func (MedianImportance) SelectFeatures(importances *series.Frame, criterionMetric string, nFeatures int) ([]string, error) {
	if nFeatures <= 0 {
		return nil, errors.NewInvalidParameterError("selection.SelectFeatures", "n_features", nFeatures, "must be positive")
	}

	var rows []int
	for i, label := range importances.Index {
		if label == criterionMetric {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return nil, errors.NewValueError("selection.SelectFeatures", "no importance rows for metric "+criterionMetric)
	}

	type ranked struct {
		name   string
		median float64
	}
	scores := make([]ranked, 0, importances.Cols())
	values := make([]float64, len(rows))
	for j, name := range importances.Columns {
		for k, i := range rows {
			values[k] = importances.At(i, j)
		}
		med, err := stats.Median(values)
		if err != nil {
			return nil, errors.Wrapf(err, "median importance of %s", name)
		}
		scores = append(scores, ranked{name: name, median: med})
	}

	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].median > scores[b].median
	})

	if nFeatures > len(scores) {
		nFeatures = len(scores)
	}
	out := make([]string, nFeatures)
	for i := range out {
		out[i] = scores[i].name
	}
	return out, nil
}
