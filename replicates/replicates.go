// Package replicates recovers the individual cross-validation replicates from
// a flat replicate table.
//
// Importance records of every replicate are stored one after another in a
// single table. The number of rows per replicate (the stride) is not stored
// with the data; it follows from the feature-selection parameters used at
// training time and must be derived with Stride.
package replicates

import (
	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Stride returns the number of rows one replicate occupies:
// nSplitsSelect * nRepeatsSelect * nRepeatsPerm. Every count must be positive.
func Stride(nSplitsSelect, nRepeatsSelect, nRepeatsPerm int) (int, error) {
	params := []struct {
		name  string
		value int
	}{
		{"n_splits_select", nSplitsSelect},
		{"n_repeats_select", nRepeatsSelect},
		{"n_repeats_perm", nRepeatsPerm},
	}
	for _, p := range params {
		if p.value <= 0 {
			return 0, errors.NewInvalidParameterError("replicates.Stride", p.name, p.value, "must be positive")
		}
	}
	return nSplitsSelect * nRepeatsSelect * nRepeatsPerm, nil
}

// Split cuts table into consecutive blocks of stride rows. The last block is
// shorter when the row count is not a multiple of stride; that case also
// emits a ReplicateMismatchWarning because it usually means the stride was
// derived from the wrong parameters. Blocks share storage with table.
func Split(table *series.Frame, stride int) ([]*series.Frame, error) {
	if stride <= 0 {
		return nil, errors.NewInvalidParameterError("replicates.Split", "stride", stride, "must be positive")
	}

	length := table.Rows()
	blocks := make([]*series.Frame, 0, (length+stride-1)/stride)
	for start := 0; start < length; start += stride {
		end := start + stride
		if end > length {
			end = length
		}
		blocks = append(blocks, table.SliceRows(start, end))
	}

	if length%stride != 0 {
		errors.Warn(errors.NewReplicateMismatchWarning(length, stride))
	}
	return blocks, nil
}
