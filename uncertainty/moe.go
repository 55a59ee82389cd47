package uncertainty

import (
	"gonum.org/v1/gonum/floats"

	"github.com/lciaqsar/qsarstats/core/series"
)

// MarginsOfExposure aligns hazard and exposure on their shared identifiers and
// returns hazard - exposure when log10Units is set, hazard / exposure
// otherwise. Chemicals missing from either side are dropped, never filled.
func MarginsOfExposure(hazard, exposure *series.Series, log10Units bool) *series.Series {
	h, e := series.Align(hazard, exposure)

	moe := h.Rename("moe")
	if log10Units {
		floats.Sub(moe.Values, e.Values)
	} else {
		floats.Div(moe.Values, e.Values)
	}
	return moe
}

// MarginsOfExposureFrame applies MarginsOfExposure to every column of exposure
// (one column per exposure percentile) against the same aligned hazard. The
// result keeps the column order of exposure.
func MarginsOfExposureFrame(hazard *series.Series, exposure *series.Frame, log10Units bool) (*series.Frame, error) {
	h, aligned, err := series.AlignFrame(hazard, exposure)
	if err != nil {
		return nil, err
	}

	cols := make([]*series.Series, aligned.Cols())
	for j := range cols {
		col := aligned.ColumnAt(j)
		moe := h.Rename(col.Name)
		if log10Units {
			floats.Sub(moe.Values, col.Values)
		} else {
			floats.Div(moe.Values, col.Values)
		}
		cols[j] = moe
	}
	if len(cols) == 0 {
		return &series.Frame{Index: h.Index, Columns: []string{}}, nil
	}
	return series.FrameFromColumns(cols...)
}
