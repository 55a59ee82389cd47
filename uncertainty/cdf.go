package uncertainty

import "github.com/lciaqsar/qsarstats/core/series"

// CDF is the x/y data of an empirical cumulative distribution.
type CDF struct {
	// Sorted holds the non-NaN input values in ascending order, ties in
	// their original order.
	Sorted *series.Series
	// Cumulative is 1..N, or 1/N..1 when Normalized.
	Cumulative []float64
	Normalized bool
}

// GenerateCDF drops NaN entries from s, sorts the rest ascending with a stable
// sort and pairs them with cumulative counts (or frequencies when normalize
// is set). An input with no finite entries gives an empty CDF.
func GenerateCDF(s *series.Series, normalize bool) CDF {
	sorted := s.DropNaN().SortValues()
	n := sorted.Len()

	cumulative := make([]float64, n)
	for i := range cumulative {
		cumulative[i] = float64(i + 1)
		if normalize {
			cumulative[i] /= float64(n)
		}
	}
	return CDF{Sorted: sorted, Cumulative: cumulative, Normalized: normalize}
}

// Len returns the number of points.
func (c CDF) Len() int {
	return len(c.Cumulative)
}
