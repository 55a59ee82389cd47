package uncertainty

import (
	"gonum.org/v1/plot/plotter"

	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Value column names.
const (
	ValuePOD = "pod"
	ValueMOE = "moe"
)

// Cumulative column names.
const (
	CumulativeCount     = "cum_count"
	CumulativeFrequency = "cum_freq"
)

// CDFTable is a sorted value column with its cumulative position and the
// pointwise prediction interval around each value. Lower and Upper follow
// the order of Values; they are not sorted on their own.
type CDFTable struct {
	ValueName  string
	Index      []string
	Values     []float64
	Lower      []float64
	Upper      []float64
	Cumulative []float64
	Normalized bool
	// NaturalUnits is set once InverseLog10 has been applied.
	NaturalUnits bool
}

// NewCDFTable assembles a table from a CDF and the interval computed on its
// sorted values.
func NewCDFTable(valueName string, cdf CDF, lower, upper *series.Series) CDFTable {
	return CDFTable{
		ValueName:  valueName,
		Index:      append([]string(nil), cdf.Sorted.Index...),
		Values:     append([]float64(nil), cdf.Sorted.Values...),
		Lower:      append([]float64(nil), lower.Values...),
		Upper:      append([]float64(nil), upper.Values...),
		Cumulative: append([]float64(nil), cdf.Cumulative...),
		Normalized: cdf.Normalized,
	}
}

// BuildCDFTable runs the full pipeline on log10 estimates: CDF generation,
// interval around the sorted values, and, when inverse is set, a single
// inverse log10 step applied to value, lower and upper independently.
func BuildCDFTable(valueName string, estimates *series.Series, err, z float64, normalize, inverse bool) (CDFTable, error) {
	cdf := GenerateCDF(estimates, normalize)
	lower, upper := PredictionInterval(cdf.Sorted, err, z)
	table := NewCDFTable(valueName, cdf, lower, upper)
	if !inverse {
		return table, nil
	}
	return table.InverseLog10()
}

// Len returns the number of rows.
func (t CDFTable) Len() int {
	return len(t.Values)
}

// CumulativeName returns "cum_freq" for normalized tables, "cum_count" otherwise.
func (t CDFTable) CumulativeName() string {
	if t.Normalized {
		return CumulativeFrequency
	}
	return CumulativeCount
}

// InverseLog10 converts value, lower and upper bounds from log10 to natural
// units by exponentiating each independently. The interval becomes
// asymmetric around the value, which is expected. A table can be converted
// only once.
func (t CDFTable) InverseLog10() (CDFTable, error) {
	if t.NaturalUnits {
		return CDFTable{}, errors.NewInvalidParameterError("uncertainty.CDFTable.InverseLog10", "table", t.ValueName, "already in natural units")
	}
	out := t
	out.Values = mapFloats(t.Values, pow10)
	out.Lower = mapFloats(t.Lower, pow10)
	out.Upper = mapFloats(t.Upper, pow10)
	out.Index = append([]string(nil), t.Index...)
	out.Cumulative = append([]float64(nil), t.Cumulative...)
	out.NaturalUnits = true
	return out, nil
}

// Frame returns the table with columns value, "lb", "ub" and the cumulative
// column, indexed by chemical.
func (t CDFTable) Frame() (*series.Frame, error) {
	columns := []string{t.ValueName, "lb", "ub", t.CumulativeName()}
	data := make([]float64, 0, t.Len()*len(columns))
	for i := range t.Values {
		data = append(data, t.Values[i], t.Lower[i], t.Upper[i], t.Cumulative[i])
	}
	return series.NewFrame(t.Index, columns, data)
}

// Line returns the (value, cumulative) points for a plotting collaborator.
func (t CDFTable) Line() plotter.XYs {
	return xys(t.Values, t.Cumulative)
}

// Band returns the lower and upper interval edges against the cumulative
// column, suitable for a filled band.
func (t CDFTable) Band() (lower, upper plotter.XYs) {
	return xys(t.Lower, t.Cumulative), xys(t.Upper, t.Cumulative)
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

func mapFloats(in []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
