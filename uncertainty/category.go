package uncertainty

import "math"

// Category is a level of concern for a log10 margin of exposure.
type Category int

const (
	NoConcern Category = iota
	PotentialConcern
	DefiniteConcern
)

func (c Category) String() string {
	switch c {
	case PotentialConcern:
		return "Potential Concern"
	case DefiniteConcern:
		return "Definite Concern"
	default:
		return "No Concern"
	}
}

// Bounds returns the half-open log10 MOE range [lower, upper) of c.
func (c Category) Bounds() (lower, upper float64) {
	switch c {
	case DefiniteConcern:
		return math.Inf(-1), 0
	case PotentialConcern:
		return 0, 2
	default:
		return 2, math.Inf(1)
	}
}

// ClassifyMOE places a log10 MOE in its category: below 1 (log10 < 0) is a
// definite concern, between 1 and 100 a potential concern.
func ClassifyMOE(log10MOE float64) Category {
	switch {
	case log10MOE < 0:
		return DefiniteConcern
	case log10MOE < 2:
		return PotentialConcern
	default:
		return NoConcern
	}
}

// CountByCategory tallies the values of a log10 MOE table per category.
// Tables already in natural units are classified on log10 of their values.
func CountByCategory(t CDFTable) map[Category]int {
	counts := map[Category]int{NoConcern: 0, PotentialConcern: 0, DefiniteConcern: 0}
	for _, v := range t.Values {
		if t.NaturalUnits {
			v = math.Log10(v)
		}
		if math.IsNaN(v) {
			continue
		}
		counts[ClassifyMOE(v)]++
	}
	return counts
}
