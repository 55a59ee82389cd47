// Package aggregate reduces groups of replicate values to one number per
// chemical. The set of reductions is closed: callers pick a Method rather
// than naming an arbitrary function.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Method is an aggregation over the values of one group.
type Method int

const (
	Mean Method = iota
	Median
	Sum
	Min
	Max
	// Std and Var use the unbiased (n-1) estimator.
	Std
	Var
	Count
	First
	Last
)

var methodNames = [...]string{
	Mean:   "mean",
	Median: "median",
	Sum:    "sum",
	Min:    "min",
	Max:    "max",
	Std:    "std",
	Var:    "var",
	Count:  "count",
	First:  "first",
	Last:   "last",
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return "unknown"
	}
	return methodNames[m]
}

// Methods returns every supported method in declaration order.
func Methods() []Method {
	out := make([]Method, len(methodNames))
	for i := range out {
		out[i] = Method(i)
	}
	return out
}

// ParseMethod resolves a method name, case-insensitively. Unknown names are
// rejected with an InvalidParameterError.
func ParseMethod(name string) (Method, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, n := range methodNames {
		if n == lower {
			return Method(i), nil
		}
	}
	return 0, errors.NewInvalidParameterError("aggregate.ParseMethod", "method", name,
		"expected one of "+strings.Join(methodNames[:], ", "))
}

// UnmarshalText lets a Method be read from YAML or flags.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MarshalText writes the method name.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Apply reduces values with m. NaN entries are skipped. An empty input gives
// 0 for Sum and Count and NaN otherwise.
func Apply(m Method, values []float64) float64 {
	x := dropNaN(values)
	switch m {
	case Count:
		return float64(len(x))
	case Sum:
		return floats.Sum(x)
	}
	if len(x) == 0 {
		return math.NaN()
	}

	switch m {
	case Mean:
		return stat.Mean(x, nil)
	case Median:
		med, err := stats.Median(x)
		if err != nil {
			return math.NaN()
		}
		return med
	case Min:
		return floats.Min(x)
	case Max:
		return floats.Max(x)
	case Std:
		if len(x) < 2 {
			return math.NaN()
		}
		return stat.StdDev(x, nil)
	case Var:
		if len(x) < 2 {
			return math.NaN()
		}
		return stat.Variance(x, nil)
	case First:
		return x[0]
	case Last:
		return x[len(x)-1]
	}
	return math.NaN()
}

// GroupByIndex groups s by identifier and reduces each group with m. The
// result is ordered by identifier.
func GroupByIndex(s *series.Series, m Method) *series.Series {
	groups := make(map[string][]float64)
	for i, id := range s.Index {
		groups[id] = append(groups[id], s.Values[i])
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	values := make([]float64, len(ids))
	for i, id := range ids {
		values[i] = Apply(m, groups[id])
	}
	return &series.Series{Name: s.Name, Index: ids, Values: values}
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
