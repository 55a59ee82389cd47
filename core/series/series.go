// Package series provides the two tabular shapes the analysis engine works on:
// Series, a mapping from chemical identifier to value, and Frame, a labelled
// table backed by gonum's mat.Dense.
//
// Values are never imputed. NaN marks a missing entry and is removed with
// DropNaN before any ranking or statistic.
package series

import (
	"math"
	"sort"

	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Series is an indexed one-dimensional sequence of float64 values.
// Operations return new Series and leave their receiver untouched.
type Series struct {
	Name   string
	Index  []string
	Values []float64
}

// New creates a Series. index and values must have the same length.
func New(name string, index []string, values []float64) (*Series, error) {
	if len(index) != len(values) {
		return nil, errors.NewDimensionError("series.New", len(index), len(values), 0)
	}
	return &Series{
		Name:   name,
		Index:  append([]string(nil), index...),
		Values: append([]float64(nil), values...),
	}, nil
}

// FromMap builds a Series ordered by identifier.
func FromMap(name string, m map[string]float64) *Series {
	index := make([]string, 0, len(m))
	for id := range m {
		index = append(index, id)
	}
	sort.Strings(index)

	values := make([]float64, len(index))
	for i, id := range index {
		values[i] = m[id]
	}
	return &Series{Name: name, Index: index, Values: values}
}

// Empty returns a Series with no entries.
func Empty(name string) *Series {
	return &Series{Name: name, Index: []string{}, Values: []float64{}}
}

// Len returns the number of entries, NaN included.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// Copy returns a deep copy.
func (s *Series) Copy() *Series {
	return &Series{
		Name:   s.Name,
		Index:  append([]string(nil), s.Index...),
		Values: append([]float64(nil), s.Values...),
	}
}

// Rename returns a copy named name.
func (s *Series) Rename(name string) *Series {
	c := s.Copy()
	c.Name = name
	return c
}

// WithValues returns a Series sharing s's index and name but holding values.
func (s *Series) WithValues(values []float64) (*Series, error) {
	return New(s.Name, s.Index, values)
}

// DropNaN returns the entries whose value is not NaN, in their original order.
func (s *Series) DropNaN() *Series {
	out := &Series{Name: s.Name, Index: make([]string, 0, s.Len()), Values: make([]float64, 0, s.Len())}
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		out.Index = append(out.Index, s.Index[i])
		out.Values = append(out.Values, v)
	}
	return out
}

// SortValues returns the Series sorted ascending by value. The sort is stable,
// so equal values keep their original relative order. NaN sorts last.
func (s *Series) SortValues() *Series {
	order := make([]int, s.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := s.Values[order[a]], s.Values[order[b]]
		if math.IsNaN(vb) {
			return !math.IsNaN(va)
		}
		return va < vb
	})

	out := &Series{Name: s.Name, Index: make([]string, len(order)), Values: make([]float64, len(order))}
	for i, j := range order {
		out.Index[i] = s.Index[j]
		out.Values[i] = s.Values[j]
	}
	return out
}

// Map applies fn to every value.
func (s *Series) Map(fn func(float64) float64) *Series {
	out := s.Copy()
	for i, v := range out.Values {
		out.Values[i] = fn(v)
	}
	return out
}

// Lookup returns the first value stored under id.
func (s *Series) Lookup(id string) (float64, bool) {
	for i, k := range s.Index {
		if k == id {
			return s.Values[i], true
		}
	}
	return 0, false
}

// Select returns the entries for ids, in the order of ids. Identifiers absent
// from s are skipped.
func (s *Series) Select(ids []string) *Series {
	pos := s.positions()
	out := &Series{Name: s.Name, Index: make([]string, 0, len(ids)), Values: make([]float64, 0, len(ids))}
	for _, id := range ids {
		i, ok := pos[id]
		if !ok {
			continue
		}
		out.Index = append(out.Index, id)
		out.Values = append(out.Values, s.Values[i])
	}
	return out
}

// Unique returns the distinct identifiers in order of first appearance.
func (s *Series) Unique() []string {
	seen := make(map[string]struct{}, s.Len())
	ids := make([]string, 0, s.Len())
	for _, id := range s.Index {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// positions maps each identifier to its first position.
func (s *Series) positions() map[string]int {
	pos := make(map[string]int, s.Len())
	for i, id := range s.Index {
		if _, ok := pos[id]; !ok {
			pos[id] = i
		}
	}
	return pos
}
