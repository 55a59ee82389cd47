package series

import "github.com/lciaqsar/qsarstats/pkg/errors"

// Align inner-joins two series on their identifiers. Only identifiers present
// in both survive, in the order they appear in a; a duplicated identifier is
// matched by its first occurrence. Unmatched identifiers are dropped, never
// filled.
func Align(a, b *Series) (*Series, *Series) {
	ai, bi := joinIndex(a.Index, b.positions())

	left := &Series{Name: a.Name, Index: make([]string, len(ai)), Values: make([]float64, len(ai))}
	right := &Series{Name: b.Name, Index: make([]string, len(bi)), Values: make([]float64, len(bi))}
	for k := range ai {
		left.Index[k] = a.Index[ai[k]]
		left.Values[k] = a.Values[ai[k]]
		right.Index[k] = b.Index[bi[k]]
		right.Values[k] = b.Values[bi[k]]
	}
	return left, right
}

// AlignFrame inner-joins a series with the rows of a frame, keeping every
// column of the frame.
func AlignFrame(s *Series, f *Frame) (*Series, *Frame, error) {
	pos := make(map[string]int, f.Rows())
	for i, id := range f.Index {
		if _, ok := pos[id]; !ok {
			pos[id] = i
		}
	}
	si, fi := joinIndex(s.Index, pos)

	left := &Series{Name: s.Name, Index: make([]string, len(si)), Values: make([]float64, len(si))}
	data := make([]float64, 0, len(fi)*f.Cols())
	for k := range si {
		left.Index[k] = s.Index[si[k]]
		left.Values[k] = s.Values[si[k]]
		data = append(data, f.row(fi[k])...)
	}
	right, err := NewFrame(left.Index, f.Columns, data)
	if err != nil {
		return nil, nil, errors.Wrap(err, "align frame")
	}
	return left, right, nil
}

// joinIndex returns matching positions for every first occurrence in left
// whose identifier has a position in right.
func joinIndex(left []string, right map[string]int) ([]int, []int) {
	var li, ri []int
	seen := make(map[string]struct{}, len(left))
	for i, id := range left {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if j, ok := right[id]; ok {
			li = append(li, i)
			ri = append(ri, j)
		}
	}
	return li, ri
}
