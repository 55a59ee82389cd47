package series

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Frame is a table with labelled rows and columns. Data is nil when the
// table has no rows or no columns, since mat.Dense cannot be empty.
type Frame struct {
	Index   []string
	Columns []string
	Data    *mat.Dense
}

// NewFrame creates a Frame from row-major data of len(index)*len(columns) values.
func NewFrame(index, columns []string, data []float64) (*Frame, error) {
	r, c := len(index), len(columns)
	if len(data) != r*c {
		return nil, errors.NewDimensionError("series.NewFrame", r*c, len(data), 0)
	}
	f := &Frame{
		Index:   append([]string(nil), index...),
		Columns: append([]string(nil), columns...),
	}
	if r > 0 && c > 0 {
		f.Data = mat.NewDense(r, c, append([]float64(nil), data...))
	}
	return f, nil
}

// FrameFromColumns builds a Frame from series that share one index.
func FrameFromColumns(cols ...*Series) (*Frame, error) {
	if len(cols) == 0 {
		return &Frame{}, nil
	}
	index := cols[0].Index
	names := make([]string, len(cols))
	data := make([]float64, len(index)*len(cols))
	for j, col := range cols {
		if col.Len() != len(index) {
			return nil, errors.NewDimensionError("series.FrameFromColumns", len(index), col.Len(), 0)
		}
		for i, id := range col.Index {
			if id != index[i] {
				return nil, errors.NewValueError("series.FrameFromColumns", "columns do not share an index")
			}
			data[i*len(cols)+j] = col.Values[i]
		}
		names[j] = col.Name
	}
	return NewFrame(index, names, data)
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	if f == nil {
		return 0
	}
	return len(f.Index)
}

// Cols returns the number of columns.
func (f *Frame) Cols() int {
	if f == nil {
		return 0
	}
	return len(f.Columns)
}

// At returns the value at row i, column j.
func (f *Frame) At(i, j int) float64 {
	return f.Data.At(i, j)
}

// ColumnIndex returns the position of column name, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for j, c := range f.Columns {
		if c == name {
			return j
		}
	}
	return -1
}

// ColumnAt returns column j as a Series named after the column.
func (f *Frame) ColumnAt(j int) *Series {
	values := make([]float64, f.Rows())
	if f.Data != nil {
		mat.Col(values, j, f.Data)
	}
	return &Series{Name: f.Columns[j], Index: append([]string(nil), f.Index...), Values: values}
}

// Column returns the named column.
func (f *Frame) Column(name string) (*Series, error) {
	j := f.ColumnIndex(name)
	if j < 0 {
		return nil, errors.Wrapf(errors.ErrMissingColumn, "column %q", name)
	}
	return f.ColumnAt(j), nil
}

// SelectColumns returns a Frame holding names in the given order.
func (f *Frame) SelectColumns(names []string) (*Frame, error) {
	idx := make([]int, len(names))
	for k, name := range names {
		j := f.ColumnIndex(name)
		if j < 0 {
			return nil, errors.Wrapf(errors.ErrMissingColumn, "column %q", name)
		}
		idx[k] = j
	}

	data := make([]float64, 0, f.Rows()*len(names))
	for i := 0; i < f.Rows(); i++ {
		for _, j := range idx {
			data = append(data, f.Data.At(i, j))
		}
	}
	return NewFrame(f.Index, names, data)
}

// SelectRows returns the rows whose label is in ids, in the Frame's order.
func (f *Frame) SelectRows(ids []string) *Frame {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	var (
		index []string
		data  []float64
	)
	for i, id := range f.Index {
		if _, ok := keep[id]; !ok {
			continue
		}
		index = append(index, id)
		data = append(data, f.row(i)...)
	}
	out, _ := NewFrame(index, f.Columns, data)
	return out
}

// SliceRows returns rows [start, end) as a Frame sharing storage with f.
func (f *Frame) SliceRows(start, end int) *Frame {
	out := &Frame{
		Index:   f.Index[start:end:end],
		Columns: f.Columns,
	}
	if end > start && f.Data != nil {
		out.Data = f.Data.Slice(start, end, 0, f.Cols()).(*mat.Dense)
	}
	return out
}

// row returns a copy of row i.
func (f *Frame) row(i int) []float64 {
	if f.Data == nil {
		return nil
	}
	return mat.Row(nil, i, f.Data)
}

// Concat stacks frames with identical columns row-wise.
func Concat(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return &Frame{}, nil
	}
	columns := frames[0].Columns
	var (
		index []string
		data  []float64
	)
	for _, fr := range frames {
		if fr.Cols() != len(columns) {
			return nil, errors.NewDimensionError("series.Concat", len(columns), fr.Cols(), 1)
		}
		for j, c := range fr.Columns {
			if c != columns[j] {
				return nil, errors.NewValueError("series.Concat", "frames have different columns")
			}
		}
		for i := range fr.Index {
			index = append(index, fr.Index[i])
			data = append(data, fr.row(i)...)
		}
	}
	return NewFrame(index, columns, data)
}
