package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/lciaqsar/qsarstats/core/series"
	"github.com/lciaqsar/qsarstats/uncertainty"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func row(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatFloats(values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = formatFloat(v)
	}
	return out
}

// writeCDF prints a distribution as chemical, value, lower, upper and the
// cumulative column.
func writeCDF(w io.Writer, t uncertainty.CDFTable) error {
	tw := newTable(w)
	row(tw, "chemical", t.ValueName, "lower", "upper", t.CumulativeName())
	for i, id := range t.Index {
		row(tw, id, formatFloat(t.Values[i]), formatFloat(t.Lower[i]), formatFloat(t.Upper[i]), formatFloat(t.Cumulative[i]))
	}
	return tw.Flush()
}

// writeFrame prints a frame with its index as first column.
func writeFrame(w io.Writer, indexName string, f *series.Frame) error {
	tw := newTable(w)
	row(tw, append([]string{indexName}, f.Columns...)...)
	for i, id := range f.Index {
		cells := make([]string, 0, f.Cols()+1)
		cells = append(cells, id)
		for j := 0; j < f.Cols(); j++ {
			cells = append(cells, formatFloat(f.At(i, j)))
		}
		row(tw, cells...)
	}
	return tw.Flush()
}
