package uncertainty

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"

	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Axis selects the coordinate DataLimits reads.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// ParseAxis resolves "x" or "y".
func ParseAxis(token string) (Axis, error) {
	switch strings.ToLower(token) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	}
	return 0, errors.NewInvalidParameterError("uncertainty.ParseAxis", "axis_type", token, "expected x or y")
}

// DataKind selects the drawn element DataLimits reads: the CDF line or the
// prediction-interval band.
type DataKind int

const (
	DataLine DataKind = iota
	DataFill
)

// ParseDataKind resolves "line" or "fill".
func ParseDataKind(token string) (DataKind, error) {
	switch strings.ToLower(token) {
	case "line":
		return DataLine, nil
	case "fill":
		return DataFill, nil
	}
	return 0, errors.NewInvalidParameterError("uncertainty.ParseDataKind", "data_type", token, "expected line or fill")
}

// DataLimits returns the smallest and largest finite coordinate of the given
// kind over tables. For DataLine the x coordinates are the values; for
// DataFill they are the lower and upper edges. The y coordinates are the
// cumulative column either way. Without finite data both limits are NaN.
func DataLimits(tables []CDFTable, axis Axis, kind DataKind) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	seen := false
	visit := func(values []float64) {
		for _, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			seen = true
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	for _, t := range tables {
		switch {
		case axis == AxisY:
			visit(t.Cumulative)
		case kind == DataFill:
			visit(t.Lower)
			visit(t.Upper)
		default:
			visit(t.Values)
		}
	}
	if !seen {
		return math.NaN(), math.NaN()
	}
	return lo, hi
}

var niceSteps = []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000, 10000}

// maxTicks bounds the ticks EvenTicker places; wider ranges get none.
const maxTicks = 1000

// EvenTicker places about ten ticks on a linear axis at a step taken from
// 1, 2, 5, 10, 20, ... and widens the range to multiples of that step.
type EvenTicker struct{}

// Ticks implements plot.Ticker.
func (EvenTicker) Ticks(min, max float64) []plot.Tick {
	if !finite(min) || !finite(max) || max < min {
		return nil
	}
	raw := (max - min) / 10
	step := niceSteps[0]
	for _, s := range niceSteps[1:] {
		if math.Abs(s-raw) < math.Abs(step-raw) {
			step = s
		}
	}

	lo := step * math.Floor(min/step)
	hi := step * math.Ceil(max/step)
	steps := math.Round((hi - lo) / step)
	if !(steps < maxTicks) {
		return nil
	}
	ticks := make([]plot.Tick, 0, int(steps)+1)
	for i := 0; i <= int(steps); i++ {
		v := lo + float64(i)*step
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
	}
	return ticks
}

// EvenLogTicker places ticks at even powers of ten covering [min, max].
// min and max must be positive and finite.
type EvenLogTicker struct{}

// Ticks implements plot.Ticker.
func (EvenLogTicker) Ticks(min, max float64) []plot.Tick {
	if !(min > 0) || !(max >= min) || math.IsInf(max, 1) {
		return nil
	}
	lo := int(math.Floor(math.Log10(min)))
	hi := int(math.Ceil(math.Log10(max)))
	if lo%2 != 0 {
		lo--
	}
	if hi%2 != 0 {
		hi++
	}

	var ticks []plot.Tick
	for p := lo; p <= hi; p += 2 {
		v := math.Pow(10, float64(p))
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
	}
	return ticks
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
