package uncertainty

import (
	"math"

	"github.com/lciaqsar/qsarstats/core/series"
)

// GSDZScore is the z-score for the ~95% confidence-adjusted GSD.
const GSDZScore = 1.96

// InverseLog10 maps every value of s to 10**value.
func InverseLog10(s *series.Series) *series.Series {
	return s.Map(pow10)
}

// GSD converts a log10 RMSE to a geometric standard deviation in natural
// units, and raises it to z for the confidence-adjusted factor.
func GSD(rmse, z float64) (gsd, adjusted float64) {
	gsd = math.Pow(10, rmse)
	return gsd, math.Pow(gsd, z)
}

func pow10(v float64) float64 {
	return math.Pow(10, v)
}
