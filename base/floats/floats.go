package floats

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Clamp limits x to [lo, hi]. NaN is passed through unchanged.
func Clamp(x, lo, hi float64) float64 {
	if lo > hi {
		panic("unexpected bounds")
	}
	return math.Max(lo, math.Min(x, hi))
}

func Mean(fs []float64) float64 {
	n := len(fs)
	if n == 0 {
		panic("unexpected number of values")
	}
	return floats.Sum(fs) / float64(n)
}

// WeightedMean returns sum(vs[i]*ws[i]) / sum(ws) summed in slice order.
// ok is false if the total weight is not positive.
func WeightedMean(vs, ws []float64) (m float64, ok bool) {
	if len(vs) != len(ws) {
		panic("unexpected number of weights")
	}
	total := floats.Sum(ws)
	if !(total > 0) {
		return 0, false
	}
	return floats.Dot(vs, ws) / total, true
}
