package utils

import (
	"math"
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// GeometricInterp returns a0*(a1/a0)^(i/(n-1)), stepping from a0 at i=0 to a1 at i=n-1
func GeometricInterp(a0, a1 float64, i, n int) float64 {
	if n <= 1 || a0 == a1 {
		return a0
	}
	return a0 * math.Pow(a1/a0, float64(i)/float64(n-1))
}

// MinMaxAvg returns the extremes and the mean of v, all zero for an empty slice
func MinMaxAvg(v []float64) (vmin, vmax, avg float64) {
	if len(v) == 0 {
		return
	}
	vmin, vmax = math.MaxFloat64, -math.MaxFloat64
	for _, f := range v {
		vmin = math.Min(vmin, f)
		vmax = math.Max(vmax, f)
		avg += f
	}
	avg /= float64(len(v))
	return
}
