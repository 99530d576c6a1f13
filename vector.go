package sitedex

import "math"

// NormalizeVector scales v to unit length in place and returns it.
// Zero vectors are returned unmodified.
func NormalizeVector(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

// MeanVector returns the element-wise mean of vecs. All vectors must share
// the same dimension. Returns nil for empty input.
func MeanVector(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}
	mean := make([]float32, len(vecs[0]))
	for _, v := range vecs {
		for i, x := range v {
			mean[i] += x
		}
	}
	n := float32(len(vecs))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}
