package reembed

import "math"

// NormalizeVector scales v to unit length, returning a new slice.
// A zero-magnitude input yields an all-zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}

	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}

	inv := float32(1 / math.Sqrt(sum))
	for i, val := range v {
		out[i] = val * inv
	}
	return out
}
