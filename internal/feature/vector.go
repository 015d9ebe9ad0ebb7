package feature

// Vector is a sparse feature vector. Indices are strictly increasing and
// Values holds the weight at each index; Dim is the full dimensionality the
// vector was produced under, including positions that are zero.
type Vector struct {
	Indices []int
	Values  []float64
	Dim     int
}

// Dot computes the dot product against a dense weight slice.
// The caller is responsible for checking len(w) == v.Dim.
func (v Vector) Dot(w []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		sum += v.Values[i] * w[idx]
	}
	return sum
}

// NonZero returns the number of populated positions
func (v Vector) NonZero() int {
	return len(v.Indices)
}
