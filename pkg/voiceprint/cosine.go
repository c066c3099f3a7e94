package voiceprint

import "math"

// Cosine computes the cosine similarity dot(a,b)/(‖a‖·‖b‖) between two
// embeddings, accumulating in float64 for stability. When either
// vector has zero norm the similarity is 0.0 rather than a division
// error. Vectors of unequal length fail with ErrDimensionMismatch.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
