package services

import (
	"context"
	"math"
)

// VectorSimilarity computes the cosine similarity of each candidate against
// the reference. Implementations return 0 for any pair that involves a zero
// vector.
type VectorSimilarity interface {
	CosineSimilarities(ctx context.Context, reference []float32, candidates [][]float32) ([]float64, error)
}

// LocalCosine computes cosine similarity in-process.
type LocalCosine struct{}

func NewLocalCosine() VectorSimilarity {
	return LocalCosine{}
}

func (LocalCosine) CosineSimilarities(_ context.Context, reference []float32, candidates [][]float32) ([]float64, error) {
	out := make([]float64, len(candidates))
	for i, c := range candidates {
		out[i] = Cosine(reference, c)
	}
	return out, nil
}

// Cosine returns the cosine of the angle between a and b. It is 0 when either
// vector has zero norm, when the lengths differ, or when the inputs are not
// finite.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	c := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	return c
}

// Percentage turns a cosine into a match percentage in [0, 100] rounded to
// two decimals. Negative similarity counts as no match.
func Percentage(cosine float64) float64 {
	if math.IsNaN(cosine) || cosine <= 0 {
		return 0
	}
	if cosine > 1 {
		cosine = 1
	}
	return math.Round(cosine*100*100) / 100
}

// Score is the match percentage of candidate against reference.
func Score(reference, candidate []float32) float64 {
	return Percentage(Cosine(reference, candidate))
}

func IsZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
