package services

import (
	"context"
	"hash/fnv"
	"math"
)

// HashingEmbedder is an offline embedding backend. Content words are hashed
// into signed buckets with sublinear term-frequency weights and the result is
// L2-normalised, so texts sharing vocabulary point the same way. It needs no
// model download and is deterministic.
type HashingEmbedder struct {
	dimension int
	tokenizer Tokenizer
	stopwords StopwordSet
}

func NewHashingEmbedder(dimension int) *HashingEmbedder {
	if dimension <= 0 {
		dimension = DefaultEmbeddingDimension
	}
	return &HashingEmbedder{
		dimension: dimension,
		tokenizer: NewWordTokenizer(),
		stopwords: EnglishStopwords(),
	}
}

func (h *HashingEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	counts := make(map[string]int)
	var order []string
	for _, word := range contentWords(h.tokenizer, h.stopwords, text) {
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	vec := make([]float64, h.dimension)
	for _, word := range order {
		hasher := fnv.New32a()
		hasher.Write([]byte(word))
		sum := hasher.Sum32()

		sign := 1.0
		if sum>>31 == 1 {
			sign = -1.0
		}
		vec[int(sum%uint32(h.dimension))] += sign * (1 + math.Log(float64(counts[word])))
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, h.dimension)
	if norm == 0 {
		return out, nil
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}
