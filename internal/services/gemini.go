package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// maxEmbeddingInputChars keeps requests under the Gemini embedding input limit.
const maxEmbeddingInputChars = 40000

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiService struct {
	client     *genai.Client
	embedModel string
	dimension  int32
}

func NewGeminiService(ctx context.Context, apiKey, embedModel string, dimension int) (GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if embedModel == "" {
		embedModel = "text-embedding-004"
	}
	if dimension <= 0 {
		dimension = DefaultEmbeddingDimension
	}

	return &geminiService{
		client:     client,
		embedModel: embedModel,
		dimension:  int32(dimension),
	}, nil
}

// GenerateEmbedding implements GeminiService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateRunes(text, maxEmbeddingInputChars)

	dimension := g.dimension
	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, ErrEmptyEmbedding
	}

	return result.Embeddings[0].Values, nil
}

// truncateRunes cuts s to at most n runes without splitting a character.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
