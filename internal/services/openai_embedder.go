package services

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// openAIEmbedder talks to any OpenAI-compatible embeddings endpoint. The
// default points at a local Ollama serving all-minilm (384 dimensions).
type openAIEmbedder struct {
	embedder embeddings.Embedder
}

func NewOpenAIEmbedder(host, model string) (EmbeddingBackend, error) {
	if host == "" {
		return nil, fmt.Errorf("embedding host is required")
	}
	if model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}

	// Local OpenAI-compatible servers ignore the token but the client requires one.
	client, err := openai.New(
		openai.WithBaseURL(host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &openAIEmbedder{embedder: embedder}, nil
}

func (o *openAIEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vec, err := o.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	return vec, nil
}
