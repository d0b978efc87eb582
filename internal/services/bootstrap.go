package services

import (
	"context"
	"fmt"
	"log/slog"

	"alfredoptarigan/resume-matcher/internal/config"
)

// NewEmbeddingBackend builds the backend selected by EMBEDDING_PROVIDER.
func NewEmbeddingBackend(ctx context.Context, cfg *config.Config) (EmbeddingBackend, error) {
	switch cfg.Embedding.Provider {
	case config.EmbeddingProviderOpenAI:
		return NewOpenAIEmbedder(cfg.Embedding.Host, cfg.Embedding.Model)
	case config.EmbeddingProviderGemini:
		return NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.EmbedModel, cfg.Embedding.Dimension)
	case config.EmbeddingProviderHashing:
		return NewHashingEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Embedding.Provider)
	}
}

func modelName(cfg *config.Config) string {
	switch cfg.Embedding.Provider {
	case config.EmbeddingProviderGemini:
		return "gemini/" + cfg.Gemini.EmbedModel
	case config.EmbeddingProviderHashing:
		return "hashing"
	default:
		return cfg.Embedding.Provider + "/" + cfg.Embedding.Model
	}
}

// LoadEmbeddingModel creates the process-wide model handle. Backend
// construction and warmup failures are logged and leave the handle degraded.
func LoadEmbeddingModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) *ModelHandle {
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := NewEmbeddingBackend(ctx, cfg)
	if err != nil {
		logger.Warn("embedding backend unavailable, running in degraded mode", "provider", cfg.Embedding.Provider, "err", err)
		return UnavailableModel(cfg.Embedding.Dimension, fmt.Errorf("%w: %v", ErrModelUnavailable, err))
	}

	model := LoadModel(ctx, modelName(cfg), backend, cfg.Embedding.Dimension, cfg.Embedding.Serialize)
	if !model.Available() {
		logger.Warn("embedding model failed to load, running in degraded mode", "model", model.Name(), "err", model.LoadError())
	}
	return model
}

// NewVectorSimilarity builds the backend selected by SIMILARITY_BACKEND.
func NewVectorSimilarity(cfg *config.Config, logger *slog.Logger) (VectorSimilarity, error) {
	if cfg.Qdrant.Backend == config.SimilarityBackendQdrant {
		return NewQdrantSimilarity(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.CollectionPrefix, cfg.Embedding.Dimension, logger)
	}
	return NewLocalCosine(), nil
}

// BuildMatcher wires the pipeline from configuration around an already
// loaded model.
func BuildMatcher(cfg *config.Config, model *ModelHandle, logger *slog.Logger) (MatcherService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	resources := LoadLinguisticResources(cfg.Keywords.StopwordsPath)
	if !resources.Available {
		logger.Warn("keyword resources unavailable, using fallback stopwords", "err", resources.Err)
	}

	similarity, err := NewVectorSimilarity(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create similarity backend: %w", err)
	}

	pool, err := NewWorkerPool(cfg.Worker.Concurrency)
	if err != nil {
		return nil, err
	}

	matcher, err := NewMatcherService(
		NewTextExtractor(logger),
		NewEmbeddingService(model, logger),
		NewKeywordService(resources, cfg.Keywords.TopN, logger),
		WithSimilarity(similarity),
		WithWorkerPool(pool),
		WithMinKeywordLength(cfg.Keywords.MinLength),
		WithLogger(logger),
	)
	if err != nil {
		pool.Release()
		return nil, err
	}
	return matcher, nil
}
