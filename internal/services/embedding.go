package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

const DefaultEmbeddingDimension = 384

// EmbeddingBackend is the raw model call behind the Embedder.
type EmbeddingBackend interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ModelHandle is the long-lived embedding model. It is loaded once by the
// entry point and shared read-only by every run.
type ModelHandle struct {
	backend   EmbeddingBackend
	name      string
	dimension int
	available bool
	loadErr   error
	mu        *sync.Mutex
}

// LoadModel warms the backend up once. A failed warmup leaves the handle in
// degraded mode instead of returning an error, so the service still starts.
// serialize makes every inference call take a shared lock.
func LoadModel(ctx context.Context, name string, backend EmbeddingBackend, dimension int, serialize bool) *ModelHandle {
	if dimension <= 0 {
		dimension = DefaultEmbeddingDimension
	}

	m := &ModelHandle{
		backend:   backend,
		name:      name,
		dimension: dimension,
	}
	if serialize {
		m.mu = &sync.Mutex{}
	}

	if backend == nil {
		m.loadErr = fmt.Errorf("%w: no backend configured", ErrModelUnavailable)
		return m
	}

	warm, err := m.generate(ctx, "model warmup")
	if err != nil {
		m.loadErr = fmt.Errorf("failed to load embedding model %s: %w", name, err)
		return m
	}
	if len(warm) != dimension {
		m.loadErr = fmt.Errorf("%w: model %s returned %d values, expected %d", ErrDimensionMismatch, name, len(warm), dimension)
		return m
	}

	m.available = true
	return m
}

// UnavailableModel returns a handle that is permanently degraded.
func UnavailableModel(dimension int, cause error) *ModelHandle {
	if dimension <= 0 {
		dimension = DefaultEmbeddingDimension
	}
	if cause == nil {
		cause = ErrModelUnavailable
	}
	return &ModelHandle{dimension: dimension, loadErr: cause}
}

func (m *ModelHandle) Name() string {
	return m.name
}

func (m *ModelHandle) Dimension() int {
	return m.dimension
}

// Available is false when the model failed to load; every Embed call then
// returns the zero vector.
func (m *ModelHandle) Available() bool {
	return m.available
}

func (m *ModelHandle) LoadError() error {
	return m.loadErr
}

func (m *ModelHandle) zeroVector() []float32 {
	return make([]float32, m.dimension)
}

func (m *ModelHandle) generate(ctx context.Context, text string) (vec []float32, err error) {
	if m.mu != nil {
		m.mu.Lock()
		defer m.mu.Unlock()
	}

	defer func() {
		if r := recover(); r != nil {
			vec, err = nil, fmt.Errorf("embedding backend panicked: %v", r)
		}
	}()

	return m.backend.GenerateEmbedding(ctx, text)
}

type EmbeddingService interface {
	// Embed always returns a vector of the model dimension. Empty text and
	// every failure map to the zero vector.
	Embed(ctx context.Context, text string) Outcome[[]float32]
	Model() *ModelHandle
}

type embeddingService struct {
	model  *ModelHandle
	logger *slog.Logger
}

func NewEmbeddingService(model *ModelHandle, logger *slog.Logger) EmbeddingService {
	if model == nil {
		model = UnavailableModel(DefaultEmbeddingDimension, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingService{
		model:  model,
		logger: logger.With("component", "embedder", "model", model.Name()),
	}
}

func (e *embeddingService) Model() *ModelHandle {
	return e.model
}

func (e *embeddingService) Embed(ctx context.Context, text string) Outcome[[]float32] {
	if strings.TrimSpace(text) == "" {
		return succeeded(e.model.zeroVector())
	}

	// Degraded mode is reported once per run by the caller, not per call.
	if !e.model.Available() {
		return fellBack(e.model.zeroVector(), CodeResourceUnavailable, ErrModelUnavailable)
	}

	vec, err := e.model.generate(ctx, text)
	if err != nil {
		e.logger.Error("failed to generate embedding", "length", len(text), "err", err)
		return fellBack(e.model.zeroVector(), CodeComputationFailure, err)
	}
	if len(vec) == 0 {
		e.logger.Error("embedder returned empty result", "length", len(text))
		return fellBack(e.model.zeroVector(), CodeComputationFailure, ErrEmptyEmbedding)
	}
	if len(vec) != e.model.Dimension() {
		err := fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(vec), e.model.Dimension())
		e.logger.Error("embedding has wrong dimension", "err", err)
		return fellBack(e.model.zeroVector(), CodeComputationFailure, err)
	}

	return succeeded(vec)
}
