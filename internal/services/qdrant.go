package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// qdrantSimilarity scores candidates server-side. Each call creates a
// throwaway collection, runs one exact cosine query and drops the collection,
// so no vector outlives the run.
type qdrantSimilarity struct {
	client           *qdrant.Client
	collectionPrefix string
	vectorSize       uint64
	logger           *slog.Logger
}

func NewQdrantSimilarity(urlStr, apiKey, collectionPrefix string, vectorSize int, logger *slog.Logger) (VectorSimilarity, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	if host == "" {
		return nil, fmt.Errorf("invalid Qdrant URL: missing host in %q", urlStr)
	}
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	if collectionPrefix == "" {
		collectionPrefix = "resume_match"
	}
	if vectorSize <= 0 {
		vectorSize = DefaultEmbeddingDimension
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &qdrantSimilarity{
		client:           client,
		collectionPrefix: collectionPrefix,
		vectorSize:       uint64(vectorSize),
		logger:           logger.With("component", "qdrant-similarity"),
	}, nil
}

// CosineSimilarities implements VectorSimilarity.
func (q *qdrantSimilarity) CosineSimilarities(ctx context.Context, reference []float32, candidates [][]float32) ([]float64, error) {
	out := make([]float64, len(candidates))
	if IsZeroVector(reference) {
		return out, nil
	}

	// Zero vectors have no direction; Qdrant cannot normalise them.
	var points []*qdrant.PointStruct
	for i, c := range candidates {
		if len(c) != len(reference) || IsZeroVector(c) {
			continue
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(i) + 1),
			Vectors: qdrant.NewVectors(c...),
		})
	}
	if len(points) == 0 {
		return out, nil
	}

	collection := q.collectionPrefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	defer func() {
		if err := q.client.DeleteCollection(context.WithoutCancel(ctx), collection); err != nil {
			q.logger.Warn("failed to delete run collection", "collection", collection, "err", err)
		}
	}()

	if _, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	}); err != nil {
		return nil, fmt.Errorf("failed to upsert points: %w", err)
	}

	scored, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(reference...),
		Limit:          qdrant.PtrOf(uint64(len(points))),
		Params:         &qdrant.SearchParams{Exact: qdrant.PtrOf(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	found := 0
	for _, point := range scored {
		idx := int(point.GetId().GetNum()) - 1
		if idx < 0 || idx >= len(out) {
			continue
		}
		out[idx] = float64(point.GetScore())
		found++
	}
	if found != len(points) {
		return nil, fmt.Errorf("qdrant returned %d of %d candidates", found, len(points))
	}

	return out, nil
}
