package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
)

type MatchRequest struct {
	JobDescription *models.Document
	Resumes        []models.Document
}

// MatchResult is the outcome for one resume. Diagnostics lists every step
// that fell back to a default.
type MatchResult struct {
	ResumeName       string
	MatchPercentage  float64
	MatchingKeywords []string
	ResumeText       string
	Diagnostics      []string
}

type MatchReport struct {
	RunID              uuid.UUID
	JobDescriptionName string
	// Results keeps the order of the request's resumes.
	Results  []MatchResult
	Status   models.ResourceStatus
	Warnings []string
}

// Ranked returns the results sorted by match percentage, highest first. Ties
// keep request order.
func (r *MatchReport) Ranked() []MatchResult {
	ranked := slices.Clone(r.Results)
	slices.SortStableFunc(ranked, func(a, b MatchResult) int {
		switch {
		case a.MatchPercentage > b.MatchPercentage:
			return -1
		case a.MatchPercentage < b.MatchPercentage:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

type MatcherService interface {
	Match(ctx context.Context, req MatchRequest) (*MatchReport, error)
	Status() models.ResourceStatus
	Close()
}

type MatcherOption func(*matcherService)

// WithSimilarity replaces the local cosine scorer.
func WithSimilarity(similarity VectorSimilarity) MatcherOption {
	return func(m *matcherService) {
		if similarity != nil {
			m.similarity = similarity
		}
	}
}

// WithWorkerPool sets the pool used for per-resume work. The matcher owns it
// and releases it on Close.
func WithWorkerPool(pool WorkerPool) MatcherOption {
	return func(m *matcherService) {
		if pool != nil {
			m.pool = pool
		}
	}
}

func WithMinKeywordLength(minLength int) MatcherOption {
	return func(m *matcherService) {
		m.minKeywordLength = minLength
	}
}

func WithLogger(logger *slog.Logger) MatcherOption {
	return func(m *matcherService) {
		if logger != nil {
			m.logger = logger
		}
	}
}

type matcherService struct {
	extractor        DocumentTextExtractor
	embedder         EmbeddingService
	keywords         KeywordService
	similarity       VectorSimilarity
	fallback         VectorSimilarity
	pool             WorkerPool
	minKeywordLength int
	logger           *slog.Logger
}

func NewMatcherService(
	extractor DocumentTextExtractor,
	embedder EmbeddingService,
	keywords KeywordService,
	opts ...MatcherOption,
) (MatcherService, error) {
	if extractor == nil {
		return nil, fmt.Errorf("text extractor required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedding service required")
	}
	if keywords == nil {
		return nil, fmt.Errorf("keyword service required")
	}

	m := &matcherService{
		extractor:        extractor,
		embedder:         embedder,
		keywords:         keywords,
		similarity:       NewLocalCosine(),
		fallback:         NewLocalCosine(),
		pool:             NewSequentialPool(),
		minKeywordLength: DefaultKeywordMinLength,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "matcher")

	return m, nil
}

func (m *matcherService) Status() models.ResourceStatus {
	return models.ResourceStatus{
		EmbeddingAvailable: m.embedder.Model().Available(),
		KeywordsAvailable:  m.keywords.Available(),
	}
}

func (m *matcherService) Close() {
	m.pool.Release()
}

// resumeWork carries one resume through the pipeline.
type resumeWork struct {
	text        string
	vector      []float32
	keywords    []string
	diagnostics []string
}

// Match scores every resume against the job description. Only missing inputs
// are errors; a resume that fails any step is still scored, against whatever
// fallback replaced the failing value.
func (m *matcherService) Match(ctx context.Context, req MatchRequest) (*MatchReport, error) {
	if req.JobDescription == nil {
		return nil, ErrJobDescriptionRequired
	}
	if len(req.Resumes) == 0 {
		return nil, ErrResumesRequired
	}

	report := &MatchReport{
		RunID:              uuid.New(),
		JobDescriptionName: req.JobDescription.Name,
		Status:             m.Status(),
	}
	report.Warnings = m.statusWarnings(report.Status)

	m.logger.Info("starting match run", "run_id", report.RunID, "resumes", len(req.Resumes))

	jdText := m.extractor.ExtractText(*req.JobDescription)
	if !jdText.OK() {
		report.Warnings = append(report.Warnings, jdText.Diagnostic("job description "+req.JobDescription.Name))
	}

	jdVector := m.embedder.Embed(ctx, jdText.Value)
	if jdVector.Code == CodeComputationFailure {
		report.Warnings = append(report.Warnings, jdVector.Diagnostic("job description embedding"))
	}

	work := make([]resumeWork, len(req.Resumes))
	m.pool.Run(len(req.Resumes), func(i int) {
		work[i] = m.processResume(ctx, req.Resumes[i], jdText.Value)
	})

	vectors := make([][]float32, len(work))
	for i := range work {
		vectors[i] = work[i].vector
	}
	similarities := m.similarities(ctx, jdVector.Value, vectors, report)

	report.Results = make([]MatchResult, len(work))
	for i, w := range work {
		report.Results[i] = MatchResult{
			ResumeName:       req.Resumes[i].Name,
			MatchPercentage:  Percentage(similarities[i]),
			MatchingKeywords: w.keywords,
			ResumeText:       w.text,
			Diagnostics:      w.diagnostics,
		}
	}

	m.logger.Info("match run completed", "run_id", report.RunID, "resumes", len(report.Results))
	return report, nil
}

func (m *matcherService) processResume(ctx context.Context, doc models.Document, jdText string) (w resumeWork) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("resume processing panicked: %v", r)
			m.logger.Error("failed to process resume", "resume", doc.Name, "err", err)
			w.vector = m.embedder.Model().zeroVector()
			w.keywords = []string{}
			w.diagnostics = append(w.diagnostics, fellBack(0, CodeComputationFailure, err).Diagnostic("resume"))
		}
	}()

	text := m.extractor.ExtractText(doc)
	w.text = text.Value
	if d := text.Diagnostic("extraction"); d != "" {
		w.diagnostics = append(w.diagnostics, d)
	}

	vector := m.embedder.Embed(ctx, text.Value)
	w.vector = vector.Value
	// A missing model is reported once on the run, not on every resume.
	if vector.Code == CodeComputationFailure {
		w.diagnostics = append(w.diagnostics, vector.Diagnostic("embedding"))
	}

	keywords := m.keywords.FindMatchingKeywords(jdText, text.Value, m.minKeywordLength)
	w.keywords = keywords.Value
	if d := keywords.Diagnostic("keywords"); d != "" {
		w.diagnostics = append(w.diagnostics, d)
	}

	return w
}

func (m *matcherService) similarities(ctx context.Context, reference []float32, candidates [][]float32, report *MatchReport) []float64 {
	sims, err := m.similarity.CosineSimilarities(ctx, reference, candidates)
	if err == nil && len(sims) == len(candidates) {
		return sims
	}
	if err == nil {
		err = fmt.Errorf("similarity backend returned %d scores for %d resumes", len(sims), len(candidates))
	}

	m.logger.Warn("similarity backend failed, using local cosine", "run_id", report.RunID, "err", err)
	report.Warnings = append(report.Warnings, fmt.Sprintf("similarity backend failed, scores computed locally: %v", err))

	sims, _ = m.fallback.CosineSimilarities(ctx, reference, candidates)
	return sims
}

func (m *matcherService) statusWarnings(status models.ResourceStatus) []string {
	var warnings []string
	if !status.EmbeddingAvailable {
		msg := "embedding model unavailable: match percentages are running in fallback mode"
		if err := m.embedder.Model().LoadError(); err != nil {
			msg += " (" + err.Error() + ")"
		}
		warnings = append(warnings, msg)
	}
	if !status.KeywordsAvailable {
		warnings = append(warnings, "keyword resources unavailable: using the minimal stopword list")
	}
	return warnings
}
