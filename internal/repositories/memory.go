package repositories

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
)

// DefaultMaxStoredRuns bounds the in-memory history.
const DefaultMaxStoredRuns = 500

// memoryMatchRunRepository keeps the most recent runs in process memory. It
// is the default when no database is configured and is lost on restart. Once
// maxRuns is reached the oldest stored run is evicted.
type memoryMatchRunRepository struct {
	mu      sync.RWMutex
	runs    map[uuid.UUID]models.MatchRun
	order   []uuid.UUID // oldest first
	maxRuns int
}

func NewMemoryMatchRunRepository(maxRuns int) MatchRunRepository {
	if maxRuns <= 0 {
		maxRuns = DefaultMaxStoredRuns
	}
	return &memoryMatchRunRepository{
		runs:    make(map[uuid.UUID]models.MatchRun),
		maxRuns: maxRuns,
	}
}

func (r *memoryMatchRunRepository) Create(run *models.MatchRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	for i := range run.Results {
		if run.Results[i].ID == uuid.Nil {
			run.Results[i].ID = uuid.New()
		}
		run.Results[i].RunID = run.ID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; exists {
		r.order = slices.DeleteFunc(r.order, func(id uuid.UUID) bool { return id == run.ID })
	}
	r.runs[run.ID] = cloneRun(*run)
	r.order = append(r.order, run.ID)

	for len(r.order) > r.maxRuns {
		delete(r.runs, r.order[0])
		r.order = r.order[1:]
	}
	return nil
}

func (r *memoryMatchRunRepository) FindByID(id uuid.UUID) (*models.MatchRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, ErrMatchRunNotFound
	}
	out := cloneRun(run)
	return &out, nil
}

// FindRecent returns runs newest first, without their results.
func (r *memoryMatchRunRepository) FindRecent(limit int) ([]models.MatchRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.order)
	if limit > 0 && n > limit {
		n = limit
	}

	runs := make([]models.MatchRun, 0, n)
	for i := len(r.order) - 1; i >= 0 && len(runs) < n; i-- {
		run := r.runs[r.order[i]]
		run.Results = nil
		runs = append(runs, run)
	}
	return runs, nil
}

func cloneRun(run models.MatchRun) models.MatchRun {
	run.Results = slices.Clone(run.Results)
	return run
}
