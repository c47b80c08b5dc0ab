package pipeline

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/output"
)

// RunStatus represents the state of a relevance run.
type RunStatus string

const (
	StatusQueued     RunStatus = "queued"
	StatusExtracting RunStatus = "extracting"
	StatusSectioning RunStatus = "sectioning"
	StatusFitting    RunStatus = "fitting"
	StatusScoring    RunStatus = "scoring"
	StatusRefining   RunStatus = "refining"
	StatusCompleted  RunStatus = "completed"
	// StatusPartial marks a completed run that skipped some documents.
	StatusPartial RunStatus = "partial"
	StatusFailed  RunStatus = "failed"
)

// Run tracks the state of a single relevance batch.
type Run struct {
	mu sync.Mutex

	ID      string    `json:"run_id"`
	Status  RunStatus `json:"status"`
	Phase   string    `json:"phase"`
	Persona string    `json:"persona"`
	Job     string    `json:"job"`

	Documents []string `json:"documents"`
	Skipped   []string `json:"skipped,omitempty"`
	Error     string   `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	request Request
	result  *output.Consolidated
}

// NewRun builds a queued run for a request.
func NewRun(req Request) *Run {
	now := time.Now()
	docs := make([]string, len(req.Inputs))
	for i, in := range req.Inputs {
		docs[i] = in.Filename
	}
	return &Run{
		ID:        ulid.Make().String(),
		Status:    StatusQueued,
		Phase:     "queued",
		Persona:   req.Query.Persona,
		Job:       req.Query.Job,
		Documents: docs,
		CreatedAt: now,
		UpdatedAt: now,
		request:   req,
	}
}

// SetStatus updates run status atomically.
func (r *Run) SetStatus(status RunStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	r.Phase = string(status)
	r.UpdatedAt = time.Now()
}

// Fail marks the run failed, keeping the phase it failed in.
func (r *Run) Fail(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = StatusFailed
	r.Error = msg
	r.UpdatedAt = time.Now()
}

// Complete stores the consolidated result and marks the run done.
// skipped lists documents that dropped out during extraction; any entry
// downgrades the run to partial.
func (r *Run) Complete(res output.Consolidated, skipped []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = StatusCompleted
	if len(skipped) > 0 {
		r.Status = StatusPartial
		r.Skipped = skipped
	}
	r.Phase = "done"
	r.result = &res
	r.UpdatedAt = time.Now()
}

// Result returns the consolidated output, or nil while incomplete.
func (r *Run) Result() *output.Consolidated {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// Request returns the run's immutable request.
func (r *Run) Request() Request {
	return r.request
}

// RunSnapshot is a read-only, JSON-safe copy of run state.
type RunSnapshot struct {
	ID        string    `json:"run_id"`
	Status    RunStatus `json:"status"`
	Phase     string    `json:"phase"`
	Persona   string    `json:"persona"`
	Job       string    `json:"job"`
	Documents []string  `json:"documents"`
	Skipped   []string  `json:"skipped,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the run state.
func (r *Run) Snapshot() RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.Documents
	if docs == nil {
		docs = []string{}
	}
	return RunSnapshot{
		ID:        r.ID,
		Status:    r.Status,
		Phase:     r.Phase,
		Persona:   r.Persona,
		Job:       r.Job,
		Documents: docs,
		Skipped:   r.Skipped,
		Error:     r.Error,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// RunStore is a thread-safe in-memory run registry with TTL eviction.
type RunStore struct {
	mu   sync.Mutex
	runs map[string]*Run
	ttl  time.Duration
}

func NewRunStore(ttl time.Duration) *RunStore {
	return &RunStore{
		runs: make(map[string]*Run),
		ttl:  ttl,
	}
}

func (s *RunStore) Put(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

func (s *RunStore) Get(id string) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

// Cleanup removes expired runs.
func (s *RunStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, run := range s.runs {
		if now.Sub(run.Snapshot().UpdatedAt) > s.ttl {
			delete(s.runs, id)
		}
	}
}
