// Package jobs owns the lifecycle of generation jobs: submission, the
// asynchronous execution that drives the producer and post-processing, and
// status lookup. All per-job state lives in the shared state store; the
// manager is its only writer for a given job id.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"mokuso/internal/metrics"
	"mokuso/internal/models"
	"mokuso/internal/params"
	"mokuso/internal/postprocess"
	"mokuso/internal/progress"
	"mokuso/internal/state"
)

// ErrNotFound is returned for job ids unknown to the state store.
var ErrNotFound = errors.New("job not found")

// Failure classes recorded in the job's error text.
var (
	ErrProducer    = errors.New("producer failure")
	ErrValidation  = errors.New("validation failure")
	ErrPersistence = errors.New("persistence failure")
)

// Producer turns a generation request into a draft session. Its textual
// emissions go to out instead of any ambient output channel.
type Producer interface {
	Generate(ctx context.Context, req models.GenerationRequest, out io.Writer) (*models.Session, error)
}

// SessionStore persists finished sessions by job id.
type SessionStore interface {
	Store(ctx context.Context, jobID string, session *models.Session) (string, error)
	FetchByJobID(ctx context.Context, jobID string) (*models.Session, error)
}

// Manager runs generation jobs.
type Manager struct {
	store    *state.Store
	sessions SessionStore
	producer Producer
	gen      *params.Generator
}

// NewManager creates a Manager.
func NewManager(store *state.Store, sessions SessionStore, producer Producer, gen *params.Generator) *Manager {
	return &Manager{
		store:    store,
		sessions: sessions,
		producer: producer,
		gen:      gen,
	}
}

// Submit allocates a job id, marks it queued, and schedules exactly one
// background execution. It returns immediately.
func (m *Manager) Submit(req models.GenerationRequest) string {
	req.ApplyDefaults()

	jobID := uuid.New().String()
	m.store.Set(state.StatusKey(jobID), models.JobStatusQueued)
	metrics.JobsSubmitted.Inc()
	log.Printf("Job %s submitted (kind: %s, duration: %dm)", jobID, req.ContentKind, req.DurationMinutes)

	go m.execute(jobID, req)
	return jobID
}

// execute runs one job to a terminal status. Producer panics and errors are
// absorbed here; nothing propagates to the submitter.
func (m *Manager) execute(jobID string, req models.GenerationRequest) {
	m.store.Set(state.StatusKey(jobID), models.JobStatusRunning)
	m.setProgress(jobID, map[string]any{"stage": "starting", "details": "Initializing agents"})

	sink := progress.NewWriter(func(agent, message string) {
		m.setProgress(jobID, map[string]any{"agent": agent, "message": message})
	})

	session, err := m.runProducer(req, sink)
	sink.Flush()
	if err != nil {
		m.fail(jobID, fmt.Errorf("%w: %v", ErrProducer, err))
		return
	}

	if err := postprocess.Process(session, m.gen); err != nil {
		m.fail(jobID, fmt.Errorf("%w: %v", ErrValidation, err))
		return
	}

	ref, err := m.sessions.Store(context.Background(), jobID, session)
	if err != nil {
		m.fail(jobID, fmt.Errorf("%w: %v", ErrPersistence, err))
		return
	}

	m.store.Set(state.ResultKey(jobID), ref)
	m.store.Set(state.StatusKey(jobID), models.JobStatusCompleted)
	m.setProgress(jobID, map[string]any{"stage": "completed", "details": "Session generated", "session": ref})
	metrics.JobsCompleted.Inc()
	log.Printf("Job %s completed (session: %s)", jobID, ref)
}

// runProducer invokes the producer, converting a panic into an error at the
// job boundary.
func (m *Manager) runProducer(req models.GenerationRequest, out io.Writer) (session *models.Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			session = nil
			err = fmt.Errorf("producer panic: %v", r)
		}
	}()
	return m.producer.Generate(context.Background(), req, out)
}

func (m *Manager) fail(jobID string, err error) {
	m.store.Set(state.ErrorKey(jobID), err.Error())
	m.store.Set(state.StatusKey(jobID), models.JobStatusFailed)
	metrics.JobsFailed.Inc()
	log.Printf("Job %s failed: %v", jobID, err)
}

func (m *Manager) setProgress(jobID string, snapshot map[string]any) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	m.store.Set(state.ProgressKey(jobID), string(raw))
}

// GetStatus returns the current job snapshot, or ErrNotFound for an unknown
// id. The view may lag the running execution by one write.
func (m *Manager) GetStatus(jobID string) (*models.Job, error) {
	status, ok := m.store.Get(state.StatusKey(jobID))
	if !ok {
		return nil, ErrNotFound
	}

	job := &models.Job{JobID: jobID, Status: status}
	if raw, ok := m.store.Get(state.ProgressKey(jobID)); ok {
		var snapshot map[string]any
		if err := json.Unmarshal([]byte(raw), &snapshot); err == nil {
			job.Progress = snapshot
		}
	}
	if ref, ok := m.store.Get(state.ResultKey(jobID)); ok {
		job.ResultRef = ref
	}
	if msg, ok := m.store.Get(state.ErrorKey(jobID)); ok {
		job.Error = msg
	}
	return job, nil
}
