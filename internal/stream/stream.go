// Package stream pushes job status changes to a subscriber by polling the
// shared state store. Each subscriber session is an independent loop: it
// emits an event whenever the (status, progress) pair changes, heartbeats
// while idle, and closes after exactly one terminal event.
package stream

import (
	"context"
	"encoding/json"
	"time"

	"mokuso/internal/models"
	"mokuso/internal/state"
)

// Event is one message pushed to a subscriber.
type Event struct {
	Status    string          `json:"status"`
	Progress  json.RawMessage `json:"progress,omitempty"`
	ResultRef string          `json:"result_ref,omitempty"`
	Error     string          `json:"error,omitempty"`
	Heartbeat bool            `json:"heartbeat,omitempty"`
}

// EmitFunc delivers one event to the subscriber. A non-nil error ends the
// session.
type EmitFunc func(Event) error

// Streamer runs subscriber sessions against a state store.
type Streamer struct {
	store    *state.Store
	interval time.Duration
}

// NewStreamer creates a Streamer polling at one second intervals.
func NewStreamer(store *state.Store) *Streamer {
	return &Streamer{store: store, interval: time.Second}
}

// SetInterval sets the polling interval.
func (s *Streamer) SetInterval(interval time.Duration) {
	s.interval = interval
}

// Run polls the store for jobID until a terminal event has been emitted or
// ctx is cancelled. If the job is already terminal on entry, exactly one
// final event is emitted. A heartbeat event is emitted whenever no event has
// been sent for the given heartbeat interval.
func (s *Streamer) Run(ctx context.Context, jobID string, heartbeat time.Duration, emit EmitFunc) error {
	var lastStatus, lastProgress string
	lastEmit := time.Now()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		status, _ := s.store.Get(state.StatusKey(jobID))
		prog, _ := s.store.Get(state.ProgressKey(jobID))
		emitted := false

		if status != lastStatus || prog != lastProgress {
			ev := Event{Status: status, Progress: decodeProgress(prog)}
			switch status {
			case models.JobStatusCompleted:
				ev.ResultRef, _ = s.store.Get(state.ResultKey(jobID))
			case models.JobStatusFailed:
				ev.Error, _ = s.store.Get(state.ErrorKey(jobID))
			}
			if err := emit(ev); err != nil {
				return err
			}
			lastStatus, lastProgress = status, prog
			lastEmit = time.Now()
			emitted = true
		}

		if !emitted && time.Since(lastEmit) >= heartbeat {
			hb := Event{Status: status, Heartbeat: true}
			if hb.Status == "" {
				hb.Status = models.JobStatusRunning
			}
			if err := emit(hb); err != nil {
				return err
			}
			lastEmit = time.Now()
		}

		if models.TerminalStatus(status) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// decodeProgress passes stored JSON through untouched; anything else is
// forwarded as a JSON string.
func decodeProgress(raw string) json.RawMessage {
	if raw == "" {
		return nil
	}
	if json.Valid([]byte(raw)) {
		return json.RawMessage(raw)
	}
	quoted, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	return json.RawMessage(quoted)
}
