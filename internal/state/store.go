// Package state holds the shared per-job key-value state.
//
// The store is a passive holder: per-key atomic set/get, no business logic.
// Each job id has exactly one writer (its execution goroutine) and any
// number of readers (status queries and stream sessions).
package state

import "sync"

// Store is an in-process key-value store for job state.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: make(map[string]string)}
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
}

// Get returns the value for key and whether it exists.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	v, ok := s.data[key]
	s.mu.RUnlock()
	return v, ok
}

// Key builders for the per-job entries.

func StatusKey(jobID string) string   { return "job:" + jobID + ":status" }
func ProgressKey(jobID string) string { return "job:" + jobID + ":progress" }
func ErrorKey(jobID string) string    { return "job:" + jobID + ":error" }
func ResultKey(jobID string) string   { return "job:" + jobID + ":result" }
