package state

import (
	"fmt"
	"sync"
	"testing"
)

func TestStoreSetGet(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	s.Set(StatusKey("a"), "queued")
	if v, ok := s.Get(StatusKey("a")); !ok || v != "queued" {
		t.Errorf("got (%q, %v), want (queued, true)", v, ok)
	}

	// Last write wins.
	s.Set(StatusKey("a"), "running")
	if v, _ := s.Get(StatusKey("a")); v != "running" {
		t.Errorf("got %q after overwrite, want running", v)
	}
}

func TestStoreKeysAreIndependent(t *testing.T) {
	s := NewStore()
	s.Set(StatusKey("a"), "completed")
	s.Set(ProgressKey("a"), `{"stage":"done"}`)

	if _, ok := s.Get(StatusKey("b")); ok {
		t.Error("job b should not see job a's status")
	}
	if _, ok := s.Get(ErrorKey("a")); ok {
		t.Error("error key should be unset")
	}
}

func TestStoreConcurrentReaders(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		id := fmt.Sprintf("job-%d", i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Set(StatusKey(id), "running")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Get(StatusKey(id))
			}
		}()
	}
	wg.Wait()
}
