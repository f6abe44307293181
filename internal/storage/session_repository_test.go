package storage

import (
	"context"
	"path/filepath"
	"testing"

	"mokuso/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testSession() *models.Session {
	return &models.Session{
		Title:           "Clarity and Peace Meditation",
		DurationSeconds: 120,
		Theme:           "clarity and peace",
		Difficulty:      "beginner",
		BackgroundMusic: "Gentle ambient tones, minimal melody",
		Segments: []models.Segment{
			{
				Title:            "Opening",
				Type:             models.SegmentOpening,
				StartTimeSeconds: 0,
				EndTimeSeconds:   120,
				Actions: []models.Action{
					{
						Agent:            models.AgentVoice,
						Type:             models.ActionSpeak,
						StartTimeSeconds: 0,
						DurationSeconds:  20,
						Parameters:       map[string]any{"text": "Welcome."},
					},
				},
			},
		},
	}
}

func TestSessionRoundTrip(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	ref, err := repo.Store(ctx, "job-1", testSession())
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if ref == "" {
		t.Fatal("Store returned empty ref")
	}

	got, err := repo.FetchByJobID(ctx, "job-1")
	if err != nil {
		t.Fatalf("FetchByJobID failed: %v", err)
	}
	if got == nil {
		t.Fatal("stored session not found")
	}
	if got.Title != "Clarity and Peace Meditation" || got.DurationSeconds != 120 {
		t.Errorf("fetched session = %+v", got)
	}
	if len(got.Segments) != 1 || got.Segments[0].Actions[0].Parameters["text"] != "Welcome." {
		t.Errorf("segments did not survive the round trip: %+v", got.Segments)
	}
}

func TestFetchUnknownJob(t *testing.T) {
	repo := NewSessionRepository(testDB(t))

	got, err := repo.FetchByJobID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("FetchByJobID failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown job, got %+v", got)
	}
}

func TestStoreRejectsDuplicateJob(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	if _, err := repo.Store(ctx, "job-1", testSession()); err != nil {
		t.Fatalf("first Store failed: %v", err)
	}
	if _, err := repo.Store(ctx, "job-1", testSession()); err == nil {
		t.Error("expected unique constraint error for duplicate job id")
	}
}
