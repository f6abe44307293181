package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mokuso/internal/models"
)

// SessionRepository はセッションドキュメントのデータアクセス層
type SessionRepository struct {
	db *DB
}

// NewSessionRepository は新しいSessionRepositoryを作成
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Store はセッションをジョブIDに紐付けて永続化し、格納IDを返す
func (r *SessionRepository) Store(ctx context.Context, jobID string, session *models.Session) (string, error) {
	content, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}

	id := uuid.New().String()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, job_id, title, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, jobID, session.Title, string(content), time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return id, nil
}

// FetchByJobID はジョブIDでセッションを取得（存在しない場合は nil）
func (r *SessionRepository) FetchByJobID(ctx context.Context, jobID string) (*models.Session, error) {
	var content string
	err := r.db.QueryRowContext(ctx,
		`SELECT content FROM sessions WHERE job_id = ?`, jobID,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal([]byte(content), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}
