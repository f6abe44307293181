package models

// Job は非同期生成ジョブの現在のスナップショット
type Job struct {
	JobID     string         `json:"job_id"`
	Status    string         `json:"status"`
	Progress  map[string]any `json:"progress,omitempty"`
	ResultRef string         `json:"result_ref,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// ジョブステータス
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// TerminalStatus はジョブが終了状態かどうかを返す
func TerminalStatus(status string) bool {
	return status == JobStatusCompleted || status == JobStatusFailed
}

// GenerationRequest はセッション生成リクエスト
type GenerationRequest struct {
	ContentKind     string `json:"content_kind"`
	DurationMinutes int    `json:"duration_minutes"`
	Difficulty      string `json:"difficulty"`
	Theme           string `json:"theme"`
}

// ApplyDefaults は未指定のフィールドに既定値を設定する
func (r *GenerationRequest) ApplyDefaults() {
	if r.ContentKind == "" {
		r.ContentKind = "mindfulness"
	}
	if r.DurationMinutes <= 0 {
		r.DurationMinutes = 8
	}
	if r.Difficulty == "" {
		r.Difficulty = "beginner"
	}
	if r.Theme == "" {
		r.Theme = "clarity and peace"
	}
}
