package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"mokuso/internal/jobs"
	"mokuso/internal/models"
	"mokuso/internal/stream"
)

// JobHandler はセッション生成ジョブAPIのハンドラー
type JobHandler struct {
	manager  *jobs.Manager
	sessions jobs.SessionStore
	streamer *stream.Streamer
}

// NewJobHandler は新しいJobHandlerを作成
func NewJobHandler(manager *jobs.Manager, sessions jobs.SessionStore, streamer *stream.Streamer) *JobHandler {
	return &JobHandler{manager: manager, sessions: sessions, streamer: streamer}
}

// Generate はジョブを受け付けて即座にジョブIDを返す
// POST /api/generate
func (h *JobHandler) Generate(c echo.Context) error {
	var req models.GenerationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	jobID := h.manager.Submit(req)
	return c.JSON(http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"status": models.JobStatusQueued,
	})
}

// Status はジョブの現在のスナップショットを返す
// GET /api/status/:id
func (h *JobHandler) Status(c echo.Context) error {
	job, err := h.manager.GetStatus(c.Param("id"))
	if errors.Is(err, jobs.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, job)
}

// Stream はジョブの状態変化を改行区切りJSONでプッシュする
// GET /api/status/stream/:id?heartbeat_seconds=5
func (h *JobHandler) Stream(c echo.Context) error {
	jobID := c.Param("id")
	if _, err := h.manager.GetStatus(jobID); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	heartbeat := 5 * time.Second
	if hb := c.QueryParam("heartbeat_seconds"); hb != "" {
		if v, err := strconv.Atoi(hb); err == nil && v > 0 {
			heartbeat = time.Duration(v) * time.Second
		}
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "application/x-ndjson")
	resp.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(resp)
	err := h.streamer.Run(c.Request().Context(), jobID, heartbeat, func(ev stream.Event) error {
		if err := enc.Encode(ev); err != nil {
			return err
		}
		resp.Flush()
		return nil
	})
	// 購読者の切断はエラーではない
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Result は永続化済みセッションドキュメントを返す
// GET /api/result/:id
func (h *JobHandler) Result(c echo.Context) error {
	ctx := c.Request().Context()

	session, err := h.sessions.FetchByJobID(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if session == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "result not found or not ready yet"})
	}
	return c.JSON(http.StatusOK, session)
}
