// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/compare"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/session"
)

// InterviewHandler runs the comparison interview. Interview state is sealed
// into the session token returned with each step; nothing is stored.
type InterviewHandler struct {
	orch *session.Orchestrator
	cfg  cliparse.Config
}

func NewInterviewHandler(orch *session.Orchestrator, cfg cliparse.Config) *InterviewHandler {
	return &InterviewHandler{orch: orch, cfg: cfg}
}

// BeginInterview handles POST /users/{user}/interviews
func (h *InterviewHandler) BeginInterview(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user")

	var req models.BeginInterviewRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ItemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "item_id is required")
		return
	}

	step, err := h.orch.Begin(r.Context(), userID, req.ItemID)
	if err != nil {
		writeError(w, r, err, "begin interview")
		return
	}

	slog.Info("interview started",
		"user_id", userID,
		"item_id", req.ItemID,
		"session_id", step.Session.ID,
		"kind", step.Kind,
		"list_size", len(step.Session.Snapshot),
	)

	h.writeStep(w, r, http.StatusCreated, step)
}

// SubmitTriage handles POST /interviews/triage
func (h *InterviewHandler) SubmitTriage(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitTriageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	bucket, err := compare.ParseBucket(req.Bucket)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := openSession(w, r, req.Session, h.cfg.SessionSalt)
	if !ok {
		return
	}

	step, err := h.orch.SubmitTriage(sess, bucket)
	if err != nil {
		writeError(w, r, err, "submit triage")
		return
	}

	h.writeStep(w, r, http.StatusOK, step)
}

// SubmitComparison handles POST /interviews/comparison
func (h *InterviewHandler) SubmitComparison(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitComparisonRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := compare.ParseResult(req.Result)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, ok := openSession(w, r, req.Session, h.cfg.SessionSalt)
	if !ok {
		return
	}

	step, err := h.orch.SubmitComparison(sess, result)
	if err != nil {
		writeError(w, r, err, "submit comparison")
		return
	}

	h.writeStep(w, r, http.StatusOK, step)
}

func openSession(w http.ResponseWriter, r *http.Request, token, salt string) (session.Session, bool) {
	if token == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session is required")
		return session.Session{}, false
	}

	var sess session.Session
	if err := auth.OpenSession(token, salt, &sess); err != nil {
		slog.Warn("rejected session token", "error", err, "request_id", middleware.GetRequestID(r.Context()))
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid session")
		return session.Session{}, false
	}
	return sess, true
}

func (h *InterviewHandler) writeStep(w http.ResponseWriter, r *http.Request, status int, step session.Step) {
	resp := models.InterviewStepResponse{
		Kind:            step.Kind,
		CandidateItemID: step.CandidateItemID,
		QuestionNumber:  step.QuestionNumber,
		EstimatedTotal:  step.EstimatedTotal,
		Position:        step.Position,
	}

	token, err := auth.SealSession(step.Session, h.cfg.SessionSalt)
	if err != nil {
		writeError(w, r, err, "seal session")
		return
	}
	resp.Session = token

	if step.Finished() {
		slog.Debug("interview finished", "session_id", step.Session.ID, "position", step.Position)
	}

	middleware.JSONResponse(w, status, resp)
}
