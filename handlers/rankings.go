// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/score"
	"github.com/danielhkuo/quickly-rank/session"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

type RankingHandler struct {
	orch *session.Orchestrator
	cfg  cliparse.Config
}

func NewRankingHandler(orch *session.Orchestrator, cfg cliparse.Config) *RankingHandler {
	return &RankingHandler{orch: orch, cfg: cfg}
}

// ListRankings handles GET /users/{user}/rankings
func (h *RankingHandler) ListRankings(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user is required")
		return
	}

	items, err := h.orch.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "load rankings")
		return
	}

	h.writeList(w, r, http.StatusOK, userID, items)
}

// ConfirmRanking handles POST /users/{user}/rankings
func (h *RankingHandler) ConfirmRanking(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user")

	var req models.ConfirmRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ItemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "item_id is required")
		return
	}

	sentiment, err := models.ParseSentiment(req.Sentiment)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var items []models.RankedItem
	if req.Session != "" {
		sess, ok := openSession(w, r, req.Session, h.cfg.SessionSalt)
		if !ok {
			return
		}
		if sess.UserID != userID || sess.ItemID != req.ItemID {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Session does not match user and item")
			return
		}
		items, err = h.orch.ConfirmSession(r.Context(), sess, req.Position, sentiment)
	} else {
		items, err = h.orch.Confirm(r.Context(), userID, req.ItemID, req.Position, sentiment)
	}
	if err != nil {
		writeError(w, r, err, "confirm ranking")
		return
	}

	slog.Info("item ranked",
		"user_id", userID,
		"item_id", req.ItemID,
		"position", positionOf(items, req.ItemID),
		"total", len(items),
		"interviewed", req.Session != "",
	)

	h.writeList(w, r, http.StatusCreated, userID, items)
}

func positionOf(items []models.RankedItem, itemID string) int {
	for _, item := range items {
		if item.ItemID == itemID {
			return item.Position
		}
	}
	return 0
}

// RemoveRanking handles DELETE /users/{user}/rankings/{item}
func (h *RankingHandler) RemoveRanking(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user")
	itemID := r.PathValue("item")

	items, err := h.orch.Remove(r.Context(), userID, itemID)
	if err != nil {
		writeError(w, r, err, "remove ranking")
		return
	}

	slog.Info("item unranked", "user_id", userID, "item_id", itemID, "total", len(items))

	h.writeList(w, r, http.StatusOK, userID, items)
}

// MoveRanking handles PUT /users/{user}/rankings/{item}/position
func (h *RankingHandler) MoveRanking(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user")
	itemID := r.PathValue("item")

	var req models.MoveRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	items, err := h.orch.Move(r.Context(), userID, itemID, req.Position)
	if err != nil {
		writeError(w, r, err, "move ranking")
		return
	}

	slog.Info("item moved", "user_id", userID, "item_id", itemID, "position", req.Position)

	h.writeList(w, r, http.StatusOK, userID, items)
}

// SetSentiment handles PUT /users/{user}/rankings/{item}/sentiment
func (h *RankingHandler) SetSentiment(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user")
	itemID := r.PathValue("item")

	var req models.SetSentimentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sentiment, err := models.ParseSentiment(req.Sentiment)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.orch.SetSentiment(r.Context(), userID, itemID, sentiment)
	if err != nil {
		writeError(w, r, err, "set sentiment")
		return
	}

	h.writeList(w, r, http.StatusOK, userID, items)
}

func (h *RankingHandler) writeList(w http.ResponseWriter, r *http.Request, status int, userID string, items []models.RankedItem) {
	resp, err := BuildRankingList(userID, items, h.cfg.Scale(), h.cfg.MinRankedForScore)
	if err != nil {
		writeError(w, r, err, "score rankings")
		return
	}
	middleware.JSONResponse(w, status, resp)
}

// BuildRankingList decorates items with ordinals and, once the list is long
// enough, derived scores. Items must be ordered by position.
func BuildRankingList(userID string, items []models.RankedItem, scale score.Scale, minRanked int) (models.RankingListResponse, error) {
	total := len(items)
	resp := models.RankingListResponse{
		UserID:         userID,
		Total:          total,
		ScoresUnlocked: score.Unlocked(total, minRanked),
		Rankings:       make([]models.RankingEntry, 0, total),
	}

	if !resp.ScoresUnlocked {
		remaining := score.Remaining(total, minRanked)
		resp.UnlockMessage = fmt.Sprintf("Rank %s to unlock scores",
			english.Plural(remaining, "more item", "more items"))
	}

	for _, item := range items {
		entry := models.RankingEntry{
			ItemID:    item.ItemID,
			Position:  item.Position,
			Ordinal:   humanize.Ordinal(item.Position),
			Sentiment: item.Sentiment,
		}

		if resp.ScoresUnlocked {
			s, err := scale.Derive(item.Position, total, item.Sentiment)
			if err != nil {
				return models.RankingListResponse{}, err
			}
			entry.Score = &s
			entry.ScoreDisplay = score.FormatScore(s)
		}

		resp.Rankings = append(resp.Rankings, entry)
	}

	return resp, nil
}
