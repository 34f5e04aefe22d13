// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/compare"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/store"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalidPosition),
		errors.Is(err, store.ErrEmptyID),
		errors.Is(err, store.ErrInvalidSentiment),
		errors.Is(err, compare.ErrUnknownBucket),
		errors.Is(err, compare.ErrUnknownResult),
		errors.Is(err, auth.ErrInvalidSession):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateItem),
		errors.Is(err, store.ErrConcurrentModification),
		errors.Is(err, compare.ErrSessionContractViolation):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError logs err and writes the mapped error response.
// Internal errors get a generic message so driver details stay in the logs.
func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("failed to "+action, "error", err, "request_id", middleware.GetRequestID(r.Context()))
		middleware.ErrorResponse(w, status, "Failed to "+action)
		return
	}

	slog.Debug("request rejected", "action", action, "status", status, "error", err)
	middleware.ErrorResponse(w, status, err.Error())
}
