// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/handlers"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/session"
	"github.com/danielhkuo/quickly-rank/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the store, orchestrator and handlers. Store metrics are
// registered on reg and served at /metrics; a nil reg disables both.
func NewRouter(db *sql.DB, cfg cliparse.Config, reg *prometheus.Registry) (*http.ServeMux, error) {
	mux := http.NewServeMux()

	var metrics *store.Metrics
	if reg != nil {
		metrics = store.NewMetrics()
		if err := metrics.Register(reg); err != nil {
			return nil, err
		}
	}

	rankStore := store.New(db, store.Dialect(cfg.DatabaseType), metrics)
	orch := session.New(rankStore, cfg.CompareOptions())

	// Initialize handlers
	rankingHandler := handlers.NewRankingHandler(orch, cfg)
	interviewHandler := handlers.NewInterviewHandler(orch, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if reg != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	// Interviews
	mux.HandleFunc("POST /users/{user}/interviews", middleware.WithLogging(interviewHandler.BeginInterview))
	mux.HandleFunc("POST /interviews/triage", middleware.WithLogging(interviewHandler.SubmitTriage))
	mux.HandleFunc("POST /interviews/comparison", middleware.WithLogging(interviewHandler.SubmitComparison))

	// Ranked lists
	mux.HandleFunc("GET /users/{user}/rankings", middleware.WithLogging(rankingHandler.ListRankings))
	mux.HandleFunc("POST /users/{user}/rankings", middleware.WithLogging(rankingHandler.ConfirmRanking))
	mux.HandleFunc("DELETE /users/{user}/rankings/{item}", middleware.WithLogging(rankingHandler.RemoveRanking))
	mux.HandleFunc("PUT /users/{user}/rankings/{item}/position", middleware.WithLogging(rankingHandler.MoveRanking))
	mux.HandleFunc("PUT /users/{user}/rankings/{item}/sentiment", middleware.WithLogging(rankingHandler.SetSentiment))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-rank API v1"))
	})

	return mux, nil
}
