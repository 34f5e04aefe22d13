// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Rank API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	reg := prometheus.NewRegistry()
	mux, err := router.NewRouter(db, cfg, reg)

# Endpoints

Operations:

	GET /health  - Database ping
	GET /metrics - Prometheus metrics (when a registry is given)

Interviews:

	POST /users/{user}/interviews - Start placing an item
	POST /interviews/triage       - Answer the coarse bucket question
	POST /interviews/comparison   - Answer one pairwise comparison

Ranked lists:

	GET    /users/{user}/rankings                  - List with ordinals and scores
	POST   /users/{user}/rankings                  - Confirm an item at a position
	DELETE /users/{user}/rankings/{item}           - Unrank an item
	PUT    /users/{user}/rankings/{item}/position  - Move an item
	PUT    /users/{user}/rankings/{item}/sentiment - Change an item's sentiment

# Handler Initialization

The router builds one store and orchestrator and shares them:

	rankStore := store.New(db, store.Dialect(cfg.DatabaseType), metrics)
	orch := session.New(rankStore, cfg.CompareOptions())
	rankingHandler := handlers.NewRankingHandler(orch, cfg)
	interviewHandler := handlers.NewInterviewHandler(orch, cfg)
*/
package router
