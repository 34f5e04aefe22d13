// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Rank API server.

Quickly Rank keeps a personal ordered list per user. New items are placed
by a short interview: an optional coarse triage question, then a binary
search of pairwise comparisons against items already ranked. Scores from
10 down to 0 are derived from position once a list is long enough.

# Starting the Server

SQLite is the default backend:

	SESSION_SALT=secret DATABASE_URL=rank.db go run .

Or with flags, against PostgreSQL:

	go run . -p 3318 -t postgres -d "postgres://..." -session-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - SESSION_SALT (-session-salt): Secret for sealing interview sessions

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - LOG_LEVEL (-log-level): debug, info, warn, error (default: info)
  - RANK_CONFIG (-c): YAML tuning file
  - -env-file: dotenv file to load first (default: .env)

Tuning (flag, env or YAML key):

  - -triage-threshold, TRIAGE_THRESHOLD, triage_threshold (default: 6)
  - -sentiment-bias, SENTIMENT_BIAS, sentiment_bias (default: 0.25)
  - -min-ranked, MIN_RANKED_FOR_SCORE, min_ranked_for_score (default: 10)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (rankings, interviews)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Request IDs, CORS, logging, JSON helpers
  - session: Interview orchestration over the store
  - compare: Interview state machine
  - score: Position to score derivation
  - store: Per-user ranked lists with dense positions
  - models: Domain and request/response types
  - auth: Session sealing and ID generation
  - db: Connection setup and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
