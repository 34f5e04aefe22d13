// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Rank API.

# Handler Types

Each handler is a struct with orchestrator and config dependencies:

  - RankingHandler: List, confirm, remove, move and retag ranked items
  - InterviewHandler: Begin an interview and answer its questions

Handlers are created via constructor functions:

	orch := session.New(rankStore, cfg.CompareOptions())
	rankingHandler := handlers.NewRankingHandler(orch, cfg)

# Interview Flow

	POST /users/{user}/interviews  → BeginInterview (returns first step)
	POST /interviews/triage        → SubmitTriage (favored, middling, unfavored)
	POST /interviews/comparison    → SubmitComparison (new_is_better, existing_is_better)
	POST /users/{user}/rankings    → ConfirmRanking (commit at the final position)

Every step carries a session token sealed with SESSION_SALT. The client
sends it back with the next answer. Once a step is immediate or done, the
client confirms with that token; the commit fails with 409 if the list
changed since the interview began.

# Ranked Lists

	GET    /users/{user}/rankings                   → ListRankings
	DELETE /users/{user}/rankings/{item}            → RemoveRanking
	PUT    /users/{user}/rankings/{item}/position   → MoveRanking
	PUT    /users/{user}/rankings/{item}/sentiment  → SetSentiment

Every write responds with the whole list. Scores appear once a user has
ranked at least MinRankedForScore items; until then the response carries
an unlock message instead.

# Errors

Domain errors map to status codes:

	400  invalid position, bad bucket/result/sentiment, invalid session
	404  item not ranked
	409  duplicate item, concurrent modification, session contract violation
	500  anything else
*/
package handlers
