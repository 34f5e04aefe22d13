// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - RankedItem: one row of a user's ranked list (user_id, item_id, position, sentiment)
  - Sentiment: optional annotation that biases the derived score

Positions are dense and 1-based: for a user with N ranked items the positions
are exactly 1..N, with 1 the most preferred.

# Request Types

  - BeginInterviewRequest: item_id
  - SubmitTriageRequest: session, bucket (favored, middling, unfavored)
  - SubmitComparisonRequest: session, result (new_is_better, existing_is_better)
  - ConfirmRequest: item_id, position, sentiment
  - MoveRequest: position
  - SetSentimentRequest: sentiment

# Response Types

  - InterviewStepResponse: kind, session, candidate_item_id, question_number, estimated_total, position
  - RankingListResponse: the ordered list with display scores
  - ErrorResponse: error, message

# Constants

Sentiment values:

	SentimentNeutral    = "neutral"
	SentimentFavored    = "favored"
	SentimentDisfavored = "disfavored"

Interview step kinds:

	StepImmediate  = "immediate"
	StepTriage     = "triage"
	StepComparison = "comparison"
	StepDone       = "done"
*/
package models
