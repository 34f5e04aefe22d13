package models

import (
	"encoding/json"
	"fmt"
)

// Sentiment is an optional per-ranking annotation (e.g. rooting interest)
type Sentiment string

// Sentiment constants. The empty value means no tag.
const (
	SentimentNone       Sentiment = ""
	SentimentNeutral    Sentiment = "neutral"
	SentimentFavored    Sentiment = "favored"
	SentimentDisfavored Sentiment = "disfavored"
)

// Valid reports whether s is a known sentiment (including none)
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentNone, SentimentNeutral, SentimentFavored, SentimentDisfavored:
		return true
	}
	return false
}

// ParseSentiment validates a raw sentiment string
func ParseSentiment(raw string) (Sentiment, error) {
	s := Sentiment(raw)
	if !s.Valid() {
		return SentimentNone, fmt.Errorf("unknown sentiment %q", raw)
	}
	return s, nil
}

// Domain types

// RankedItem is one row of a user's ranked list. Position 1 is most preferred.
type RankedItem struct {
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	Position  int       `json:"position"`
	Sentiment Sentiment `json:"sentiment,omitempty"`
	RankedAt  int64     `json:"ranked_at"` // Unix timestamp
}

// Request types

type BeginInterviewRequest struct {
	ItemID string `json:"item_id"`
}

type SubmitTriageRequest struct {
	Session string `json:"session"`
	Bucket  string `json:"bucket"`
}

type SubmitComparisonRequest struct {
	Session string `json:"session"`
	Result  string `json:"result"`
}

// ConfirmRequest commits an item. With Session set, the list must be unchanged
// since the interview began and Position may be left zero.
type ConfirmRequest struct {
	ItemID    string `json:"item_id"`
	Position  int    `json:"position"`
	Sentiment string `json:"sentiment,omitempty"`
	Session   string `json:"session,omitempty"`
}

type MoveRequest struct {
	Position int `json:"position"`
}

type SetSentimentRequest struct {
	Sentiment string `json:"sentiment"`
}

// Response types

// Step kinds returned from the interview endpoints
const (
	StepImmediate  = "immediate"
	StepTriage     = "triage"
	StepComparison = "comparison"
	StepDone       = "done"
)

// InterviewStepResponse describes what the client should ask next.
// Once the interview is over, Session is the token to confirm with.
type InterviewStepResponse struct {
	Kind            string `json:"kind"`
	Session         string `json:"session,omitempty"`
	CandidateItemID string `json:"candidate_item_id,omitempty"`
	QuestionNumber  int    `json:"question_number,omitempty"`
	EstimatedTotal  int    `json:"estimated_total,omitempty"`
	Position        int    `json:"position,omitempty"`
}

// RankingEntry is a RankedItem decorated with display fields
type RankingEntry struct {
	ItemID       string    `json:"item_id"`
	Position     int       `json:"position"`
	Ordinal      string    `json:"ordinal"`
	Sentiment    Sentiment `json:"sentiment,omitempty"`
	Score        *float64  `json:"score,omitempty"`
	ScoreDisplay string    `json:"score_display,omitempty"`
}

type RankingListResponse struct {
	UserID         string         `json:"user_id"`
	Total          int            `json:"total"`
	ScoresUnlocked bool           `json:"scores_unlocked"`
	UnlockMessage  string         `json:"unlock_message,omitempty"`
	Rankings       []RankingEntry `json:"rankings"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UnmarshalJSON rejects unknown sentiment values at decode time
func (s *Sentiment) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSentiment(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
