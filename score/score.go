// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package score

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/danielhkuo/quickly-rank/models"
)

// Score range
const (
	MaxScore = 10.0
	MinScore = 0.0
)

// DefaultSentimentBias is the fraction of one position step a sentiment tag moves the score
const DefaultSentimentBias = 0.25

// DefaultMinRankedForScore is how many items a user must rank before scores are shown
const DefaultMinRankedForScore = 10

var (
	ErrInvalidTotal    = errors.New("total must be at least 1")
	ErrInvalidPosition = errors.New("position out of range")
	ErrInvalidBias     = errors.New("sentiment bias must be in [0, 0.5)")
)

// Scale derives display scores from list positions.
type Scale struct {
	// SentimentBias is a fraction of the gap between adjacent positions.
	// Must stay below 0.5 so two adjacent tagged items can never swap order.
	SentimentBias float64
}

// DefaultScale uses DefaultSentimentBias
var DefaultScale = Scale{SentimentBias: DefaultSentimentBias}

// NewScale validates bias and returns a Scale
func NewScale(bias float64) (Scale, error) {
	if bias < 0 || bias >= 0.5 {
		return Scale{}, fmt.Errorf("%w: got %v", ErrInvalidBias, bias)
	}
	return Scale{SentimentBias: bias}, nil
}

// Derive maps position within total to [MinScore, MaxScore].
// Position 1 scores MaxScore, position total scores MinScore (a single item scores MaxScore).
// Favored adds SentimentBias steps and disfavored subtracts them, clamped to the range.
func (s Scale) Derive(position, total int, sentiment models.Sentiment) (float64, error) {
	if total < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTotal, total)
	}
	if position < 1 || position > total {
		return 0, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidPosition, position, total)
	}

	step := MaxScore - MinScore
	base := MaxScore
	if total > 1 {
		step = (MaxScore - MinScore) / float64(total-1)
		base = MinScore + (MaxScore-MinScore)*float64(total-position)/float64(total-1)
	}

	switch sentiment {
	case models.SentimentFavored:
		base += s.SentimentBias * step
	case models.SentimentDisfavored:
		base -= s.SentimentBias * step
	}

	return clamp(base), nil
}

// DeriveScore uses DefaultScale
func DeriveScore(position, total int, sentiment models.Sentiment) (float64, error) {
	return DefaultScale.Derive(position, total, sentiment)
}

// FormatScore renders a score with one decimal place
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

// Unlocked reports whether a list of total items has enough rankings to show scores
func Unlocked(total, minRanked int) bool {
	return total >= minRanked
}

// Remaining returns how many more items must be ranked before scores unlock
func Remaining(total, minRanked int) int {
	if total >= minRanked {
		return 0
	}
	return minRanked - total
}

func clamp(v float64) float64 {
	if v > MaxScore {
		return MaxScore
	}
	if v < MinScore {
		return MinScore
	}
	return v
}
