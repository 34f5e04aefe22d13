// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compare

import (
	"errors"
	"fmt"
	"math/bits"
)

// Phase tags the current interview step
type Phase string

const (
	PhaseImmediate Phase = "immediate"
	PhaseTriage    Phase = "triage"
	PhaseComparing Phase = "comparing"
	PhaseDone      Phase = "done"
)

// Bucket is a coarse self-report that narrows the search range
type Bucket string

const (
	BucketFavored   Bucket = "favored"
	BucketMiddling  Bucket = "middling"
	BucketUnfavored Bucket = "unfavored"
)

// Result is the answer to one pairwise comparison
type Result string

const (
	NewIsBetter      Result = "new_is_better"
	ExistingIsBetter Result = "existing_is_better"
)

// DefaultTriageThreshold is the list size at which triage is offered
const DefaultTriageThreshold = 6

// MinTriageThreshold keeps every triage bucket non-empty
const MinTriageThreshold = 3

var (
	ErrSessionContractViolation = errors.New("session contract violation")
	ErrUnknownBucket            = errors.New("unknown triage bucket")
	ErrUnknownResult            = errors.New("unknown comparison result")
	ErrInvalidThreshold         = errors.New("triage threshold too small")
)

// State is the value-typed interview state. Every step takes a State
// and returns a new one; nothing is mutated in place.
//
// Low and High bound the closed range of existing positions still under
// consideration. Mid is the position being compared against.
type State struct {
	Phase          Phase `json:"phase"`
	Total          int   `json:"total"`
	Low            int   `json:"low"`
	High           int   `json:"high"`
	Mid            int   `json:"mid"`
	QuestionNumber int   `json:"question_number"`
	EstimatedTotal int   `json:"estimated_total"`
	Position       int   `json:"position,omitempty"`
}

// Finished reports whether the insertion position is known
func (s State) Finished() bool {
	return s.Phase == PhaseImmediate || s.Phase == PhaseDone
}

// Options tunes the controller
type Options struct {
	TriageThreshold int
}

// DefaultOptions returns the stock tuning
func DefaultOptions() Options {
	return Options{TriageThreshold: DefaultTriageThreshold}
}

// Validate checks option bounds
func (o Options) Validate() error {
	if o.TriageThreshold < MinTriageThreshold {
		return fmt.Errorf("%w: %d (minimum %d)", ErrInvalidThreshold, o.TriageThreshold, MinTriageThreshold)
	}
	return nil
}

// Begin starts an interview for inserting one item into a list of total items
func (o Options) Begin(total int) (State, error) {
	if err := o.Validate(); err != nil {
		return State{}, err
	}
	if total < 0 {
		return State{}, fmt.Errorf("%w: negative list size %d", ErrSessionContractViolation, total)
	}

	switch {
	case total == 0:
		return State{Phase: PhaseImmediate, Total: 0, Low: 1, High: 0, Position: 1}, nil

	case total >= o.TriageThreshold:
		widest := 0
		for _, b := range []Bucket{BucketFavored, BucketMiddling, BucketUnfavored} {
			low, high, _ := TriageRange(b, total)
			if span := high - low + 1; span > widest {
				widest = span
			}
		}
		return State{
			Phase:          PhaseTriage,
			Total:          total,
			Low:            1,
			High:           total,
			QuestionNumber: 1,
			EstimatedTotal: 1 + EstimateQuestions(1, widest),
		}, nil

	default:
		return comparing(State{
			Total:          total,
			Low:            1,
			High:           total,
			QuestionNumber: 1,
			EstimatedTotal: EstimateQuestions(1, total),
		}), nil
	}
}

// SubmitTriage narrows the range to the chosen bucket
func SubmitTriage(s State, bucket Bucket) (State, error) {
	if s.Phase != PhaseTriage {
		return State{}, fmt.Errorf("%w: triage answer in phase %q", ErrSessionContractViolation, s.Phase)
	}
	if err := s.check(); err != nil {
		return State{}, err
	}

	low, high, err := TriageRange(bucket, s.Total)
	if err != nil {
		return State{}, err
	}

	next := s
	next.Low = low
	next.High = high
	next.QuestionNumber = s.QuestionNumber + 1
	if low > high {
		return done(next), nil
	}
	return comparing(next), nil
}

// SubmitComparison applies one pairwise answer against the item at Mid
func SubmitComparison(s State, result Result) (State, error) {
	if s.Phase != PhaseComparing {
		return State{}, fmt.Errorf("%w: comparison answer in phase %q", ErrSessionContractViolation, s.Phase)
	}
	if err := s.check(); err != nil {
		return State{}, err
	}
	if s.Low > s.High {
		return State{}, fmt.Errorf("%w: range [%d, %d] already exhausted", ErrSessionContractViolation, s.Low, s.High)
	}

	next := s
	switch result {
	case NewIsBetter:
		next.High = s.Mid - 1
	case ExistingIsBetter:
		next.Low = s.Mid + 1
	default:
		return State{}, fmt.Errorf("%w: %q", ErrUnknownResult, result)
	}

	if next.Low > next.High {
		return done(next), nil
	}
	next.QuestionNumber = s.QuestionNumber + 1
	return comparing(next), nil
}

// TriageRange maps a bucket to a closed sub-range of [1, total].
// The list splits at floor(total/3) and floor(2*total/3).
func TriageRange(bucket Bucket, total int) (low, high int, err error) {
	first := total / 3
	second := 2 * total / 3

	switch bucket {
	case BucketFavored:
		return 1, first, nil
	case BucketMiddling:
		return first + 1, second, nil
	case BucketUnfavored:
		return second + 1, total, nil
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
}

// EstimateQuestions returns ceil(log2(high-low+2)), the worst case number
// of comparisons needed to place an item in [low, high+1]
func EstimateQuestions(low, high int) int {
	n := high - low + 1
	if n <= 0 {
		return 0
	}
	// ceil(log2(n+1)) == bit length of n
	return bits.Len(uint(n))
}

// ParseBucket validates a raw bucket name
func ParseBucket(raw string) (Bucket, error) {
	b := Bucket(raw)
	switch b {
	case BucketFavored, BucketMiddling, BucketUnfavored:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBucket, raw)
}

// ParseResult validates a raw comparison result
func ParseResult(raw string) (Result, error) {
	r := Result(raw)
	switch r {
	case NewIsBetter, ExistingIsBetter:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResult, raw)
}

func comparing(s State) State {
	s.Phase = PhaseComparing
	s.Mid = (s.Low + s.High) / 2
	return s
}

func done(s State) State {
	s.Phase = PhaseDone
	s.Position = s.Low
	s.Mid = 0
	return s
}

// check rejects states that could not have come from Begin
func (s State) check() error {
	if s.Total < 1 || s.Low < 1 || s.High > s.Total || s.Low > s.High+1 {
		return fmt.Errorf("%w: inconsistent range [%d, %d] of %d", ErrSessionContractViolation, s.Low, s.High, s.Total)
	}
	if s.Phase == PhaseComparing && (s.Mid < s.Low || s.Mid > s.High) {
		return fmt.Errorf("%w: mid %d outside [%d, %d]", ErrSessionContractViolation, s.Mid, s.Low, s.High)
	}
	return nil
}
