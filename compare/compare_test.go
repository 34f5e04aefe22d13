// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compare

import (
	"errors"
	"math/bits"
	"testing"
)

// answerFor simulates a consistent user whose new item truly belongs at target
func answerFor(target, mid int) Result {
	if mid >= target {
		return NewIsBetter
	}
	return ExistingIsBetter
}

// bucketFor picks a triage bucket consistent with target
func bucketFor(t *testing.T, target, total int) Bucket {
	t.Helper()
	for _, b := range []Bucket{BucketFavored, BucketMiddling, BucketUnfavored} {
		low, high, err := TriageRange(b, total)
		if err != nil {
			t.Fatal(err)
		}
		if target >= low && target <= high+1 {
			return b
		}
	}
	t.Fatalf("no bucket contains target %d of %d", target, total)
	return ""
}

func TestBeginEmptyList(t *testing.T) {
	s, err := DefaultOptions().Begin(0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseImmediate {
		t.Errorf("expected immediate, got %s", s.Phase)
	}
	if !s.Finished() || s.Position != 1 {
		t.Errorf("expected finished at position 1, got %+v", s)
	}
}

func TestSingleItemList(t *testing.T) {
	tests := []struct {
		name     string
		answer   Result
		expected int
	}{
		{"new is better lands first", NewIsBetter, 1},
		{"existing is better lands second", ExistingIsBetter, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DefaultOptions().Begin(1)
			if err != nil {
				t.Fatal(err)
			}
			if s.Phase != PhaseComparing || s.Mid != 1 || s.EstimatedTotal != 1 {
				t.Fatalf("unexpected start state %+v", s)
			}

			s, err = SubmitComparison(s, tt.answer)
			if err != nil {
				t.Fatal(err)
			}
			if s.Phase != PhaseDone || s.Position != tt.expected {
				t.Errorf("expected done at %d, got %+v", tt.expected, s)
			}
		})
	}
}

func TestTriageNarrowsRange(t *testing.T) {
	s, err := DefaultOptions().Begin(6)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseTriage {
		t.Fatalf("expected triage for 6 items, got %s", s.Phase)
	}

	s, err = SubmitTriage(s, BucketFavored)
	if err != nil {
		t.Fatal(err)
	}
	if s.Low != 1 || s.High != 2 {
		t.Errorf("expected range [1, 2], got [%d, %d]", s.Low, s.High)
	}
	if s.Phase != PhaseComparing || s.QuestionNumber != 2 {
		t.Errorf("expected first comparison as question 2, got %+v", s)
	}
}

func TestTriageRange(t *testing.T) {
	tests := []struct {
		bucket    Bucket
		total     int
		low, high int
	}{
		{BucketFavored, 6, 1, 2},
		{BucketMiddling, 6, 3, 4},
		{BucketUnfavored, 6, 5, 6},
		{BucketFavored, 10, 1, 3},
		{BucketMiddling, 10, 4, 6},
		{BucketUnfavored, 10, 7, 10},
	}

	for _, tt := range tests {
		low, high, err := TriageRange(tt.bucket, tt.total)
		if err != nil {
			t.Fatal(err)
		}
		if low != tt.low || high != tt.high {
			t.Errorf("TriageRange(%s, %d) = [%d, %d], want [%d, %d]",
				tt.bucket, tt.total, low, high, tt.low, tt.high)
		}
	}

	if _, _, err := TriageRange("lukewarm", 6); !errors.Is(err, ErrUnknownBucket) {
		t.Errorf("expected ErrUnknownBucket, got %v", err)
	}
}

func TestTriageSkippedBelowThreshold(t *testing.T) {
	opts := Options{TriageThreshold: 8}
	s, err := opts.Begin(7)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phase != PhaseComparing {
		t.Errorf("expected direct comparison below threshold, got %s", s.Phase)
	}
	if s.EstimatedTotal != 3 {
		t.Errorf("expected estimate 3 for 7 items, got %d", s.EstimatedTotal)
	}
}

func TestInsertionCorrectness(t *testing.T) {
	for _, threshold := range []int{MinTriageThreshold, DefaultTriageThreshold, 1000} {
		opts := Options{TriageThreshold: threshold}
		for total := 0; total <= 40; total++ {
			for target := 1; target <= total+1; target++ {
				s, err := opts.Begin(total)
				if err != nil {
					t.Fatal(err)
				}

				limit := bits.Len(uint(total))
				if s.Phase == PhaseTriage {
					s, err = SubmitTriage(s, bucketFor(t, target, total))
					if err != nil {
						t.Fatal(err)
					}
				}

				comparisons := 0
				for !s.Finished() {
					s, err = SubmitComparison(s, answerFor(target, s.Mid))
					if err != nil {
						t.Fatalf("total=%d target=%d: %v", total, target, err)
					}
					comparisons++
				}

				if s.Position != target {
					t.Errorf("threshold=%d total=%d: expected position %d, got %d",
						threshold, total, target, s.Position)
				}
				if comparisons > limit {
					t.Errorf("threshold=%d total=%d target=%d: %d comparisons exceeds %d",
						threshold, total, target, comparisons, limit)
				}
			}
		}
	}
}

func TestEstimateQuestions(t *testing.T) {
	tests := []struct {
		low, high, expected int
	}{
		{1, 0, 0},
		{1, 1, 1},
		{1, 2, 2},
		{1, 3, 2},
		{1, 4, 3},
		{1, 7, 3},
		{1, 8, 4},
		{5, 6, 2},
	}
	for _, tt := range tests {
		if got := EstimateQuestions(tt.low, tt.high); got != tt.expected {
			t.Errorf("EstimateQuestions(%d, %d) = %d, want %d", tt.low, tt.high, got, tt.expected)
		}
	}
}

func TestContractViolations(t *testing.T) {
	finished, err := DefaultOptions().Begin(0)
	if err != nil {
		t.Fatal(err)
	}

	comparing, err := DefaultOptions().Begin(3)
	if err != nil {
		t.Fatal(err)
	}

	triage, err := DefaultOptions().Begin(9)
	if err != nil {
		t.Fatal(err)
	}

	done, err := SubmitComparison(State{Phase: PhaseComparing, Total: 1, Low: 1, High: 1, Mid: 1}, NewIsBetter)
	if err != nil {
		t.Fatal(err)
	}

	tampered := comparing
	tampered.Mid = 7

	tests := []struct {
		name string
		call func() error
	}{
		{"comparison after immediate", func() error { _, err := SubmitComparison(finished, NewIsBetter); return err }},
		{"comparison after done", func() error { _, err := SubmitComparison(done, ExistingIsBetter); return err }},
		{"comparison during triage", func() error { _, err := SubmitComparison(triage, NewIsBetter); return err }},
		{"triage during comparison", func() error { _, err := SubmitTriage(comparing, BucketFavored); return err }},
		{"mid outside range", func() error { _, err := SubmitComparison(tampered, NewIsBetter); return err }},
		{"exhausted range", func() error {
			_, err := SubmitComparison(State{Phase: PhaseComparing, Total: 3, Low: 2, High: 1, Mid: 1}, NewIsBetter)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrSessionContractViolation) {
				t.Errorf("expected ErrSessionContractViolation, got %v", err)
			}
		})
	}
}

func TestStepsDoNotMutateInput(t *testing.T) {
	s, err := DefaultOptions().Begin(5)
	if err != nil {
		t.Fatal(err)
	}
	before := s

	if _, err := SubmitComparison(s, NewIsBetter); err != nil {
		t.Fatal(err)
	}
	if s != before {
		t.Errorf("input state changed: %+v -> %+v", before, s)
	}
}

func TestInvalidThreshold(t *testing.T) {
	if _, err := (Options{TriageThreshold: 2}).Begin(4); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("expected ErrInvalidThreshold, got %v", err)
	}
}

func TestParse(t *testing.T) {
	if _, err := ParseBucket("middling"); err != nil {
		t.Errorf("middling should parse: %v", err)
	}
	if _, err := ParseBucket("great"); !errors.Is(err, ErrUnknownBucket) {
		t.Errorf("expected ErrUnknownBucket, got %v", err)
	}
	if _, err := ParseResult("existing_is_better"); err != nil {
		t.Errorf("existing_is_better should parse: %v", err)
	}
	if _, err := ParseResult("tie"); !errors.Is(err, ErrUnknownResult) {
		t.Errorf("expected ErrUnknownResult, got %v", err)
	}
}
