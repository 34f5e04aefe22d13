// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package compare drives the pairwise interview that places a new item into an
existing ranked list.

The controller is pure: it works on positions only and never sees item
contents. Each call takes a State value and returns the next one, so the state
can be serialized, handed to a client, and brought back later.

# Phases

	immediate  empty list, position is 1, no questions
	triage     list has at least TriageThreshold items; ask favored/middling/unfavored
	comparing  compare the new item against the item at Mid
	done       Position holds the insertion point

A comparing step narrows [Low, High] exactly like a binary search for an
insertion point:

	new_is_better       High = Mid - 1
	existing_is_better  Low  = Mid + 1

The interview ends when Low > High and the insertion position is Low.

# Usage

	s, err := compare.DefaultOptions().Begin(len(list))
	for !s.Finished() {
		// ask the user about list[s.Mid-1]
		s, err = compare.SubmitComparison(s, answer)
	}
	insertAt := s.Position

Answers submitted to a finished or inconsistent state return
ErrSessionContractViolation.
*/
package compare
