// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session orchestrates a ranking interview from first question to commit.

	orch := session.New(rankStore, compare.DefaultOptions())

	step, err := orch.Begin(ctx, userID, itemID)
	for !step.Finished() {
		switch step.Kind {
		case models.StepTriage:
			step, err = orch.SubmitTriage(step.Session, bucket)
		case models.StepComparison:
			// ask: is itemID better than step.CandidateItemID?
			step, err = orch.SubmitComparison(step.Session, result)
		}
	}
	items, err := orch.ConfirmSession(ctx, step.Session, 0, sentiment)

The orchestrator holds no interview state. Each Step returns the Session
value the caller must hand back with the next answer, so an abandoned
interview leaves nothing behind. The HTTP layer seals the Session with
auth.SealSession before giving it to clients.

The Session snapshot is the list as it was when the interview began.
ConfirmSession commits only if the list still matches it; otherwise the
answers may no longer hold and store.ErrConcurrentModification is returned.
Confirm inserts at a caller-chosen position with no snapshot check.
*/
package session
