// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/danielhkuo/quickly-rank/compare"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
	"github.com/danielhkuo/quickly-rank/testutil"
	"github.com/google/go-cmp/cmp"
)

func newTestOrchestrator(t *testing.T) (*Orchestrator, *store.Store) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, store.DialectSQLite, nil)
	testutil.SeedRanking(t, conn, "empty")
	for _, n := range []int{1, 2, 5, 6, 10, 17} {
		testutil.SeedRanking(t, conn, fmt.Sprintf("u%d", n), testutil.ItemIDs("item", n)...)
	}
	return New(s, compare.DefaultOptions()), s
}

// answer plays a user who wants the new item at target
func answer(t *testing.T, o *Orchestrator, step Step, target int) Step {
	t.Helper()

	for i := 0; !step.Finished(); i++ {
		if i > 64 {
			t.Fatal("interview did not finish")
		}

		var err error
		switch step.Kind {
		case models.StepTriage:
			total := step.Session.State.Total
			bucket := compare.BucketUnfavored
			switch {
			case target <= total/3:
				bucket = compare.BucketFavored
			case target <= 2*total/3:
				bucket = compare.BucketMiddling
			}
			step, err = o.SubmitTriage(step.Session, bucket)

		case models.StepComparison:
			mid := step.Session.State.Mid
			if step.CandidateItemID != step.Session.Snapshot[mid-1] {
				t.Fatalf("candidate %s is not snapshot[%d]", step.CandidateItemID, mid-1)
			}
			result := compare.ExistingIsBetter
			if target <= mid {
				result = compare.NewIsBetter
			}
			step, err = o.SubmitComparison(step.Session, result)

		default:
			t.Fatalf("unexpected step kind %q", step.Kind)
		}
		if err != nil {
			t.Fatalf("submit error = %v", err)
		}
	}
	return step
}

func TestInterviewFindsEveryPosition(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	for _, n := range []int{1, 2, 5, 6, 10, 17} {
		userID := fmt.Sprintf("u%d", n)
		for target := 1; target <= n+1; target++ {
			t.Run(fmt.Sprintf("%s/target%d", userID, target), func(t *testing.T) {
				step, err := o.Begin(ctx, userID, "new")
				if err != nil {
					t.Fatalf("Begin() error = %v", err)
				}

				wantKind := models.StepComparison
				if n >= compare.DefaultTriageThreshold {
					wantKind = models.StepTriage
				}
				if step.Kind != wantKind {
					t.Errorf("first step = %q, want %q", step.Kind, wantKind)
				}
				if step.QuestionNumber != 1 {
					t.Errorf("first question number = %d, want 1", step.QuestionNumber)
				}

				final := answer(t, o, step, target)
				if final.Kind != models.StepDone {
					t.Errorf("final step = %q, want done", final.Kind)
				}
				if final.Position != target {
					t.Errorf("final position = %d, want %d", final.Position, target)
				}
			})
		}
	}
}

func TestBeginEmptyListIsImmediate(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	step, err := o.Begin(context.Background(), "empty", "first")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if step.Kind != models.StepImmediate || step.Position != 1 {
		t.Errorf("Begin() = %+v, want immediate at 1", step)
	}
	if !step.Finished() {
		t.Error("immediate step should be finished")
	}
}

func TestBeginSnapshotsList(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	step, err := o.Begin(context.Background(), "u5", "new")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(testutil.ItemIDs("item", 5), step.Session.Snapshot); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if step.Session.ID == "" {
		t.Error("Expected a session ID")
	}
	if step.Session.UserID != "u5" || step.Session.ItemID != "new" {
		t.Errorf("session identity = %s/%s", step.Session.UserID, step.Session.ItemID)
	}
	// [1,5] has mid 3
	if step.CandidateItemID != "item3" {
		t.Errorf("first candidate = %s, want item3", step.CandidateItemID)
	}
}

func TestBeginErrors(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	tests := []struct {
		name    string
		userID  string
		itemID  string
		wantErr error
	}{
		{"already ranked", "u5", "item2", store.ErrDuplicateItem},
		{"empty user", "", "new", store.ErrEmptyID},
		{"empty item", "u5", "", store.ErrEmptyID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Begin(context.Background(), tt.userID, tt.itemID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Begin() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitRejectsTamperedSessions(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	step, err := o.Begin(context.Background(), "u10", "new")
	if err != nil {
		t.Fatal(err)
	}

	truncated := step.Session
	truncated.Snapshot = truncated.Snapshot[:4]

	anonymous := step.Session
	anonymous.UserID = ""

	tests := []struct {
		name   string
		submit func() (Step, error)
	}{
		{"snapshot shorter than state", func() (Step, error) {
			return o.SubmitTriage(truncated, compare.BucketFavored)
		}},
		{"missing user", func() (Step, error) {
			return o.SubmitTriage(anonymous, compare.BucketFavored)
		}},
		{"comparison during triage", func() (Step, error) {
			return o.SubmitComparison(step.Session, compare.NewIsBetter)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.submit()
			if !errors.Is(err, compare.ErrSessionContractViolation) {
				t.Errorf("error = %v, want ErrSessionContractViolation", err)
			}
		})
	}
}

func TestSubmitDoesNotMutateCallerSession(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	step, err := o.Begin(context.Background(), "u10", "new")
	if err != nil {
		t.Fatal(err)
	}
	before := step.Session
	snapshot := slices.Clone(before.Snapshot)

	if _, err := o.SubmitTriage(step.Session, compare.BucketMiddling); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(before.State, step.Session.State); diff != "" {
		t.Errorf("caller state changed (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(snapshot, step.Session.Snapshot); diff != "" {
		t.Errorf("caller snapshot changed (-before +after):\n%s", diff)
	}
}

func TestInterviewThenConfirm(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	step, err := o.Begin(ctx, "u10", "new")
	if err != nil {
		t.Fatal(err)
	}
	final := answer(t, o, step, 4)

	items, err := o.Confirm(ctx, "u10", "new", final.Position, models.SentimentFavored)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if len(items) != 11 {
		t.Fatalf("Expected 11 items, got %d", len(items))
	}
	if items[3].ItemID != "new" || items[3].Sentiment != models.SentimentFavored {
		t.Errorf("position 4 = %+v", items[3])
	}

	// A second interview for the same item is refused
	if _, err := o.Begin(ctx, "u10", "new"); !errors.Is(err, store.ErrDuplicateItem) {
		t.Errorf("Begin() after confirm error = %v, want ErrDuplicateItem", err)
	}
}

func TestConfirmAfterListShrank(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	step, err := o.Begin(ctx, "u2", "new")
	if err != nil {
		t.Fatal(err)
	}
	final := answer(t, o, step, 3)

	// The list changes while the interview is open
	if _, err := o.Remove(ctx, "u2", "item1"); err != nil {
		t.Fatal(err)
	}

	_, err = o.Confirm(ctx, "u2", "new", final.Position, models.SentimentNone)
	if !errors.Is(err, store.ErrInvalidPosition) {
		t.Errorf("Confirm() error = %v, want ErrInvalidPosition", err)
	}
}

func TestConfirmSessionAfterListGrew(t *testing.T) {
	o, s := newTestOrchestrator(t)
	ctx := context.Background()

	step, err := o.Begin(ctx, "u5", "new")
	if err != nil {
		t.Fatal(err)
	}
	// The user ranks new below item1
	final := answer(t, o, step, 2)
	if final.Position != 2 {
		t.Fatalf("Expected position 2, got %d", final.Position)
	}

	// Another item lands on top while the interview is open
	if _, err := o.Confirm(ctx, "u5", "other", 1, models.SentimentNone); err != nil {
		t.Fatal(err)
	}

	// Position 2 is still in range but would put new above item1
	_, err = o.ConfirmSession(ctx, final.Session, 0, models.SentimentNone)
	if !errors.Is(err, store.ErrConcurrentModification) {
		t.Fatalf("ConfirmSession() error = %v, want ErrConcurrentModification", err)
	}

	items, err := s.List(ctx, "u5")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"other", "item1", "item2", "item3", "item4", "item5"}
	got := make([]string, len(items))
	for i, item := range items {
		got[i] = item.ItemID
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("list changed by rejected confirm (-want +got):\n%s", diff)
	}
}

func TestConfirmSession(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	step, err := o.Begin(ctx, "u6", "new")
	if err != nil {
		t.Fatal(err)
	}
	final := answer(t, o, step, 5)

	t.Run("unfinished interview", func(t *testing.T) {
		_, err := o.ConfirmSession(ctx, step.Session, 0, models.SentimentNone)
		if !errors.Is(err, compare.ErrSessionContractViolation) {
			t.Errorf("ConfirmSession() error = %v, want ErrSessionContractViolation", err)
		}
	})

	t.Run("position contradicts answers", func(t *testing.T) {
		_, err := o.ConfirmSession(ctx, final.Session, 1, models.SentimentNone)
		if !errors.Is(err, compare.ErrSessionContractViolation) {
			t.Errorf("ConfirmSession() error = %v, want ErrSessionContractViolation", err)
		}
	})

	t.Run("unchanged list", func(t *testing.T) {
		items, err := o.ConfirmSession(ctx, final.Session, 5, models.SentimentFavored)
		if err != nil {
			t.Fatalf("ConfirmSession() error = %v", err)
		}
		if items[4].ItemID != "new" || items[4].Sentiment != models.SentimentFavored {
			t.Errorf("position 5 = %+v", items[4])
		}
	})

	t.Run("replayed confirm", func(t *testing.T) {
		_, err := o.ConfirmSession(ctx, final.Session, 0, models.SentimentNone)
		if !errors.Is(err, store.ErrConcurrentModification) {
			t.Errorf("ConfirmSession() error = %v, want ErrConcurrentModification", err)
		}
	})
}

func TestConfirmSessionEmptyList(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	step, err := o.Begin(ctx, "fresh", "first")
	if err != nil {
		t.Fatal(err)
	}
	if !step.Finished() {
		t.Fatalf("Expected immediate step, got %q", step.Kind)
	}

	items, err := o.ConfirmSession(ctx, step.Session, 0, models.SentimentNone)
	if err != nil {
		t.Fatalf("ConfirmSession() error = %v", err)
	}
	if len(items) != 1 || items[0].Position != 1 {
		t.Errorf("Expected first at 1, got %+v", items)
	}
}

func TestPassThroughOperations(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	items, err := o.Move(ctx, "u5", "item5", 1)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].ItemID != "item5" {
		t.Errorf("Move() top = %s, want item5", items[0].ItemID)
	}

	items, err = o.SetSentiment(ctx, "u5", "item5", models.SentimentNeutral)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Sentiment != models.SentimentNeutral {
		t.Errorf("SetSentiment() = %q", items[0].Sentiment)
	}

	if _, err := o.Remove(ctx, "u5", "item5"); err != nil {
		t.Fatal(err)
	}
	items, err = o.List(ctx, "u5")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Errorf("Expected 4 items, got %d", len(items))
	}
}
