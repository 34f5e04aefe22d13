// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/compare"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

// Ranker is the ordered list storage the orchestrator commits to
type Ranker interface {
	List(ctx context.Context, userID string) ([]models.RankedItem, error)
	Insert(ctx context.Context, userID, itemID string, position int, sentiment models.Sentiment) ([]models.RankedItem, error)
	InsertIfUnchanged(ctx context.Context, userID, itemID string, position int, sentiment models.Sentiment, snapshot []string) ([]models.RankedItem, error)
	Remove(ctx context.Context, userID, itemID string) ([]models.RankedItem, error)
	Move(ctx context.Context, userID, itemID string, newPosition int) ([]models.RankedItem, error)
	SetSentiment(ctx context.Context, userID, itemID string, sentiment models.Sentiment) ([]models.RankedItem, error)
}

// Session is everything one interview needs between answers.
// It is owned by the caller; the orchestrator keeps no copy.
type Session struct {
	ID       string        `json:"id"`
	UserID   string        `json:"user_id"`
	ItemID   string        `json:"item_id"`
	Snapshot []string      `json:"snapshot"` // item IDs ordered by position when the interview began
	State    compare.State `json:"state"`
}

// Step is the orchestrator's answer to begin or submit.
// Session is only meaningful while Kind is triage or comparison.
type Step struct {
	Kind            string
	Session         Session
	CandidateItemID string
	QuestionNumber  int
	EstimatedTotal  int
	Position        int
}

// Finished reports whether the step carries a final position
func (s Step) Finished() bool {
	return s.Kind == models.StepImmediate || s.Kind == models.StepDone
}

// Orchestrator runs interviews against a user's list and commits their
// result. It holds no per-interview state.
type Orchestrator struct {
	ranker Ranker
	opts   compare.Options
}

// New returns an Orchestrator that asks questions according to opts
func New(ranker Ranker, opts compare.Options) *Orchestrator {
	return &Orchestrator{ranker: ranker, opts: opts}
}

// Begin snapshots the user's list and returns the first interview step
func (o *Orchestrator) Begin(ctx context.Context, userID, itemID string) (Step, error) {
	if userID == "" || itemID == "" {
		return Step{}, store.ErrEmptyID
	}

	items, err := o.ranker.List(ctx, userID)
	if err != nil {
		return Step{}, fmt.Errorf("failed to load ranked list: %w", err)
	}

	snapshot := make([]string, len(items))
	for i, item := range items {
		if item.ItemID == itemID {
			return Step{}, fmt.Errorf("%w: %s", store.ErrDuplicateItem, itemID)
		}
		snapshot[i] = item.ItemID
	}

	state, err := o.opts.Begin(len(snapshot))
	if err != nil {
		return Step{}, err
	}

	id, err := auth.GenerateID(8)
	if err != nil {
		return Step{}, err
	}

	sess := Session{
		ID:       id,
		UserID:   userID,
		ItemID:   itemID,
		Snapshot: snapshot,
		State:    state,
	}

	slog.Debug("interview started", "session_id", id, "user_id", userID, "item_id", itemID, "phase", state.Phase)

	return stepFor(sess)
}

// SubmitTriage applies the coarse bucket answer
func (o *Orchestrator) SubmitTriage(sess Session, bucket compare.Bucket) (Step, error) {
	if err := sess.check(); err != nil {
		return Step{}, err
	}

	next, err := compare.SubmitTriage(sess.State, bucket)
	if err != nil {
		return Step{}, err
	}

	sess.State = next
	return stepFor(sess)
}

// SubmitComparison applies one pairwise answer
func (o *Orchestrator) SubmitComparison(sess Session, result compare.Result) (Step, error) {
	if err := sess.check(); err != nil {
		return Step{}, err
	}

	next, err := compare.SubmitComparison(sess.State, result)
	if err != nil {
		return Step{}, err
	}

	sess.State = next
	return stepFor(sess)
}

// Confirm commits the item at position. Failures are not retried; the
// caller may confirm again or reload the list.
func (o *Orchestrator) Confirm(ctx context.Context, userID, itemID string, position int, sentiment models.Sentiment) ([]models.RankedItem, error) {
	items, err := o.ranker.Insert(ctx, userID, itemID, position, sentiment)
	if err != nil {
		return nil, err
	}

	slog.Debug("ranking confirmed", "user_id", userID, "item_id", itemID, "position", position)
	return items, nil
}

// ConfirmSession commits a finished interview. The user's list must still
// match the snapshot the questions were asked against, otherwise the answers
// no longer pin down a position and ErrConcurrentModification is returned.
// A zero position means the interview's own answer.
func (o *Orchestrator) ConfirmSession(ctx context.Context, sess Session, position int, sentiment models.Sentiment) ([]models.RankedItem, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}
	if !sess.State.Finished() {
		return nil, fmt.Errorf("%w: interview still in %s phase", compare.ErrSessionContractViolation, sess.State.Phase)
	}

	if position == 0 {
		position = sess.State.Position
	}
	if position != sess.State.Position {
		return nil, fmt.Errorf("%w: position %d contradicts answered position %d",
			compare.ErrSessionContractViolation, position, sess.State.Position)
	}

	items, err := o.ranker.InsertIfUnchanged(ctx, sess.UserID, sess.ItemID, position, sentiment, sess.Snapshot)
	if err != nil {
		return nil, err
	}

	slog.Debug("interview confirmed", "session_id", sess.ID, "user_id", sess.UserID, "item_id", sess.ItemID, "position", position)
	return items, nil
}

// List returns the user's ranked list
func (o *Orchestrator) List(ctx context.Context, userID string) ([]models.RankedItem, error) {
	return o.ranker.List(ctx, userID)
}

// Remove unranks an item
func (o *Orchestrator) Remove(ctx context.Context, userID, itemID string) ([]models.RankedItem, error) {
	return o.ranker.Remove(ctx, userID, itemID)
}

// Move reorders an item
func (o *Orchestrator) Move(ctx context.Context, userID, itemID string, newPosition int) ([]models.RankedItem, error) {
	return o.ranker.Move(ctx, userID, itemID, newPosition)
}

// SetSentiment retags an item
func (o *Orchestrator) SetSentiment(ctx context.Context, userID, itemID string, sentiment models.Sentiment) ([]models.RankedItem, error) {
	return o.ranker.SetSentiment(ctx, userID, itemID, sentiment)
}

// check rejects sessions whose state does not match their snapshot
func (s Session) check() error {
	if s.UserID == "" || s.ItemID == "" {
		return fmt.Errorf("%w: session without user or item", compare.ErrSessionContractViolation)
	}
	if s.State.Total != len(s.Snapshot) {
		return fmt.Errorf("%w: state covers %d items, snapshot has %d",
			compare.ErrSessionContractViolation, s.State.Total, len(s.Snapshot))
	}
	return nil
}

func stepFor(sess Session) (Step, error) {
	st := sess.State
	step := Step{
		Session:        sess,
		QuestionNumber: st.QuestionNumber,
		EstimatedTotal: st.EstimatedTotal,
	}

	switch st.Phase {
	case compare.PhaseImmediate:
		step.Kind = models.StepImmediate
		step.Position = st.Position
	case compare.PhaseDone:
		step.Kind = models.StepDone
		step.Position = st.Position
	case compare.PhaseTriage:
		step.Kind = models.StepTriage
	case compare.PhaseComparing:
		if st.Mid < 1 || st.Mid > len(sess.Snapshot) {
			return Step{}, fmt.Errorf("%w: mid %d outside snapshot", compare.ErrSessionContractViolation, st.Mid)
		}
		step.Kind = models.StepComparison
		step.CandidateItemID = sess.Snapshot[st.Mid-1]
	default:
		return Step{}, fmt.Errorf("%w: unknown phase %q", compare.ErrSessionContractViolation, st.Phase)
	}

	return step, nil
}
