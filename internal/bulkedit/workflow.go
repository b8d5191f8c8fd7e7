package bulkedit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrRecordNotFound marks a selected record that no longer exists.
var ErrRecordNotFound = errors.New("record not found")

// Store is the record collection a workflow applies changes to.
type Store interface {
	// Lookup returns the records for ids that exist, in ids order.
	Lookup(ctx context.Context, ids []string) ([]Record, error)
	// Apply writes changes to one record.
	Apply(ctx context.Context, id string, changes ChangeSet) error
}

// Workflow runs the state machine for one bulk edit and performs the apply step.
type Workflow struct {
	mu    sync.Mutex
	state State
	gen   uint64
	store Store
	now   func() time.Time
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// NewWorkflow creates a closed workflow.
func NewWorkflow(store Store, opts ...Option) *Workflow {
	w := &Workflow{store: store, now: time.Now, state: State{Phase: PhaseClosed}}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns a copy of the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.clone()
}

// Dispatch applies a local event. Confirm must go through Confirm.
func (w *Workflow) Dispatch(ev Event) (State, error) {
	switch ev.(type) {
	case Confirm, ApplyFinished:
		return w.State(), ErrInvalidTransition
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := Transition(w.state, ev)
	if err != nil {
		return w.state.clone(), err
	}
	if next.IsClosed() {
		w.gen++
	}
	w.state = next
	return next.clone(), nil
}

// Confirm applies the pending change set to every selected record and moves
// to the result phase. Only one apply runs at a time; a second call while one
// is running returns ErrApplyInFlight. If the workflow is closed during the
// apply, the outcome is discarded.
func (w *Workflow) Confirm(ctx context.Context) (State, error) {
	w.mu.Lock()
	next, err := Transition(w.state, Confirm{})
	if err != nil {
		cur := w.state.clone()
		w.mu.Unlock()
		return cur, err
	}
	w.state = next
	gen := w.gen
	ids := append([]string(nil), next.Selected...)
	changes := append(ChangeSet(nil), next.Changes...)
	w.mu.Unlock()

	results := w.apply(ctx, ids, changes)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen || w.state.Phase != PhaseApplying {
		return w.state.clone(), nil
	}
	done, err := Transition(w.state, ApplyFinished{Results: results})
	if err != nil {
		return w.state.clone(), err
	}
	w.state = done
	return done.clone(), nil
}

func (w *Workflow) apply(ctx context.Context, ids []string, changes ChangeSet) []UpdateResult {
	now := w.now()
	records, err := w.store.Lookup(ctx, ids)
	if err != nil {
		out := make([]UpdateResult, len(ids))
		for i, id := range ids {
			out[i] = UpdateResult{RecordID: id, DisplayName: id, Message: err.Error(), Timestamp: now}
		}
		return out
	}

	diffs := Diff(records, changes, now)
	byID := make(map[string]UpdateResult, len(diffs))
	for _, d := range diffs {
		byID[d.RecordID] = d
	}

	out := make([]UpdateResult, 0, len(ids))
	for _, id := range ids {
		res, ok := byID[id]
		if !ok {
			out = append(out, UpdateResult{RecordID: id, DisplayName: id, Message: ErrRecordNotFound.Error(), Timestamp: now})
			continue
		}
		if err := w.store.Apply(ctx, id, changes); err != nil {
			res.Message = err.Error()
		} else {
			res.Success = true
		}
		out = append(out, res)
	}
	return out
}
