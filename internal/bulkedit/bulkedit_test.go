package bulkedit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	id     string
	name   string
	fields map[string]string
}

func (r rec) RecordID() string    { return r.id }
func (r rec) DisplayName() string { return r.name }
func (r rec) Field(f string) (string, bool) {
	v, ok := r.fields[f]
	return v, ok && v != ""
}

var order = []string{"name", "status", "priority"}

type memStore struct {
	mu      sync.Mutex
	records map[string]rec
	fail    map[string]error
	block   chan struct{}
	started chan struct{}
}

func newMemStore(rs ...rec) *memStore {
	s := &memStore{records: map[string]rec{}, fail: map[string]error{}}
	for _, r := range rs {
		s.records[r.id] = r
	}
	return s
}

func (s *memStore) Lookup(_ context.Context, ids []string) ([]Record, error) {
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, id := range ids {
		if r, ok := s.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) Apply(_ context.Context, id string, changes ChangeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[id]; err != nil {
		return err
	}
	r := s.records[id]
	next := map[string]string{}
	for k, v := range r.fields {
		next[k] = v
	}
	for _, c := range changes {
		next[c.Field] = c.Value
	}
	r.fields = next
	s.records[id] = r
	return nil
}

func TestNewChangeSetDropsBlankAndKeepsOrder(t *testing.T) {
	cs := NewChangeSet(map[string]string{"priority": "높음", "name": "  ", "status": "완료", "bogus": "x"}, order)
	assert.Equal(t, ChangeSet{{"status", "완료"}, {"priority", "높음"}}, cs)
	assert.True(t, NewChangeSet(map[string]string{"name": ""}, order).Empty())
}

func TestDiff(t *testing.T) {
	records := []rec{
		{"T-1", "one", map[string]string{"status": "대기중"}},
		{"T-2", "two", map[string]string{"status": "진행중"}},
		{"T-3", "three", map[string]string{}},
	}
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	got := Diff(records, ChangeSet{{"status", "완료"}}, now)

	require.Len(t, got, 3)
	assert.Equal(t, []FieldDiff{{"status", "대기중", "완료"}}, got[0].FieldDiffs)
	assert.Equal(t, []FieldDiff{{"status", "진행중", "완료"}}, got[1].FieldDiffs)
	assert.Equal(t, []FieldDiff{{"status", None, "완료"}}, got[2].FieldDiffs)
	for _, r := range got {
		assert.Equal(t, now, r.Timestamp)
		assert.False(t, r.Success)
	}
}

func TestDiffFollowsChangeSetOrder(t *testing.T) {
	r := rec{"T-1", "one", map[string]string{"name": "a", "priority": "낮음"}}
	got := Diff([]rec{r}, ChangeSet{{"priority", "높음"}, {"name", "b"}}, time.Now())
	require.Len(t, got[0].FieldDiffs, 2)
	assert.Equal(t, "priority", got[0].FieldDiffs[0].Field)
	assert.Equal(t, "name", got[0].FieldDiffs[1].Field)
}

func TestTransitionBlankSubmitCloses(t *testing.T) {
	s, err := Transition(State{}, Open{Selected: []string{"T-1"}, Fields: order})
	require.NoError(t, err)
	require.Equal(t, PhaseEditing, s.Phase)

	s, err = Transition(s, Submit{Values: map[string]string{"name": "", "status": " "}})
	require.NoError(t, err)
	assert.True(t, s.IsClosed())
	assert.Empty(t, s.Changes)
	assert.Empty(t, s.Selected)
}

func TestTransitionPaths(t *testing.T) {
	open, err := Transition(State{}, Open{Selected: []string{"T-1", "T-2"}, Fields: order})
	require.NoError(t, err)

	confirming, err := Transition(open, Submit{Values: map[string]string{"status": "완료"}})
	require.NoError(t, err)
	assert.Equal(t, PhaseConfirming, confirming.Phase)
	assert.Equal(t, ChangeSet{{"status", "완료"}}, confirming.Changes)

	back, err := Transition(confirming, Back{})
	require.NoError(t, err)
	assert.Equal(t, PhaseEditing, back.Phase)
	assert.Equal(t, "완료", back.Form["status"])

	reset, err := Transition(confirming, ResetForm{})
	require.NoError(t, err)
	assert.Equal(t, PhaseEditing, reset.Phase)
	assert.Empty(t, reset.Form)
	assert.Empty(t, reset.Changes)

	applying, err := Transition(confirming, Confirm{})
	require.NoError(t, err)
	_, err = Transition(applying, Confirm{})
	assert.ErrorIs(t, err, ErrApplyInFlight)
	_, err = Transition(applying, Back{})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	result, err := Transition(applying, ApplyFinished{Results: []UpdateResult{
		{RecordID: "T-1", Success: true},
		{RecordID: "T-2", Message: "boom"},
	}})
	require.NoError(t, err)
	assert.Equal(t, PhaseResult, result.Phase)

	expanded, err := Transition(result, ToggleExpand{RecordID: "T-2"})
	require.NoError(t, err)
	assert.Equal(t, "T-2", expanded.Expanded)
	collapsed, _ := Transition(expanded, ToggleExpand{RecordID: "T-2"})
	assert.Empty(t, collapsed.Expanded)

	retry, err := Transition(expanded, Retry{})
	require.NoError(t, err)
	assert.Equal(t, PhaseConfirming, retry.Phase)
	assert.Equal(t, []string{"T-2"}, retry.Selected)
	assert.Equal(t, confirming.Changes, retry.Changes)
	assert.Empty(t, retry.Results)

	done, err := Transition(result, Complete{})
	require.NoError(t, err)
	assert.Equal(t, State{Phase: PhaseClosed}, done)

	assert.Equal(t, PhaseResult, result.Phase, "transition must not mutate its input")
}

func TestRetryRequiresFailure(t *testing.T) {
	s := State{Phase: PhaseResult, Results: []UpdateResult{{RecordID: "T-1", Success: true}}}
	_, err := Transition(s, Retry{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCloseFromEveryPhaseResets(t *testing.T) {
	for _, p := range []Phase{PhaseClosed, PhaseEditing, PhaseConfirming, PhaseApplying, PhaseResult} {
		s := State{
			Phase:    p,
			Selected: []string{"T-1"},
			Form:     map[string]string{"status": "완료"},
			Changes:  ChangeSet{{"status", "완료"}},
			Results:  []UpdateResult{{RecordID: "T-1"}},
			Expanded: "T-1",
		}
		got, err := Transition(s, Close{})
		require.NoError(t, err)
		assert.Equal(t, State{Phase: PhaseClosed}, got, p)
	}
}

func TestOpenRequiresSelection(t *testing.T) {
	_, err := Transition(State{}, Open{Fields: order})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestWorkflowConfirmAppliesAndReportsPartialFailure(t *testing.T) {
	store := newMemStore(
		rec{"T-1", "one", map[string]string{"status": "대기중"}},
		rec{"T-2", "two", map[string]string{"status": "진행중"}},
	)
	store.fail["T-2"] = errors.New("locked")
	w := NewWorkflow(store, WithClock(func() time.Time { return time.Unix(0, 0) }))

	_, err := w.Dispatch(Open{Selected: []string{"T-1", "T-2", "T-9"}, Fields: order})
	require.NoError(t, err)
	_, err = w.Dispatch(Submit{Values: map[string]string{"status": "완료"}})
	require.NoError(t, err)

	s, err := w.Confirm(context.Background())
	require.NoError(t, err)
	require.Equal(t, PhaseResult, s.Phase)
	require.Len(t, s.Results, 3)

	ok := Succeeded(s.Results)
	bad := Failed(s.Results)
	assert.Len(t, ok, 1)
	assert.Len(t, bad, 2)
	assert.Equal(t, "T-1", ok[0].RecordID)
	assert.Equal(t, "locked", bad[0].Message)
	assert.Equal(t, ErrRecordNotFound.Error(), bad[1].Message)
	assert.Equal(t, "완료", store.records["T-1"].fields["status"])
	assert.Equal(t, "진행중", store.records["T-2"].fields["status"])

	s, err = w.Dispatch(Retry{})
	require.NoError(t, err)
	assert.Equal(t, []string{"T-2", "T-9"}, s.Selected)

	delete(store.fail, "T-2")
	s, err = w.Confirm(context.Background())
	require.NoError(t, err)
	assert.Len(t, Succeeded(s.Results), 1)
	assert.Equal(t, "완료", store.records["T-2"].fields["status"])
}

func TestWorkflowRejectsConcurrentConfirm(t *testing.T) {
	store := newMemStore(rec{"T-1", "one", map[string]string{}})
	store.block = make(chan struct{})
	store.started = make(chan struct{})
	w := NewWorkflow(store)

	_, err := w.Dispatch(Open{Selected: []string{"T-1"}, Fields: order})
	require.NoError(t, err)
	_, err = w.Dispatch(Submit{Values: map[string]string{"priority": "최우선"}})
	require.NoError(t, err)

	done := make(chan State)
	go func() {
		s, _ := w.Confirm(context.Background())
		done <- s
	}()
	<-store.started

	_, err = w.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrApplyInFlight)
	assert.Equal(t, PhaseApplying, w.State().Phase)

	close(store.block)
	s := <-done
	assert.Equal(t, PhaseResult, s.Phase)
	assert.Len(t, Succeeded(s.Results), 1)
}

func TestWorkflowCloseDuringApplyDropsResult(t *testing.T) {
	store := newMemStore(rec{"T-1", "one", map[string]string{}})
	store.block = make(chan struct{})
	store.started = make(chan struct{})
	w := NewWorkflow(store)

	_, _ = w.Dispatch(Open{Selected: []string{"T-1"}, Fields: order})
	_, _ = w.Dispatch(Submit{Values: map[string]string{"status": "완료"}})

	done := make(chan State)
	go func() {
		s, _ := w.Confirm(context.Background())
		done <- s
	}()
	<-store.started

	_, err := w.Dispatch(Close{})
	require.NoError(t, err)
	close(store.block)

	s := <-done
	assert.True(t, s.IsClosed())
	assert.True(t, w.State().IsClosed())
	assert.Empty(t, w.State().Results)
}

func TestDispatchRejectsConfirm(t *testing.T) {
	w := NewWorkflow(newMemStore())
	_, err := w.Dispatch(Confirm{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
