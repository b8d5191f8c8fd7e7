package bulkedit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned for an event the current phase does not accept.
	ErrInvalidTransition = errors.New("invalid bulk edit transition")
	// ErrApplyInFlight is returned when confirming while an apply is running.
	ErrApplyInFlight = errors.New("bulk edit apply already in progress")
	// ErrEmptySelection is returned when opening the workflow without records.
	ErrEmptySelection = errors.New("no records selected")
)

// Phase is the step the workflow is in.
type Phase string

const (
	PhaseClosed     Phase = "closed"
	PhaseEditing    Phase = "editing"
	PhaseConfirming Phase = "confirming"
	PhaseApplying   Phase = "applying"
	PhaseResult     Phase = "result"
)

// State is the full workflow state. The zero value is closed.
type State struct {
	Phase    Phase             `json:"phase"`
	Selected []string          `json:"selected"`
	Fields   []string          `json:"fields,omitempty"`
	Form     map[string]string `json:"form,omitempty"`
	Changes  ChangeSet         `json:"changes,omitempty"`
	Results  []UpdateResult    `json:"results,omitempty"`
	Expanded string            `json:"expanded,omitempty"`
}

// IsClosed reports whether the workflow is closed.
func (s State) IsClosed() bool {
	return s.Phase == "" || s.Phase == PhaseClosed
}

// Event drives a transition.
type Event interface{ event() }

// Open starts editing the selected records. Fields is the canonical field order.
type Open struct {
	Selected []string
	Fields   []string
}

// Submit proposes form values.
type Submit struct{ Values map[string]string }

// Back returns from confirmation to the form, keeping its values.
type Back struct{}

// ResetForm clears the form and returns to editing.
type ResetForm struct{}

// Confirm starts applying the change set.
type Confirm struct{}

// ApplyFinished delivers the apply outcome.
type ApplyFinished struct{ Results []UpdateResult }

// Retry returns to confirmation for the records that failed.
type Retry struct{}

// Complete acknowledges the result and closes the workflow.
type Complete struct{}

// Close dismisses the workflow from any phase.
type Close struct{}

// ToggleExpand shows or hides the detail row of a record.
type ToggleExpand struct{ RecordID string }

func (Open) event()          {}
func (Submit) event()        {}
func (Back) event()          {}
func (ResetForm) event()     {}
func (Confirm) event()       {}
func (ApplyFinished) event() {}
func (Retry) event()         {}
func (Complete) event()      {}
func (Close) event()         {}
func (ToggleExpand) event()  {}

// Transition computes the next state. It never mutates s.
func Transition(s State, ev Event) (State, error) {
	phase := s.Phase
	if phase == "" {
		phase = PhaseClosed
	}

	switch e := ev.(type) {
	case Close:
		return State{Phase: PhaseClosed}, nil

	case Open:
		if phase != PhaseClosed {
			return s, invalid(phase, ev)
		}
		if len(e.Selected) == 0 {
			return s, ErrEmptySelection
		}
		return State{
			Phase:    PhaseEditing,
			Selected: append([]string(nil), e.Selected...),
			Fields:   append([]string(nil), e.Fields...),
			Form:     map[string]string{},
		}, nil

	case Submit:
		if phase != PhaseEditing {
			return s, invalid(phase, ev)
		}
		changes := NewChangeSet(e.Values, s.Fields)
		if changes.Empty() {
			return State{Phase: PhaseClosed}, nil
		}
		next := s.clone()
		next.Phase = PhaseConfirming
		next.Form = copyMap(e.Values)
		next.Changes = changes
		return next, nil

	case Back:
		if phase != PhaseConfirming {
			return s, invalid(phase, ev)
		}
		next := s.clone()
		next.Phase = PhaseEditing
		next.Changes = nil
		return next, nil

	case ResetForm:
		if phase != PhaseEditing && phase != PhaseConfirming {
			return s, invalid(phase, ev)
		}
		next := s.clone()
		next.Phase = PhaseEditing
		next.Form = map[string]string{}
		next.Changes = nil
		next.Expanded = ""
		return next, nil

	case Confirm:
		if phase == PhaseApplying {
			return s, ErrApplyInFlight
		}
		if phase != PhaseConfirming {
			return s, invalid(phase, ev)
		}
		next := s.clone()
		next.Phase = PhaseApplying
		return next, nil

	case ApplyFinished:
		if phase != PhaseApplying {
			return s, invalid(phase, ev)
		}
		next := s.clone()
		next.Phase = PhaseResult
		next.Results = append([]UpdateResult(nil), e.Results...)
		next.Expanded = ""
		return next, nil

	case Retry:
		if phase != PhaseResult {
			return s, invalid(phase, ev)
		}
		failed := Failed(s.Results)
		if len(failed) == 0 {
			return s, invalid(phase, ev)
		}
		next := s.clone()
		next.Phase = PhaseConfirming
		next.Selected = make([]string, len(failed))
		for i, r := range failed {
			next.Selected[i] = r.RecordID
		}
		next.Results = nil
		next.Expanded = ""
		return next, nil

	case Complete:
		if phase != PhaseResult {
			return s, invalid(phase, ev)
		}
		return State{Phase: PhaseClosed}, nil

	case ToggleExpand:
		if phase == PhaseClosed {
			return s, invalid(phase, ev)
		}
		next := s.clone()
		if next.Expanded == e.RecordID {
			next.Expanded = ""
		} else {
			next.Expanded = e.RecordID
		}
		return next, nil
	}

	return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}

func invalid(phase Phase, ev Event) error {
	return fmt.Errorf("%w: %T in phase %s", ErrInvalidTransition, ev, phase)
}

func (s State) clone() State {
	c := s
	c.Selected = append([]string(nil), s.Selected...)
	c.Fields = append([]string(nil), s.Fields...)
	c.Form = copyMap(s.Form)
	c.Changes = append(ChangeSet(nil), s.Changes...)
	c.Results = append([]UpdateResult(nil), s.Results...)
	return c
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
