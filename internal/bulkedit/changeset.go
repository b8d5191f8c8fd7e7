// Package bulkedit models the multi-record edit workflow: building a change
// set, previewing per-record diffs and applying them through a store.
package bulkedit

import (
	"strings"
	"time"
)

// None stands in for a field that has no current value.
const None = "none"

// Change sets one field to a new value.
type Change struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ChangeSet is an ordered list of field changes. It never holds blank values.
type ChangeSet []Change

// NewChangeSet keeps the non-blank entries of values, ordered by order.
// Fields not named in order are ignored.
func NewChangeSet(values map[string]string, order []string) ChangeSet {
	cs := make(ChangeSet, 0, len(values))
	for _, field := range order {
		v := strings.TrimSpace(values[field])
		if v == "" {
			continue
		}
		cs = append(cs, Change{Field: field, Value: v})
	}
	return cs
}

// Empty reports whether the set has no changes.
func (cs ChangeSet) Empty() bool { return len(cs) == 0 }

// Fields returns the changed field names in order.
func (cs ChangeSet) Fields() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Field
	}
	return out
}

// Record is anything the workflow can diff.
type Record interface {
	RecordID() string
	DisplayName() string
	Field(name string) (string, bool)
}

// FieldDiff pairs the current and proposed value of a field.
type FieldDiff struct {
	Field    string `json:"field"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// UpdateResult is the outcome of applying a change set to one record.
type UpdateResult struct {
	RecordID    string      `json:"recordId"`
	DisplayName string      `json:"displayName"`
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	FieldDiffs  []FieldDiff `json:"fieldDiffs"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Diff computes the field diffs for every record. Success is left false; the
// apply step decides it.
func Diff[R Record](records []R, changes ChangeSet, now time.Time) []UpdateResult {
	out := make([]UpdateResult, 0, len(records))
	for _, r := range records {
		diffs := make([]FieldDiff, 0, len(changes))
		for _, c := range changes {
			old, ok := r.Field(c.Field)
			if !ok {
				old = None
			}
			diffs = append(diffs, FieldDiff{Field: c.Field, OldValue: old, NewValue: c.Value})
		}
		out = append(out, UpdateResult{
			RecordID:    r.RecordID(),
			DisplayName: r.DisplayName(),
			FieldDiffs:  diffs,
			Timestamp:   now,
		})
	}
	return out
}

// Succeeded returns the successful results in order.
func Succeeded(results []UpdateResult) []UpdateResult {
	return partition(results, true)
}

// Failed returns the failed results in order.
func Failed(results []UpdateResult) []UpdateResult {
	return partition(results, false)
}

func partition(results []UpdateResult, success bool) []UpdateResult {
	out := make([]UpdateResult, 0, len(results))
	for _, r := range results {
		if r.Success == success {
			out = append(out, r)
		}
	}
	return out
}
