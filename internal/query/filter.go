// Package query filters and paginates in-memory record collections.
package query

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"
)

// Schema is the field accessor table for one record type.
type Schema[T any] struct {
	ID         func(T) string
	Field      func(T, string) (string, bool)
	Searchable []string
	DateField  string
}

// Criteria is a set of filter dimensions. Zero values mean no constraint.
type Criteria struct {
	Text string
	Sets map[string][]string
	From *time.Time
	To   *time.Time
}

// HasDateRange reports whether either date bound is set.
func (c Criteria) HasDateRange() bool {
	return c.From != nil || c.To != nil
}

// Key fingerprints the active dimensions so a pager can detect a changed filter.
func (c Criteria) Key() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "q=%s;", strings.ToLower(strings.TrimSpace(c.Text)))

	fields := make([]string, 0, len(c.Sets))
	for f, vals := range c.Sets {
		if len(vals) > 0 {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)
	for _, f := range fields {
		vals := append([]string(nil), c.Sets[f]...)
		sort.Strings(vals)
		fmt.Fprintf(h, "%s=%s;", f, strings.Join(vals, ","))
	}
	if c.From != nil {
		fmt.Fprintf(h, "from=%d;", c.From.UnixMilli())
	}
	if c.To != nil {
		fmt.Fprintf(h, "to=%d;", c.To.UnixMilli())
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Filter returns the records matching every active dimension of c, in input order.
func Filter[T any](records []T, schema Schema[T], c Criteria) []T {
	text := strings.ToLower(strings.TrimSpace(c.Text))
	var to time.Time
	if c.To != nil {
		to = EndOfDay(*c.To)
	}

	out := make([]T, 0, len(records))
	for _, r := range records {
		if text != "" && !matchText(r, schema, text) {
			continue
		}
		if !matchSets(r, schema, c.Sets) {
			continue
		}
		if c.HasDateRange() && !matchDate(r, schema, c.From, c.To, to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchText[T any](r T, schema Schema[T], text string) bool {
	for _, f := range schema.Searchable {
		v, ok := schema.Field(r, f)
		if ok && strings.Contains(strings.ToLower(v), text) {
			return true
		}
	}
	return false
}

func matchSets[T any](r T, schema Schema[T], sets map[string][]string) bool {
	for field, allowed := range sets {
		if len(allowed) == 0 {
			continue
		}
		v, _ := schema.Field(r, field)
		found := false
		for _, a := range allowed {
			if a == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchDate[T any](r T, schema Schema[T], from, toRaw *time.Time, to time.Time) bool {
	raw, ok := schema.Field(r, schema.DateField)
	if !ok {
		return false
	}
	d, err := ParseDate(raw)
	if err != nil {
		return false
	}
	if from != nil && d.Before(*from) {
		return false
	}
	if toRaw != nil && d.After(to) {
		return false
	}
	return true
}

// EndOfDay returns the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// StartOfDay returns midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}
