package query

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id     string
	name   string
	status string
	owner  string
	due    string
}

var rowSchema = Schema[row]{
	ID: func(r row) string { return r.id },
	Field: func(r row, f string) (string, bool) {
		var v string
		switch f {
		case "id":
			v = r.id
		case "name":
			v = r.name
		case "status":
			v = r.status
		case "owner":
			v = r.owner
		case "due":
			v = r.due
		}
		return v, v != ""
	},
	Searchable: []string{"name", "id"},
	DateField:  "due",
}

func sampleRows() []row {
	return []row{
		{"T-1", "Login bug", "open", "kim", "2025-05-01"},
		{"T-2", "Dashboard", "done", "lee", "2025-05-10"},
		{"T-3", "login page copy", "open", "lee", "2025-05-10T18:30:00Z"},
		{"T-4", "Search", "review", "park", "not-a-date"},
		{"T-5", "Reports", "open", "kim", ""},
	}
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ids(rs []row) []string {
	return IDs(rs, rowSchema.ID)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"empty criteria", Criteria{}, []string{"T-1", "T-2", "T-3", "T-4", "T-5"}},
		{"text case insensitive", Criteria{Text: "LOGIN"}, []string{"T-1", "T-3"}},
		{"text matches id", Criteria{Text: "t-4"}, []string{"T-4"}},
		{"text ignores non searchable fields", Criteria{Text: "kim"}, []string{}},
		{"set", Criteria{Sets: map[string][]string{"status": {"open", "review"}}}, []string{"T-1", "T-3", "T-4", "T-5"}},
		{"empty set ignored", Criteria{Sets: map[string][]string{"status": {}}}, []string{"T-1", "T-2", "T-3", "T-4", "T-5"}},
		{"and across dimensions", Criteria{Text: "login", Sets: map[string][]string{"owner": {"lee"}}}, []string{"T-3"}},
		{"to is inclusive through end of day", Criteria{To: date("2025-05-10")}, []string{"T-1", "T-2", "T-3"}},
		{"from bound", Criteria{From: date("2025-05-02")}, []string{"T-2", "T-3"}},
		{"unparsable and missing dates excluded", Criteria{From: date("2000-01-01")}, []string{"T-1", "T-2", "T-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(sampleRows(), rowSchema, tt.c))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterUnparsableDateKeptWithoutRange(t *testing.T) {
	got := Filter(sampleRows(), rowSchema, Criteria{Sets: map[string][]string{"status": {"review"}}})
	require.Len(t, got, 1)
	assert.Equal(t, "not-a-date", got[0].due)
}

func TestFilterAndSemanticsProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	statuses := []string{"open", "done", "review"}
	owners := []string{"kim", "lee", "park"}
	words := []string{"login", "search", "report", "billing"}

	records := make([]row, 200)
	for i := range records {
		day := 1 + rng.IntN(28)
		records[i] = row{
			id:     "R-" + string(rune('A'+i%26)) + time.Duration(i).String(),
			name:   words[rng.IntN(len(words))] + " " + words[rng.IntN(len(words))],
			status: statuses[rng.IntN(len(statuses))],
			owner:  owners[rng.IntN(len(owners))],
			due:    time.Date(2025, 5, day, rng.IntN(24), 0, 0, 0, time.UTC).Format(time.RFC3339),
		}
	}

	for i := 0; i < 300; i++ {
		c := Criteria{Sets: map[string][]string{}}
		if rng.IntN(2) == 0 {
			c.Text = strings.ToUpper(words[rng.IntN(len(words))][:3])
		}
		if rng.IntN(2) == 0 {
			c.Sets["status"] = []string{statuses[rng.IntN(len(statuses))]}
		}
		if rng.IntN(2) == 0 {
			c.Sets["owner"] = []string{owners[rng.IntN(len(owners))], owners[rng.IntN(len(owners))]}
		}
		if rng.IntN(2) == 0 {
			from := time.Date(2025, 5, 1+rng.IntN(14), 0, 0, 0, 0, time.UTC)
			c.From = &from
		}
		if rng.IntN(2) == 0 {
			to := time.Date(2025, 5, 14+rng.IntN(14), 0, 0, 0, 0, time.UTC)
			c.To = &to
		}

		got := Filter(records, rowSchema, c)
		gotSet := map[string]bool{}
		for _, r := range got {
			gotSet[r.id] = true
		}

		for _, r := range records {
			want := true
			if c.Text != "" && !strings.Contains(strings.ToLower(r.name+"|"+r.id), strings.ToLower(c.Text)) {
				want = false
			}
			for f, vals := range c.Sets {
				v, _ := rowSchema.Field(r, f)
				if len(vals) > 0 && !contains(vals, v) {
					want = false
				}
			}
			d, _ := time.Parse(time.RFC3339, r.due)
			if c.From != nil && d.Before(*c.From) {
				want = false
			}
			if c.To != nil && d.After(EndOfDay(*c.To)) {
				want = false
			}
			require.Equal(t, want, gotSet[r.id], "record %s criteria %+v", r.id, c)
		}

		again := Filter(got, rowSchema, c)
		require.Equal(t, ids(got), ids(again), "filter must be idempotent")
		assertSubsequence(t, ids(records), ids(got))
	}
}

func contains(vals []string, v string) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}

func assertSubsequence(t *testing.T, all, sub []string) {
	t.Helper()
	i := 0
	for _, id := range all {
		if i < len(sub) && sub[i] == id {
			i++
		}
	}
	require.Equal(t, len(sub), i, "filter must preserve input order")
}

func TestEndOfDay(t *testing.T) {
	e := EndOfDay(time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 5, 10, 23, 59, 59, 999000000, time.UTC), e)
}

func TestCriteriaKey(t *testing.T) {
	a := Criteria{Text: " Login ", Sets: map[string][]string{"status": {"b", "a"}, "owner": {}}}
	b := Criteria{Text: "login", Sets: map[string][]string{"status": {"a", "b"}}}
	assert.Equal(t, a.Key(), b.Key())

	c := Criteria{Text: "login", To: date("2025-05-10")}
	assert.NotEqual(t, b.Key(), c.Key())
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2025-05-10", "2025-05-10T15:30:00Z", "2025-05-10T15:30:00.123+09:00"} {
		_, err := ParseDate(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseDate("10/05/2025")
	assert.Error(t, err)
}
