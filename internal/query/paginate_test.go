package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		state     PageState
		wantPage  int
		wantTotal int
		wantItems []int
	}{
		{"first page", 47, PageState{1, 10}, 1, 5, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"last partial page", 47, PageState{5, 10}, 5, 5, []int{41, 42, 43, 44, 45, 46, 47}},
		{"beyond last clamps", 47, PageState{9, 10}, 5, 5, []int{41, 42, 43, 44, 45, 46, 47}},
		{"zero page clamps to 1", 3, PageState{0, 10}, 1, 1, []int{1, 2, 3}},
		{"empty set has one page", 0, PageState{3, 10}, 1, 1, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(seq(tt.n), tt.state)
			assert.Equal(t, tt.wantPage, p.CurrentPage)
			assert.Equal(t, tt.wantTotal, p.TotalPages)
			assert.Equal(t, tt.n, p.TotalItems)
			assert.Equal(t, tt.wantItems, append([]int{}, p.Items...))
			assert.LessOrEqual(t, p.CurrentPage, p.TotalPages)
		})
	}
}

func TestPagerResetsOnPageSizeChange(t *testing.T) {
	items := seq(47)
	key := Criteria{}.Key()

	p := NewPager(10).Sync(key, 10).Goto(5, len(items))
	assert.Equal(t, 5, p.State.CurrentPage)

	p = p.Sync(key, 25)
	assert.Equal(t, 1, p.State.CurrentPage)
	assert.Equal(t, 25, p.State.ItemsPerPage)

	page := Paginate(items, p.State)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestPagerResetsOnFilterChange(t *testing.T) {
	p := NewPager(10).Sync("a", 10).Goto(3, 100)
	assert.Equal(t, 3, p.Sync("a", 10).State.CurrentPage)
	assert.Equal(t, 1, p.Sync("b", 10).State.CurrentPage)
}

func numbers(tokens []PageToken) []any {
	out := make([]any, len(tokens))
	for i, tk := range tokens {
		if tk.Ellipsis {
			out[i] = "…"
		} else {
			out[i] = tk.Number
		}
	}
	return out
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		total, current int
		want           []any
	}{
		{10, 5, []any{1, "…", 4, 5, 6, "…", 10}},
		{10, 1, []any{1, 2, 3, 4, "…", 10}},
		{10, 3, []any{1, 2, 3, 4, "…", 10}},
		{10, 8, []any{1, "…", 7, 8, 9, 10}},
		{10, 10, []any{1, "…", 7, 8, 9, 10}},
		{5, 3, []any{1, 2, 3, 4, 5}},
		{1, 1, []any{1}},
		{6, 4, []any{1, "…", 3, 4, 5, 6}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, numbers(PageNumbers(tt.total, tt.current)), "total=%d current=%d", tt.total, tt.current)
	}
}

func TestPruneSelection(t *testing.T) {
	got := PruneSelection([]string{"a", "x", "c"}, []string{"a", "b", "c"})
	assert.Equal(t, []string{"a", "c"}, got)
	assert.Empty(t, PruneSelection([]string{"x"}, nil))
}
