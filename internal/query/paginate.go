package query

// DefaultPageSize is used when a request does not name one.
const DefaultPageSize = 10

// maxPagesToShow is the pager length below which every page is listed.
const maxPagesToShow = 5

// PageState is the caller's position in a paginated list.
type PageState struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// Page is one slice of a collection.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
	PageSize    int `json:"pageSize"`
}

// TotalPages returns max(1, ceil(n/perPage)).
func TotalPages(n, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	pages := (n + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate slices items for the given state. CurrentPage is clamped to [1, TotalPages].
func Paginate[T any](items []T, state PageState) Page[T] {
	perPage := state.ItemsPerPage
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	total := TotalPages(len(items), perPage)
	current := clamp(state.CurrentPage, 1, total)

	start := (current - 1) * perPage
	end := start + perPage
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{
		Items:       append([]T(nil), items[start:end]...),
		CurrentPage: current,
		TotalPages:  total,
		TotalItems:  len(items),
		PageSize:    perPage,
	}
}

// Pager tracks page state together with the inputs that reset it.
type Pager struct {
	State     PageState `json:"state"`
	FilterKey string    `json:"filterKey"`
}

// NewPager starts at page 1.
func NewPager(itemsPerPage int) Pager {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultPageSize
	}
	return Pager{State: PageState{CurrentPage: 1, ItemsPerPage: itemsPerPage}}
}

// Sync returns the pager for a possibly changed filter and page size.
// Any change to either resets the current page to 1.
func (p Pager) Sync(filterKey string, itemsPerPage int) Pager {
	if itemsPerPage <= 0 {
		itemsPerPage = p.State.ItemsPerPage
	}
	if filterKey != p.FilterKey || itemsPerPage != p.State.ItemsPerPage {
		return Pager{State: PageState{CurrentPage: 1, ItemsPerPage: itemsPerPage}, FilterKey: filterKey}
	}
	return p
}

// Goto moves to page n, clamped to the valid range for total items.
func (p Pager) Goto(n, totalItems int) Pager {
	p.State.CurrentPage = clamp(n, 1, TotalPages(totalItems, p.State.ItemsPerPage))
	return p
}

// PageToken is an entry of a compact pager: a page number or an ellipsis.
type PageToken struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// PageNumbers builds the compact pager: first, last, a window of three around
// current, and an ellipsis wherever pages are skipped.
func PageNumbers(totalPages, current int) []PageToken {
	if totalPages < 1 {
		totalPages = 1
	}
	current = clamp(current, 1, totalPages)

	tokens := make([]PageToken, 0, maxPagesToShow+2)
	if totalPages <= maxPagesToShow {
		for i := 1; i <= totalPages; i++ {
			tokens = append(tokens, PageToken{Number: i})
		}
		return tokens
	}

	start := current - 1
	end := current + 1
	if start < 2 {
		end += 2 - start
		start = 2
	}
	if end > totalPages-1 {
		start -= end - (totalPages - 1)
		end = totalPages - 1
	}

	tokens = append(tokens, PageToken{Number: 1})
	if start-1 > 1 {
		tokens = append(tokens, PageToken{Ellipsis: true})
	}
	for i := start; i <= end; i++ {
		tokens = append(tokens, PageToken{Number: i})
	}
	if totalPages-end > 1 {
		tokens = append(tokens, PageToken{Ellipsis: true})
	}
	return append(tokens, PageToken{Number: totalPages})
}

// PruneSelection keeps only the selected ids present on the current page, in selection order.
func PruneSelection(selected, pageIDs []string) []string {
	onPage := make(map[string]struct{}, len(pageIDs))
	for _, id := range pageIDs {
		onPage[id] = struct{}{}
	}
	kept := make([]string, 0, len(selected))
	for _, id := range selected {
		if _, ok := onPage[id]; ok {
			kept = append(kept, id)
		}
	}
	return kept
}

// IDs maps records to their ids.
func IDs[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
