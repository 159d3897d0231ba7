// Package pagination implements page/limit windows over ordered result sets.
package pagination

// MaxLimit caps any requested page size.
const MaxLimit = 100

// Request is a 1-based page request.
type Request struct {
	Page  int
	Limit int
}

// New normalizes page and limit, applying defaultLimit when limit is unset.
func New(page, limit, defaultLimit int) Request {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Request{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip.
func (r Request) Offset() int {
	if r.Page < 1 {
		return 0
	}
	return (r.Page - 1) * r.Limit
}

// Page is one window of a larger result set.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
	Pages int
}

// NewPage assembles a page, computing Pages as ceil(total/limit).
func NewPage[T any](items []T, total int64, req Request) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
		Pages: Pages(total, req.Limit),
	}
}

// Pages returns ceil(total/limit), zero when limit is not positive.
func Pages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Slice applies the request window to an in-memory slice.
func Slice[T any](all []T, req Request) []T {
	start := req.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + req.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// Map converts the items of a page, keeping its metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Page[U]{Items: items, Total: p.Total, Page: p.Page, Limit: p.Limit, Pages: p.Pages}
}
