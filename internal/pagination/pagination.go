// Package pagination derives the visible page of a collection from a page size and a 1-based
// page number.
package pagination

import (
	"errors"
	"sync"
)

var ErrInvalidPageSize = errors.New("page size must be positive")

// PageCount returns ceil(n/pageSize), with a minimum of one page so a page control always has
// something to show. A non-positive pageSize yields 1.
func PageCount(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return pages(n, pageSize)
}

// pages is ceil(n/pageSize) without the overflow of n+pageSize-1.
func pages(n, pageSize int) int {
	count := n / pageSize
	if n%pageSize != 0 {
		count++
	}
	return count
}

// Clamp moves page into [1, PageCount(n, pageSize)].
func Clamp(page, n, pageSize int) int {
	if page < 1 {
		return 1
	}
	if count := PageCount(n, pageSize); page > count {
		return count
	}
	return page
}

// VisibleSlice returns items[(page-1)*pageSize : page*pageSize] clipped to the bounds of items.
// Pages outside the available range yield an empty slice. The result shares no memory with items.
func VisibleSlice[T any](items []T, pageSize, page int) []T {
	if pageSize <= 0 || page < 1 {
		return []T{}
	}
	// Compare page indexes before multiplying so huge pages cannot overflow.
	if page-1 >= pages(len(items), pageSize) {
		return []T{}
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(items))

	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// Page is everything a page control needs to render one page of a collection.
type Page[T any] struct {
	Items []T

	Number int
	Count  int
	Size   int
	Total  int

	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

// NewPage clamps page against items and returns the resulting page.
func NewPage[T any](items []T, pageSize, page int) Page[T] {
	total := len(items)
	count := PageCount(total, pageSize)
	number := Clamp(page, total, pageSize)

	return Page[T]{
		Items:    VisibleSlice(items, pageSize, number),
		Number:   number,
		Count:    count,
		Size:     pageSize,
		Total:    total,
		HasPrev:  number > 1,
		HasNext:  number < count,
		PrevPage: max(number-1, 1),
		NextPage: min(number+1, count),
	}
}

// Numbers lists 1..Count for rendering page links.
func (p Page[T]) Numbers() []int {
	numbers := make([]int, p.Count)
	for i := range numbers {
		numbers[i] = i + 1
	}
	return numbers
}

// Pager holds the pagination state of one view: a fixed page size and the requested page.
// The effective page is always recomputed against the live collection size.
type Pager struct {
	mu        sync.Mutex
	size      int
	requested int
}

func NewPager(pageSize int) (*Pager, error) {
	if pageSize <= 0 {
		return nil, ErrInvalidPageSize
	}
	return &Pager{size: pageSize, requested: 1}, nil
}

func (p *Pager) Size() int {
	return p.size
}

// Current returns the effective page for a collection of n items.
func (p *Pager) Current(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Clamp(p.requested, n, p.size)
}

// Goto requests page target; out-of-range targets are clamped. It returns the page now shown.
func (p *Pager) Goto(target, n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requested = Clamp(target, n, p.size)
	return p.requested
}
