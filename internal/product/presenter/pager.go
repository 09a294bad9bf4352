package presenter

import (
	"context"
	"sync"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
)

// State of a Pager
type State int

const (
	// StateIdle holds items and may load more
	StateIdle State = iota
	// StateLoadingMore has a continuation request in flight
	StateLoadingMore
	// StateExhausted holds every matching item
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingMore:
		return "loading-more"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// PageFetcher loads one catalogue page and reports the total number of matches
type PageFetcher interface {
	FetchPage(ctx context.Context, page, pageSize int, search string) ([]domain.ProductWithFavoriteID, int64, error)
}

// Pager accumulates catalogue pages for an infinite scrolling list.
// The first page is supplied by the caller; later pages are fetched when the
// sentinel after the last item becomes visible.
type Pager struct {
	fetcher  PageFetcher
	pageSize int
	search   string

	mu    sync.Mutex
	items []domain.ProductWithFavoriteID
	page  int
	total int64
	state State
}

// NewPager starts a pager on page 1 holding initial
func NewPager(fetcher PageFetcher, initial []domain.ProductWithFavoriteID, total int64, pageSize int, search string) *Pager {
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}

	items := make([]domain.ProductWithFavoriteID, len(initial))
	copy(items, initial)

	state := StateIdle
	if int64(len(items)) >= total {
		state = StateExhausted
	}

	return &Pager{
		fetcher:  fetcher,
		pageSize: pageSize,
		search:   search,
		items:    items,
		page:     1,
		total:    total,
		state:    state,
	}
}

// OnSentinelVisible loads the next page. It reports whether a page was appended.
// Calls made while a load is in flight or after the list is exhausted do nothing.
// On failure the page counter is unchanged and the pager returns to idle so the
// next trigger retries the same page.
func (p *Pager) OnSentinelVisible(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return false, nil
	}
	p.state = StateLoadingMore
	next := p.page + 1
	p.mu.Unlock()

	products, total, err := p.fetcher.FetchPage(ctx, next, p.pageSize, p.search)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.state = StateIdle
		return false, err
	}

	p.items = append(p.items, products...)
	p.page = next
	p.total = total

	// an empty page means the server has nothing more, whatever the total says
	if int64(len(p.items)) >= p.total || len(products) == 0 {
		p.state = StateExhausted
	} else {
		p.state = StateIdle
	}
	return true, nil
}

// Items returns a copy of the held products
func (p *Pager) Items() []domain.ProductWithFavoriteID {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]domain.ProductWithFavoriteID, len(p.items))
	copy(items, p.items)
	return items
}

func (p *Pager) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Page is the last page loaded, starting at 1
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Pager) Total() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// HasMore reports whether the sentinel should still be shown
func (p *Pager) HasMore() bool {
	return p.State() != StateExhausted
}
