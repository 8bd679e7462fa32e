package listing

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	"github.com/angelmondragon/carpenter-backend/pkg/pagination"
)

// DebounceDelay is how long typing must pause before a search is committed.
const DebounceDelay = 500 * time.Millisecond

// View is a snapshot of everything a listing UI draws.
type View struct {
	State      State
	Draft      string
	Products   []Product
	TotalDocs  int64
	TotalPages int
	Loading    bool
	Window     []pagination.Marker
}

type Option func(*Controller)

func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.logg = l }
}

// WithOnChange registers a callback that receives a view after every fetch
// completes. It runs on the fetching goroutine.
func WithOnChange(fn func(View)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller owns the product listing state: committed filters, the search
// draft, the current page of results and the loading flag.
type Controller struct {
	ctx     context.Context
	fetcher Fetcher
	delay   time.Duration
	logg    *logger.Logger

	onChange func(View)
	debounce *Debouncer

	mu         sync.Mutex
	idle       *sync.Cond
	state      State
	draft      string
	products   []Product
	totalDocs  int64
	totalPages int
	inFlight   int
	closed     bool
}

// New builds a controller from an initial state, typically parsed from a
// URL. Call Start to issue the first fetch.
func New(ctx context.Context, fetcher Fetcher, initial State, opts ...Option) *Controller {
	c := &Controller{
		ctx:     ctx,
		fetcher: fetcher,
		delay:   DebounceDelay,
		state:   initial.normalize(),
	}
	c.draft = c.state.Search
	c.idle = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}
	c.debounce = NewDebouncer(c.delay)
	return c
}

func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchLocked()
}

// SetDraft records the search box text and schedules a commit.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.draft = text
	c.mu.Unlock()
	c.debounce.Trigger(c.commitDraft)
}

func (c *Controller) commitDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !shouldCommit(c.draft, c.state.Search) {
		return
	}
	c.state.Search = c.draft
	c.state.Page = 1
	c.fetchLocked()
}

// CommitDraft commits a pending search draft immediately.
func (c *Controller) CommitDraft() {
	c.debounce.Flush()
}

func (c *Controller) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.Category = category
	c.state.Page = 1
	c.state = c.state.normalize()
	c.fetchLocked()
}

func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.Page = page
	c.state = c.state.normalize()
	c.fetchLocked()
}

// ClearFilters resets search, draft and category and returns to page 1. A
// pending draft commit is dropped.
func (c *Controller) ClearFilters() {
	c.debounce.Cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.draft = ""
	c.state = DefaultState()
	c.fetchLocked()
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Wait blocks until no fetch is in flight.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.inFlight > 0 {
		c.idle.Wait()
	}
}

// Close stops the debouncer, waits for in-flight fetches and turns later
// calls into no-ops.
func (c *Controller) Close() {
	c.debounce.Stop()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.Wait()
}

func (c *Controller) viewLocked() View {
	products := make([]Product, len(c.products))
	copy(products, c.products)
	return View{
		State:      c.state,
		Draft:      c.draft,
		Products:   products,
		TotalDocs:  c.totalDocs,
		TotalPages: c.totalPages,
		Loading:    c.inFlight > 0,
		Window:     pagination.Window(int(c.totalDocs), PageSize, pagination.DefaultSiblingCount, c.state.Page),
	}
}

// fetchLocked starts a fetch for the current state. Responses are applied in
// the order they arrive.
func (c *Controller) fetchLocked() {
	q := Query{
		Page:     c.state.Page,
		Limit:    PageSize,
		Search:   c.state.Search,
		Category: c.state.Category,
	}
	c.inFlight++
	go c.runFetch(q)
}

func (c *Controller) runFetch(q Query) {
	res, err := c.fetcher.Fetch(c.ctx, q)

	c.mu.Lock()
	c.inFlight--
	if err != nil {
		if c.logg != nil {
			ctx := c.logg.WithFields(c.ctx, map[string]any{"page": q.Page, "search": q.Search, "category": q.Category})
			c.logg.Warn(ctx, "listing.fetch_failed: "+err.Error())
		}
		res = Result{}
	}
	c.products = res.Docs
	if c.products == nil {
		c.products = []Product{}
	}
	c.totalDocs = res.TotalDocs
	c.totalPages = res.TotalPages
	view := c.viewLocked()
	c.idle.Broadcast()
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(view)
	}
}
