package listing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/carpenter-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeFetcher struct {
	mu      sync.Mutex
	queries []Query
	total   int64
	err     error
	gate    chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, q Query) (Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	gate, total, err := f.gate, f.total, f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return Result{}, err
	}
	return Result{
		Docs:       []Product{{ID: uint(q.Page), Name: "Door"}},
		TotalDocs:  total,
		TotalPages: pagination.TotalPages(total, q.Limit),
		Page:       q.Page,
	}, nil
}

func (f *fakeFetcher) Queries() []Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Query, len(f.queries))
	copy(out, f.queries)
	return out
}

func (f *fakeFetcher) last() Query {
	qs := f.Queries()
	return qs[len(qs)-1]
}

func newController(t *testing.T, f *fakeFetcher, initial State) *Controller {
	t.Helper()
	c := New(context.Background(), f, initial, WithDelay(10*time.Millisecond))
	t.Cleanup(c.Close)
	c.Start()
	c.Wait()
	return c
}

func TestControllerInitialFetchUsesURLState(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{total: 30}
	c := newController(t, f, State{Page: 2, Search: "oak", Category: "4"})

	assert.Equal(t, Query{Page: 2, Limit: PageSize, Search: "oak", Category: "4"}, f.last())
	v := c.View()
	assert.Equal(t, "oak", v.Draft)
	assert.Equal(t, int64(30), v.TotalDocs)
	assert.Equal(t, 3, v.TotalPages)
	assert.False(t, v.Loading)
	assert.Equal(t, []pagination.Marker{1, 2, 3}, v.Window)
	c.Close()
}

func TestControllerDraftCommitsAfterDelay(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{total: 5}
	c := newController(t, f, State{Page: 3})

	c.SetDraft("w")
	c.SetDraft("wa")
	c.SetDraft("wal")
	c.SetDraft("waln")
	assert.Equal(t, "waln", c.View().Draft)

	require.Eventually(t, func() bool { return len(f.Queries()) == 2 }, time.Second, 5*time.Millisecond)
	c.Wait()
	assert.Equal(t, Query{Page: 1, Limit: PageSize, Search: "waln", Category: "all"}, f.last())
	assert.Equal(t, "waln", c.View().State.Search)
	c.Close()
}

func TestControllerShortDraftNeverSearches(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{}
	c := newController(t, f, DefaultState())

	c.SetDraft("ok")
	time.Sleep(50 * time.Millisecond)
	c.Wait()

	assert.Len(t, f.Queries(), 1)
	assert.Equal(t, "", c.View().State.Search)
	c.Close()
}

func TestControllerEmptyDraftClearsSearch(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{}
	c := newController(t, f, State{Page: 1, Search: "oak"})

	c.SetDraft("")
	require.Eventually(t, func() bool { return len(f.Queries()) == 2 }, time.Second, 5*time.Millisecond)
	c.Wait()
	assert.Equal(t, "", f.last().Search)
	c.Close()
}

func TestControllerCategoryResetsPage(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{total: 100}
	c := newController(t, f, State{Page: 5})

	c.SetCategory("2")
	c.Wait()
	assert.Equal(t, Query{Page: 1, Limit: PageSize, Category: "2"}, f.last())

	c.SetCategory("")
	c.Wait()
	assert.Equal(t, "all", f.last().Category)
	c.Close()
}

func TestControllerSetPageClamps(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{total: 100}
	c := newController(t, f, DefaultState())

	c.SetPage(4)
	c.Wait()
	assert.Equal(t, 4, f.last().Page)
	assert.Equal(t, []pagination.Marker{1, 2, 3, 4, 5, pagination.Dots, 9}, c.View().Window)

	c.SetPage(-2)
	c.Wait()
	assert.Equal(t, 1, f.last().Page)
	c.Close()
}

func TestControllerClearFiltersDropsPendingDraft(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{}
	c := New(context.Background(), f, State{Page: 3, Search: "oak", Category: "2"}, WithDelay(30*time.Millisecond))
	defer c.Close()
	c.Start()
	c.Wait()

	c.SetDraft("maple")
	c.ClearFilters()
	c.Wait()
	time.Sleep(60 * time.Millisecond)
	c.Wait()

	qs := f.Queries()
	require.Len(t, qs, 2)
	assert.Equal(t, Query{Page: 1, Limit: PageSize, Category: "all"}, qs[1])
	v := c.View()
	assert.Equal(t, "", v.Draft)
	assert.Equal(t, DefaultState(), v.State)
	c.Close()
}

func TestControllerLoadingWhileInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{gate: make(chan struct{})}
	c := New(context.Background(), f, DefaultState())
	c.Start()

	require.Eventually(t, func() bool { return len(f.Queries()) == 1 }, time.Second, time.Millisecond)
	assert.True(t, c.View().Loading)

	close(f.gate)
	c.Wait()
	assert.False(t, c.View().Loading)
	c.Close()
}

func TestControllerFetchErrorEmptiesList(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{total: 40}
	c := newController(t, f, DefaultState())
	require.Len(t, c.View().Products, 1)

	f.mu.Lock()
	f.err = errors.New("boom")
	f.mu.Unlock()
	c.SetPage(2)
	c.Wait()

	v := c.View()
	assert.Empty(t, v.Products)
	assert.Zero(t, v.TotalDocs)
	assert.Empty(t, v.Window)
	c.Close()
}

func TestControllerOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{total: 1}
	views := make(chan View, 4)
	c := New(context.Background(), f, DefaultState(), WithOnChange(func(v View) { views <- v }))
	c.Start()
	c.Wait()
	c.Close()

	select {
	case v := <-views:
		assert.Len(t, v.Products, 1)
		assert.False(t, v.Loading)
	case <-time.After(time.Second):
		t.Fatal("onChange not called")
	}
}

func TestControllerIgnoresCallsAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{}
	c := newController(t, f, DefaultState())
	c.Close()

	c.SetPage(3)
	c.SetCategory("2")
	c.SetDraft("walnut")
	c.ClearFilters()
	c.Wait()
	assert.Len(t, f.Queries(), 1)
}

func TestControllerCommitDraftSkipsDelay(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := &fakeFetcher{total: 5}
	c := New(context.Background(), f, DefaultState(), WithDelay(time.Hour))
	t.Cleanup(c.Close)
	c.Start()
	c.Wait()

	c.SetDraft("maple")
	c.CommitDraft()
	c.Wait()

	assert.Equal(t, "maple", f.last().Search)
	assert.Len(t, f.Queries(), 2)
	c.Close()
}
