package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/five82/rosarium/internal/catalog"
)

type fakeLister struct {
	mu    sync.Mutex
	calls []catalog.ListQuery
	page  catalog.Page
	err   error
}

func (f *fakeLister) List(_ context.Context, q catalog.ListQuery) (catalog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	if f.err != nil {
		return catalog.Page{}, f.err
	}
	return f.page, nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func roses(n int) []catalog.Rose {
	out := make([]catalog.Rose, n)
	for i := range out {
		out[i] = catalog.Rose{ID: int64(i + 1), Title: fmt.Sprintf("rose %d", i+1)}
	}
	return out
}

// testController returns a controller with a controllable clock.
func testController(lister catalog.Lister, deleteRose func(context.Context, int64) error) (*Controller, *time.Time) {
	c := NewController(lister, deleteRose)
	now := time.Date(2026, 5, 14, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestParams_KeyCanonicalization(t *testing.T) {
	t.Parallel()

	base := Params{Search: "charlotte", Page: 2}
	if base.Key() != (Params{Search: "charlotte", Page: 2}).Key() {
		t.Fatalf("identical params produced different keys")
	}
	if (Params{}).Key() != (Params{Page: 1}).Key() {
		t.Fatalf("absent page and page 1 must share a key")
	}
	if (Params{Search: "a"}).Key() == (Params{Group: "a"}).Key() {
		t.Fatalf("search and group must not collide")
	}
}

func TestResolve_FreshEntryServedWithoutNetwork(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: catalog.Page{Results: roses(9), Count: 25}}
	c, _ := testController(lister, nil)

	first := c.Resolve(context.Background(), false)
	if first.TotalPages != 3 || len(first.Roses) != 9 {
		t.Fatalf("first resolve = %d pages, %d roses; want 3 pages, 9 roses", first.TotalPages, len(first.Roses))
	}
	second := c.Resolve(context.Background(), false)
	if lister.callCount() != 1 {
		t.Fatalf("network calls = %d, want 1 (second resolve served from cache)", lister.callCount())
	}
	if len(second.Roses) != 9 || second.Count != 25 {
		t.Fatalf("cached result = %d roses count %d, want 9 and 25", len(second.Roses), second.Count)
	}
}

func TestResolve_ExpiredEntryRefetches(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: catalog.Page{Results: roses(3), Count: 3}}
	c, now := testController(lister, nil)

	c.Resolve(context.Background(), false)
	*now = now.Add(5*time.Minute + time.Second)
	c.Resolve(context.Background(), false)

	if lister.callCount() != 2 {
		t.Fatalf("network calls = %d, want 2 after freshness window elapsed", lister.callCount())
	}
}

func TestResolve_ForceBypassesFreshness(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: catalog.Page{Results: roses(1), Count: 1}}
	c, _ := testController(lister, nil)

	c.Resolve(context.Background(), false)
	c.Resolve(context.Background(), true)
	if lister.callCount() != 2 {
		t.Fatalf("network calls = %d, want 2 with force", lister.callCount())
	}
}

func TestInvalidate_ForcesNetworkCall(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: catalog.Page{Results: roses(2), Count: 2}}
	c, _ := testController(lister, nil)

	c.Resolve(context.Background(), false)
	c.Invalidate()
	c.Resolve(context.Background(), false)
	if lister.callCount() != 2 {
		t.Fatalf("network calls = %d, want 2 after invalidate", lister.callCount())
	}
}

func TestSetOrdering_DropsCache(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: catalog.Page{Results: roses(2), Count: 2}}
	c, _ := testController(lister, nil)

	c.Resolve(context.Background(), false)
	c.SetOrdering("title")
	c.SetOrdering("") // back to the original params
	c.Resolve(context.Background(), false)
	if lister.callCount() != 2 {
		t.Fatalf("network calls = %d, want 2: ordering change must not reuse old pages", lister.callCount())
	}
}

func TestResolve_PageMathMatchesServerCount(t *testing.T) {
	t.Parallel()

	// ?search=charlotte&page=2 with 25 total and 7 on this page.
	lister := &fakeLister{page: catalog.Page{Results: roses(7), Count: 25}}
	c, _ := testController(lister, nil)
	c.SetSearch("charlotte")
	c.ChangePage(2)

	res := c.Resolve(context.Background(), false)
	if res.TotalPages != 3 || res.Page != 2 || len(res.Roses) != 7 {
		t.Fatalf("result = page %d/%d with %d roses, want 2/3 with 7",
			res.Page, res.TotalPages, len(res.Roses))
	}

	q := lister.calls[0]
	if q.Search != "charlotte" || q.Page != 2 {
		t.Fatalf("list query = %+v, want search charlotte page 2", q)
	}
}

func TestResolve_EmptyCountStillOnePage(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: catalog.Page{Count: 0}}
	c, _ := testController(lister, nil)
	res := c.Resolve(context.Background(), false)
	if res.TotalPages != 1 {
		t.Fatalf("TotalPages = %d, want floor of 1", res.TotalPages)
	}
}

func TestResolve_FailurePublishesMessageAndResetsPage(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{err: errors.New("connection refused")}
	c, _ := testController(lister, nil)
	c.ChangePage(3)

	res := c.Resolve(context.Background(), false)
	if res.Message == "" || len(res.Roses) != 0 {
		t.Fatalf("result = %+v, want empty roses with failure message", res)
	}
	if res.Page != 1 || c.Params().Page != 1 {
		t.Fatalf("page = %d (params %d), want reset to 1", res.Page, c.Params().Page)
	}
}

func TestDelete_LastItemOnTrailingPageBacksOff(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: catalog.Page{Results: roses(1), Count: 19}}
	var deleted []int64
	c, _ := testController(lister, func(_ context.Context, id int64) error {
		deleted = append(deleted, id)
		return nil
	})
	c.ChangePage(3)

	// Populate the cache so the controller knows page 3 holds one item.
	c.Resolve(context.Background(), false)
	lister.mu.Lock()
	lister.page = catalog.Page{Results: roses(9), Count: 18}
	lister.mu.Unlock()

	res, err := c.Delete(context.Background(), 1)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != 1 {
		t.Fatalf("deleted ids = %v, want [1]", deleted)
	}
	if c.Params().Page != 2 || res.Page != 2 {
		t.Fatalf("page after delete = %d (result %d), want back-off to 2", c.Params().Page, res.Page)
	}

	q := lister.calls[len(lister.calls)-1]
	if q.Page != 2 {
		t.Fatalf("re-fetch page = %d, want 2", q.Page)
	}
}

func TestDelete_NonLastItemRefetchesCurrentPage(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: catalog.Page{Results: roses(5), Count: 14}}
	c, _ := testController(lister, func(context.Context, int64) error { return nil })
	c.ChangePage(2)
	c.Resolve(context.Background(), false)

	res, err := c.Delete(context.Background(), 2)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if c.Params().Page != 2 || res.Page != 2 {
		t.Fatalf("page after delete = %d, want unchanged 2", c.Params().Page)
	}
	if lister.callCount() != 2 {
		t.Fatalf("network calls = %d, want 2 (initial + forced re-fetch)", lister.callCount())
	}
}

func TestDelete_MutationFailureLeavesViewIntact(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{page: catalog.Page{Results: roses(4), Count: 4}}
	c, _ := testController(lister, func(context.Context, int64) error {
		return errors.New("forbidden")
	})
	c.Resolve(context.Background(), false)

	res, err := c.Delete(context.Background(), 9)
	if err == nil {
		t.Fatalf("Delete returned nil error, want mutation failure")
	}
	if !res.Superseded {
		t.Fatalf("failed delete result must be marked Superseded so consumers drop it")
	}
	if lister.callCount() != 1 {
		t.Fatalf("network calls = %d, want no re-fetch after failed delete", lister.callCount())
	}
}
