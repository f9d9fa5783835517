package query

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/five82/rosarium/internal/catalog"
)

const (
	// PageSize is the fixed server page length the page math is built on.
	PageSize = 9

	// freshnessWindow is the maximum age a cache entry can be served at.
	freshnessWindow = 5 * time.Minute

	loadFailedMessage = "Could not load roses. Check the connection and try again."
)

// Params is the canonical query state: the Go stand-in for the URL search
// parameters that drive the rose list.
type Params struct {
	Search   string
	Group    string
	Ordering string // "title", "-title", or empty
	Page     int    // 1-based
}

func (p Params) normalized() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// Key returns the canonical serialization identifying one page of
// filtered/sorted results. Absent fields are omitted; the page defaults
// to 1.
func (p Params) Key() string {
	p = p.normalized()
	values := url.Values{}
	if p.Search != "" {
		values.Set("search", p.Search)
	}
	if p.Group != "" {
		values.Set("group", p.Group)
	}
	if p.Ordering != "" {
		values.Set("ordering", p.Ordering)
	}
	values.Set("page", strconv.Itoa(p.Page))
	return values.Encode()
}

func (p Params) listQuery() catalog.ListQuery {
	p = p.normalized()
	return catalog.ListQuery{
		Search:   p.Search,
		Group:    p.Group,
		Ordering: p.Ordering,
		Page:     p.Page,
	}
}

// Result is what the controller publishes to the view: one page of roses
// plus pagination metadata. Read failures arrive here as an empty list
// with Message set; they never propagate as errors.
type Result struct {
	Roses      []catalog.Rose
	Message    string
	Page       int
	TotalPages int
	Count      int

	// Superseded marks a response that lost the race against a newer
	// resolution for this controller. Consumers drop it.
	Superseded bool
}

type entry struct {
	at         time.Time
	roses      []catalog.Rose
	message    string
	totalPages int
	count      int
}

func (e entry) result(page int) Result {
	return Result{
		Roses:      cloneRoses(e.roses),
		Message:    e.message,
		Page:       page,
		TotalPages: e.totalPages,
		Count:      e.count,
	}
}

// Controller keeps the visible rose list consistent with the current query
// params while minimizing redundant fetches. One instance owns its cache
// mapping exclusively; invalidation is the only external reset path.
type Controller struct {
	mu         sync.Mutex
	lister     catalog.Lister
	deleteRose func(ctx context.Context, id int64) error
	now        func() time.Time
	pageSize   int
	ttl        time.Duration

	params  Params
	cache   map[string]entry
	lastKey string
	gen     uint64
}

// NewController builds a Controller. deleteRose performs the actual
// removal (the mutation façade's Remove, typically) and may be nil in
// read-only wiring.
func NewController(lister catalog.Lister, deleteRose func(ctx context.Context, id int64) error) *Controller {
	return &Controller{
		lister:     lister,
		deleteRose: deleteRose,
		now:        time.Now,
		pageSize:   PageSize,
		ttl:        freshnessWindow,
		cache:      make(map[string]entry),
		params:     Params{Page: 1},
	}
}

// Params returns the current query state.
func (c *Controller) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// SetSearch replaces the search text and resets to page 1. The caller
// re-resolves; mutation of the params never fetches by itself.
func (c *Controller) SetSearch(search string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Search = search
	c.params.Page = 1
}

// SetGroup replaces the group filter and resets to page 1.
func (c *Controller) SetGroup(group string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Group = group
	c.params.Page = 1
}

// SetOrdering replaces the sort order, resets to page 1, and drops the
// whole cache: pages fetched under a different ordering are never reused.
func (c *Controller) SetOrdering(ordering string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Ordering = ordering
	c.params.Page = 1
	c.invalidateLocked()
}

// ChangePage rewrites the page number. It does not fetch; the standard
// re-resolution path picks the change up.
func (c *Controller) ChangePage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Page = page
}

// Invalidate clears the cache mapping and the last-resolved marker. It
// does not itself re-fetch.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
}

func (c *Controller) invalidateLocked() {
	c.cache = make(map[string]entry)
	c.lastKey = ""
}

// Resolve derives the canonical key from the current params and serves it.
// With force false and an unchanged key backed by a fresh entry, the cached
// page is republished with zero network calls; this is the cheap common
// re-render path and is idempotent. Otherwise exactly one fetch is issued,
// stored under the key, and published.
func (c *Controller) Resolve(ctx context.Context, force bool) Result {
	c.mu.Lock()
	c.params = c.params.normalized()
	key := c.params.Key()
	if !force && key == c.lastKey {
		if e, ok := c.cache[key]; ok && c.now().Sub(e.at) < c.ttl {
			res := e.result(c.params.Page)
			c.mu.Unlock()
			return res
		}
	}
	c.gen++
	gen := c.gen
	params := c.params
	c.mu.Unlock()

	page, err := c.lister.List(ctx, params.listQuery())

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A newer resolution was issued while this one was in flight.
		return Result{Superseded: true}
	}
	if err != nil {
		e := entry{at: c.now(), message: loadFailedMessage, totalPages: 1}
		c.cache[key] = e
		c.lastKey = key
		c.params.Page = 1
		return e.result(1)
	}
	e := entry{
		at:         c.now(),
		roses:      page.Results,
		totalPages: totalPages(page.Count, c.pageSize),
		count:      page.Count,
	}
	c.cache[key] = e
	c.lastKey = key
	return e.result(params.Page)
}

// Delete removes a rose, invalidates the cache, and re-resolves. When the
// deleted rose was the only item on a page beyond page 1, the page number
// backs off by one before the re-fetch. The error reports the mutation
// outcome; the Result is usable only when the error is nil.
func (c *Controller) Delete(ctx context.Context, id int64) (Result, error) {
	c.mu.Lock()
	page := c.params.normalized().Page
	itemsOnPage := -1
	if e, ok := c.cache[c.lastKey]; ok {
		itemsOnPage = len(e.roses)
	}
	c.mu.Unlock()

	if c.deleteRose != nil {
		if err := c.deleteRose(ctx, id); err != nil {
			return Result{Superseded: true}, err
		}
	}

	c.Invalidate()
	if itemsOnPage == 1 && page > 1 {
		c.ChangePage(page - 1)
	}
	return c.Resolve(ctx, true), nil
}

func totalPages(count, pageSize int) int {
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func cloneRoses(roses []catalog.Rose) []catalog.Rose {
	if len(roses) == 0 {
		return nil
	}
	dup := make([]catalog.Rose, len(roses))
	copy(dup, roses)
	return dup
}
