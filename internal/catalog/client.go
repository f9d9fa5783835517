// Package catalog defines the rose-garden resource types and the typed
// read client over the shared transport.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/five82/rosarium/internal/api"
)

// Lister is the read surface the query controller depends on. Implemented
// by *Client; fakes stand in for it in tests.
type Lister interface {
	List(ctx context.Context, q ListQuery) (Page, error)
}

var _ Lister = (*Client)(nil)

// Client issues the catalog's read requests.
type Client struct {
	api *api.Client
}

// NewClient wraps the shared transport.
func NewClient(transport *api.Client) *Client {
	return &Client{api: transport}
}

// ListQuery configures GET /roses/ requests.
type ListQuery struct {
	Search   string
	Group    string
	Ordering string // "title", "-title", or empty for server default
	Page     int    // 1-based; zero means page 1
}

// Values encodes the query with absent fields omitted.
func (q ListQuery) Values() url.Values {
	values := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		values.Set("search", s)
	}
	if g := strings.TrimSpace(q.Group); g != "" {
		values.Set("group", g)
	}
	if o := strings.TrimSpace(q.Ordering); o != "" {
		values.Set("ordering", o)
	}
	if q.Page > 1 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	return values
}

// List retrieves one page of filtered, sorted roses.
func (c *Client) List(ctx context.Context, q ListQuery) (Page, error) {
	if c == nil {
		return Page{}, fmt.Errorf("client is nil")
	}
	var page Page
	if err := c.api.Do(ctx, http.MethodGet, "/roses/", q.Values(), nil, &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// Get retrieves a single rose with all nested sub-records.
func (c *Client) Get(ctx context.Context, id int64) (*Rose, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var rose Rose
	path := fmt.Sprintf("/roses/%d/", id)
	if err := c.api.Do(ctx, http.MethodGet, path, nil, nil, &rose); err != nil {
		return nil, err
	}
	return &rose, nil
}

// Groups retrieves the classification groups for the filter menu.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.api.Do(ctx, http.MethodGet, "/groups/", nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Breeders retrieves the known breeders.
func (c *Client) Breeders(ctx context.Context) ([]Breeder, error) {
	var breeders []Breeder
	if err := c.api.Do(ctx, http.MethodGet, "/breeders/", nil, nil, &breeders); err != nil {
		return nil, err
	}
	return breeders, nil
}
