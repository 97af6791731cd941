package order

import (
	"context"

	"github.com/promodeagro/packer-cli/store"
)

// Cursor is a resumable browsing session over orders in one status. It
// keeps the token history so the operator can page forward and back, and
// lives only in the calling process; nothing is persisted server-side.
type Cursor struct {
	repo     *Repository
	status   Status
	pageSize int32

	// tokens[i] fetches page i; tokens[0] is nil for the first page.
	tokens  []store.PageToken
	pos     int
	current []Order
}

// NewCursor creates a cursor over orders in the given status.
func NewCursor(repo *Repository, status Status, pageSize int32) *Cursor {
	c := &Cursor{repo: repo, status: status, pageSize: pageSize}
	c.Reset()
	return c
}

// NextPage fetches the next page, or ErrEndOfResults past the last one.
func (c *Cursor) NextPage(ctx context.Context) ([]Order, error) {
	next := c.pos + 1
	if next >= len(c.tokens) {
		return nil, ErrEndOfResults
	}
	return c.fetch(ctx, next)
}

// PrevPage refetches the previous page, or ErrFirstPage when there is none.
// The page is re-read from the store, so its contents can differ from the
// earlier visit.
func (c *Cursor) PrevPage(ctx context.Context) ([]Order, error) {
	if c.pos <= 0 {
		return nil, ErrFirstPage
	}
	return c.fetch(ctx, c.pos-1)
}

// Page returns the most recently fetched page.
func (c *Cursor) Page() []Order {
	return c.current
}

// PageNumber returns the 1-based number of the current page, 0 before the
// first fetch.
func (c *Cursor) PageNumber() int {
	return c.pos + 1
}

// Reset discards all cursor state; the next NextPage starts from the
// first page.
func (c *Cursor) Reset() {
	c.tokens = []store.PageToken{nil}
	c.pos = -1
	c.current = nil
}

func (c *Cursor) fetch(ctx context.Context, pos int) ([]Order, error) {
	orders, next, err := c.repo.ListByStatus(ctx, c.status, c.tokens[pos], c.pageSize)
	if err != nil {
		return nil, err
	}
	c.pos = pos
	c.current = orders
	if next != nil && pos+1 == len(c.tokens) {
		c.tokens = append(c.tokens, next)
	}
	return orders, nil
}
