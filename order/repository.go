package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/promodeagro/packer-cli/store"
)

// countPageSize bounds each page of the count traversal.
const countPageSize = 100

// Repository provides typed operations over the orders table.
type Repository struct {
	store  store.Adapter
	config store.Config
}

// NewRepository creates an order repository over the given adapter.
func NewRepository(adapter store.Adapter, config store.Config) *Repository {
	return &Repository{
		store:  adapter,
		config: config,
	}
}

// GetByID fetches one order, or store.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, orderID string) (Order, error) {
	rec, err := r.store.Get(ctx, r.config.OrdersTable, store.PK{"id": store.S(orderID)})
	if err != nil {
		return Order{}, fmt.Errorf("order %s: %w", orderID, err)
	}
	return Decode(rec)
}

// ListByStatus returns one page of orders in the given status, newest
// first per the status index range key. Ordering is store-defined and only
// stable enough for a single browsing session.
func (r *Repository) ListByStatus(ctx context.Context, status Status, token store.PageToken, pageSize int32) ([]Order, store.PageToken, error) {
	page, err := r.store.QueryByIndex(ctx, store.QueryInput{
		Table:    r.config.OrdersTable,
		Index:    r.config.StatusIndex,
		KeyAttr:  "status",
		KeyValue: string(status),
		Token:    token,
		Limit:    pageSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list %s orders: %w", status, err)
	}

	orders := make([]Order, 0, len(page.Records))
	for _, rec := range page.Records {
		o, err := Decode(rec)
		if err != nil {
			return nil, nil, err
		}
		orders = append(orders, o)
	}
	return orders, page.Next, nil
}

// CountByStatus walks the whole status index and counts. This is an O(n)
// traversal every call, not a maintained counter, and can be stale under
// concurrent writes.
func (r *Repository) CountByStatus(ctx context.Context, status Status) (int, error) {
	count := 0
	var token store.PageToken
	for {
		page, err := r.store.QueryByIndex(ctx, store.QueryInput{
			Table:    r.config.OrdersTable,
			Index:    r.config.StatusIndex,
			KeyAttr:  "status",
			KeyValue: string(status),
			Token:    token,
			Limit:    countPageSize,
		})
		if err != nil {
			return 0, fmt.Errorf("count %s orders: %w", status, err)
		}
		count += len(page.Records)
		if page.Next == nil {
			return count, nil
		}
		token = page.Next
	}
}

// UpdateStatus transitions an order to newStatus with the given evidence.
// The only defined transition is Unpacked -> Packed; the write carries a
// status guard so a concurrent completion loses cleanly. A lost guard is
// re-read to distinguish "already packed" from "order gone".
func (r *Repository) UpdateStatus(ctx context.Context, orderID string, newStatus Status, ev Evidence) (Order, error) {
	if newStatus != StatusPacked {
		return Order{}, fmt.Errorf("order %s to %q: %w", orderID, newStatus, ErrInvalidTransition)
	}
	if missing := ev.Missing(); len(missing) > 0 {
		return Order{}, &MissingEvidenceError{OrderID: orderID, Fields: missing}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	err := r.store.Update(ctx, r.config.OrdersTable, store.PK{"id": store.S(orderID)}, store.Patch{
		Set: store.Record{
			"status":          store.S(string(StatusPacked)),
			"packed_by":       store.S(ev.PackedBy),
			"packed_at":       store.S(now),
			"media_photo_url": store.S(ev.PhotoURL),
			"media_video_url": store.S(ev.VideoURL),
			"updatedAt":       store.S(now),
		},
		Condition: &store.Condition{
			Attr:   "status",
			Equals: store.S(string(StatusUnpacked)),
		},
	})
	if errors.Is(err, store.ErrConditionFailed) {
		current, gerr := r.GetByID(ctx, orderID)
		if gerr != nil {
			return Order{}, gerr
		}
		if current.Status == StatusPacked {
			return Order{}, fmt.Errorf("order %s already packed: %w", orderID, ErrInvalidTransition)
		}
		return Order{}, fmt.Errorf("order %s: %w", orderID, store.ErrConditionFailed)
	}
	if err != nil {
		return Order{}, fmt.Errorf("order %s: %w", orderID, err)
	}

	return r.GetByID(ctx, orderID)
}

// UpdateItems persists an order's item sequence and its recomputed summary
// as one patch, guarded on the updatedAt value the caller read. A lost
// guard means another writer touched the order; the caller should re-read
// and retry.
func (r *Repository) UpdateItems(ctx context.Context, o Order, sum PackingSummary) (Order, error) {
	sumAttr, err := marshalSummary(sum)
	if err != nil {
		return Order{}, fmt.Errorf("order %s: %w", o.ID, err)
	}

	guard := &store.Condition{Attr: "updatedAt"}
	if o.UpdatedAt != "" {
		guard.Equals = store.S(o.UpdatedAt)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	err = r.store.Update(ctx, r.config.OrdersTable, store.PK{"id": store.S(o.ID)}, store.Patch{
		Set: store.Record{
			"items":           marshalItems(o.Items),
			"packing_summary": sumAttr,
			"updatedAt":       store.S(now),
		},
		Condition: guard,
	})
	if err != nil {
		return Order{}, fmt.Errorf("order %s: %w", o.ID, err)
	}

	return r.GetByID(ctx, o.ID)
}
