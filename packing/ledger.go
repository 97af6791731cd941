// Package packing implements the order packing workflow: the per-item
// availability ledger and the state machine that moves orders from
// unpacked to packed.
package packing

import (
	"context"
	"fmt"

	"github.com/promodeagro/packer-cli/order"
	"github.com/promodeagro/packer-cli/store"
)

// Ledger records per-item availability and keeps the derived packing
// summary consistent with the item sequence.
type Ledger struct {
	orders *order.Repository
}

// NewLedger creates a ledger over the order repository.
func NewLedger(orders *order.Repository) *Ledger {
	return &Ledger{orders: orders}
}

// SetItemAvailability marks one item and persists the item mutation
// together with the recomputed summary as a single order patch. Items are
// embedded in the order record, so no multi-document transaction is
// needed. A concurrent writer surfaces as store.ErrConditionFailed;
// re-read and retry.
func (l *Ledger) SetItemAvailability(ctx context.Context, orderID, itemID string, av order.Availability) (order.Order, error) {
	o, err := l.orders.GetByID(ctx, orderID)
	if err != nil {
		return order.Order{}, err
	}

	found := false
	for i := range o.Items {
		if o.Items[i].ID != itemID {
			continue
		}
		o.Items[i].Availability = av
		o.Items[i].Raw["availability"] = store.S(string(av))
		found = true
		break
	}
	if !found {
		return order.Order{}, fmt.Errorf("order %s item %s: %w", orderID, itemID, store.ErrNotFound)
	}

	return l.orders.UpdateItems(ctx, o, order.ComputeSummary(o.Items))
}

// Summary recomputes the packing summary from the order's current item
// sequence. This is the same classification the write path runs, so a read
// can never drift from the items.
func (l *Ledger) Summary(ctx context.Context, orderID string) (order.PackingSummary, error) {
	o, err := l.orders.GetByID(ctx, orderID)
	if err != nil {
		return order.PackingSummary{}, err
	}
	return order.ComputeSummary(o.Items), nil
}
