package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/promodeagro/packer-cli/order"
)

func collectIDs(orders []order.Order) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestCursor_ForwardTraversal(t *testing.T) {
	s, cfg := newTestStore()
	ids := seedOrders(s, cfg, order.StatusUnpacked, 5)
	repo := order.NewRepository(s, cfg)
	cursor := order.NewCursor(repo, order.StatusUnpacked, 2)
	ctx := context.Background()

	var all []string
	for {
		page, err := cursor.NextPage(ctx)
		if errors.Is(err, order.ErrEndOfResults) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		all = append(all, collectIDs(page)...)
	}

	if len(all) != len(ids) {
		t.Fatalf("traversal returned %d orders, expected %d", len(all), len(ids))
	}
	for i, id := range ids {
		if all[i] != id {
			t.Errorf("position %d: got %s, expected %s", i, all[i], id)
		}
	}

	// Further calls keep reporting the end.
	if _, err := cursor.NextPage(ctx); !errors.Is(err, order.ErrEndOfResults) {
		t.Errorf("expected ErrEndOfResults again, got %v", err)
	}
}

func TestCursor_PrevPage(t *testing.T) {
	s, cfg := newTestStore()
	seedOrders(s, cfg, order.StatusUnpacked, 6)
	repo := order.NewRepository(s, cfg)
	cursor := order.NewCursor(repo, order.StatusUnpacked, 2)
	ctx := context.Background()

	first, err := cursor.NextPage(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cursor.NextPage(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	back, err := cursor.PrevPage(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cursor.PageNumber() != 1 {
		t.Errorf("expected to be back on page 1, got %d", cursor.PageNumber())
	}
	firstIDs, backIDs := collectIDs(first), collectIDs(back)
	for i := range firstIDs {
		if backIDs[i] != firstIDs[i] {
			t.Errorf("page differs after going back: %v vs %v", backIDs, firstIDs)
		}
	}

	if _, err := cursor.PrevPage(ctx); !errors.Is(err, order.ErrFirstPage) {
		t.Errorf("expected ErrFirstPage, got %v", err)
	}
}

func TestCursor_PrevBeforeFirstFetch(t *testing.T) {
	s, cfg := newTestStore()
	repo := order.NewRepository(s, cfg)
	cursor := order.NewCursor(repo, order.StatusUnpacked, 2)

	if _, err := cursor.PrevPage(context.Background()); !errors.Is(err, order.ErrFirstPage) {
		t.Errorf("expected ErrFirstPage, got %v", err)
	}
}

func TestCursor_Reset(t *testing.T) {
	s, cfg := newTestStore()
	seedOrders(s, cfg, order.StatusUnpacked, 4)
	repo := order.NewRepository(s, cfg)
	cursor := order.NewCursor(repo, order.StatusUnpacked, 2)
	ctx := context.Background()

	first, err := cursor.NextPage(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cursor.NextPage(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cursor.Reset()
	if cursor.Page() != nil {
		t.Error("expected no cached page after reset")
	}

	again, err := cursor.NextPage(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if collectIDs(again)[0] != collectIDs(first)[0] {
		t.Errorf("expected reset to return to the first page, got %v", collectIDs(again))
	}
}

func TestCursor_EmptyListing(t *testing.T) {
	s, cfg := newTestStore()
	repo := order.NewRepository(s, cfg)
	cursor := order.NewCursor(repo, order.StatusPacked, 10)

	page, err := cursor.NextPage(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("expected empty first page, got %d orders", len(page))
	}
	if _, err := cursor.NextPage(context.Background()); !errors.Is(err, order.ErrEndOfResults) {
		t.Errorf("expected ErrEndOfResults, got %v", err)
	}
}
