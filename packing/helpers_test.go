package packing_test

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/promodeagro/packer-cli/internal/memstore"
	"github.com/promodeagro/packer-cli/order"
	"github.com/promodeagro/packer-cli/packing"
	"github.com/promodeagro/packer-cli/store"
)

var testEvidence = order.Evidence{
	PhotoURL: "https://media.example/p.jpg",
	VideoURL: "https://media.example/v.mp4",
	PackedBy: "P1",
}

type fixture struct {
	store  *memstore.Store
	config store.Config
	repo   *order.Repository
	ledger *packing.Ledger
	engine *packing.Engine
}

func newFixture() *fixture {
	cfg := store.DefaultConfig()
	s := memstore.New()
	s.CreateTable(cfg.OrdersTable, "id")

	repo := order.NewRepository(s, cfg)
	ledger := packing.NewLedger(repo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		store:  s,
		config: cfg,
		repo:   repo,
		ledger: ledger,
		engine: packing.NewEngine(repo, ledger, logger),
	}
}

func (f *fixture) seedOrder(id string, status order.Status, itemIDs ...string) {
	items := make([]types.AttributeValue, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		items = append(items, &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"item_id":     store.S(itemID),
			"productName": store.S("Alphonso Mangoes 1kg"),
			"quantity":    &types.AttributeValueMemberN{Value: "2"},
		}})
	}
	f.store.Put(f.config.OrdersTable, store.Record{
		"id":        store.S(id),
		"status":    store.S(string(status)),
		"createdAt": store.S("2024-05-01T10:00:00Z"),
		"items":     &types.AttributeValueMemberL{Value: items},
	})
}

func (f *fixture) seedUnpacked(n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("ORD-%03d", i)
		f.seedOrder(id, order.StatusUnpacked, "A", "B")
		ids = append(ids, id)
	}
	return ids
}
