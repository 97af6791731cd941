package order_test

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/promodeagro/packer-cli/internal/memstore"
	"github.com/promodeagro/packer-cli/order"
	"github.com/promodeagro/packer-cli/store"
)

func newTestStore() (*memstore.Store, store.Config) {
	cfg := store.DefaultConfig()
	s := memstore.New()
	s.CreateTable(cfg.OrdersTable, "id")
	return s, cfg
}

// orderRecord builds a raw orders-table record with one embedded item per
// id, carrying descriptive attributes the workflow must pass through.
func orderRecord(id string, status order.Status, itemIDs ...string) store.Record {
	items := make([]types.AttributeValue, 0, len(itemIDs))
	for i, itemID := range itemIDs {
		items = append(items, &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"item_id":     store.S(itemID),
			"productName": store.S(fmt.Sprintf("Product %d", i+1)),
			"quantity":    &types.AttributeValueMemberN{Value: "2"},
		}})
	}
	return store.Record{
		"id":        store.S(id),
		"status":    store.S(string(status)),
		"createdAt": store.S("2024-05-01T10:00:00Z"),
		"items":     &types.AttributeValueMemberL{Value: items},
	}
}

func seedOrders(s *memstore.Store, cfg store.Config, status order.Status, n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s-%03d", status, i)
		s.Put(cfg.OrdersTable, orderRecord(id, status, "A", "B"))
		ids = append(ids, id)
	}
	return ids
}
