// Package notify lists and writes notification records.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/promodeagro/packer-cli/store"
)

// TypeOrderPacked marks notifications emitted when an order is packed.
const TypeOrderPacked = "order_packed"

// Notification is one notifications-table record.
type Notification struct {
	ID        string `dynamodbav:"id"`
	UserID    string `dynamodbav:"user_id"`
	OrderID   string `dynamodbav:"order_id,omitempty"`
	Type      string `dynamodbav:"type"`
	Message   string `dynamodbav:"message"`
	CreatedAt string `dynamodbav:"createdAt"`
}

// Service provides notification listing and writes.
type Service struct {
	store  store.Adapter
	config store.Config
}

// NewService creates a notification service over the given adapter.
func NewService(adapter store.Adapter, config store.Config) *Service {
	return &Service{
		store:  adapter,
		config: config,
	}
}

// List returns up to limit notifications. With a userID it queries the
// user index; without one it falls back to a bounded scan.
func (s *Service) List(ctx context.Context, userID string, limit int32) ([]Notification, error) {
	var page store.Page
	var err error
	if userID != "" {
		page, err = s.store.QueryByIndex(ctx, store.QueryInput{
			Table:    s.config.NotificationsTable,
			Index:    s.config.UserIndex,
			KeyAttr:  "user_id",
			KeyValue: userID,
			Limit:    limit,
		})
	} else {
		page, err = s.store.Scan(ctx, s.config.NotificationsTable, nil, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]Notification, 0, len(page.Records))
	for _, rec := range page.Records {
		var n Notification
		if err := attributevalue.UnmarshalMap(rec, &n); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Put writes one notification record.
func (s *Service) Put(ctx context.Context, n Notification) error {
	rec, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	patch := store.Patch{Set: store.Record{}}
	for k, v := range rec {
		if k == "id" {
			continue
		}
		patch.Set[k] = v
	}
	return s.store.Update(ctx, s.config.NotificationsTable, store.PK{"id": store.S(n.ID)}, patch)
}
