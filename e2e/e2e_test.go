//go:build e2e

// Package e2e contains an end-to-end smoke test of the packing flow against
// a real DynamoDB table. Run with: go test -tags=e2e -v ./e2e/...
package e2e

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/promodeagro/packer-cli/order"
	"github.com/promodeagro/packer-cli/packing"
	"github.com/promodeagro/packer-cli/store"
)

const tablePrefix = "packer-e2e-test"

var (
	ordersTable string

	ddbClient *dynamodb.Client
	adapter   *store.Dynamo
	repo      *order.Repository
	engine    *packing.Engine
)

var testEvidence = order.Evidence{
	PhotoURL: "https://media.example.com/pack.jpg",
	VideoURL: "https://media.example.com/pack.mp4",
	PackedBy: "e2e-packer",
}

func TestMain(m *testing.M) {
	testID := uuid.New().String()[:8]
	ordersTable = fmt.Sprintf("%s-%s-orders", tablePrefix, testID)
	fmt.Printf("Orders table: %s\n", ordersTable)

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		fmt.Printf("Failed to load AWS config: %v\n", err)
		os.Exit(1)
	}
	ddbClient = dynamodb.NewFromConfig(awsCfg)

	if err := createOrdersTable(ctx); err != nil {
		fmt.Printf("Failed to create table: %v\n", err)
		os.Exit(1)
	}

	cfg := store.DefaultConfig()
	cfg.OrdersTable = ordersTable
	adapter = store.New(ddbClient, cfg)
	repo = order.NewRepository(adapter, cfg)
	ledger := packing.NewLedger(repo)
	engine = packing.NewEngine(repo, ledger, nil)

	code := m.Run()

	if _, err := ddbClient.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(ordersTable),
	}); err != nil {
		fmt.Printf("Warning: failed to delete table %s: %v\n", ordersTable, err)
	}

	os.Exit(code)
}

func createOrdersTable(ctx context.Context) error {
	_, err := ddbClient.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(ordersTable),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("status"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("createdAt"), AttributeType: types.ScalarAttributeTypeS},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(store.DefaultConfig().StatusIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("status"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("createdAt"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", ordersTable, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(ddbClient)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(ordersTable),
	}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table %s: %w", ordersTable, err)
	}
	return nil
}

// seedOrder creates an unpacked order with the given item ids. UpdateItem
// upserts, so the adapter's Update doubles as a put here.
func seedOrder(t *testing.T, itemIDs ...string) string {
	t.Helper()
	id := uuid.New().String()

	items := make([]types.AttributeValue, 0, len(itemIDs))
	for i, itemID := range itemIDs {
		items = append(items, &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"item_id":     &types.AttributeValueMemberS{Value: itemID},
			"productName": &types.AttributeValueMemberS{Value: fmt.Sprintf("Product %d", i+1)},
			"quantity":    &types.AttributeValueMemberN{Value: "1"},
		}})
	}

	err := adapter.Update(context.Background(), ordersTable,
		store.PK{"id": store.S(id)},
		store.Patch{Set: store.Record{
			"status":    store.S(string(order.StatusUnpacked)),
			"createdAt": store.S(time.Now().UTC().Format(time.RFC3339)),
			"items":     &types.AttributeValueMemberL{Value: items},
		}},
	)
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return id
}

func TestPackingFlow(t *testing.T) {
	ctx := context.Background()
	id := seedOrder(t, "I1", "I2")

	// Fresh orders report every item as pending.
	sum, err := engine.Summary(ctx, id)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalItems != 2 || sum.AvailableCount != 0 || sum.UnavailableCount != 0 {
		t.Fatalf("unexpected fresh summary %+v", sum)
	}

	// Mark one item each way.
	if _, err := engine.MarkItem(ctx, id, "I1", order.AvailabilityAvailable); err != nil {
		t.Fatalf("MarkItem I1: %v", err)
	}
	o, err := engine.MarkItem(ctx, id, "I2", order.AvailabilityUnavailable)
	if err != nil {
		t.Fatalf("MarkItem I2: %v", err)
	}
	if o.Status != order.StatusUnpacked {
		t.Errorf("marking items must not transition status, got %q", o.Status)
	}
	if o.Summary.AvailableCount != 1 || o.Summary.UnavailableCount != 1 {
		t.Errorf("unexpected summary after marking: %+v", o.Summary)
	}

	// Complete with evidence.
	o, err = engine.Complete(ctx, id, testEvidence)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if o.Status != order.StatusPacked {
		t.Errorf("expected packed, got %q", o.Status)
	}
	if o.PackedBy != testEvidence.PackedBy || o.PhotoURL == "" || o.VideoURL == "" || o.PackedAt == "" {
		t.Errorf("evidence not stored: %+v", o)
	}

	// Completing again must be rejected.
	if _, err := engine.Complete(ctx, id, testEvidence); !errors.Is(err, order.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	// The re-read reflects what the table holds.
	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != order.StatusPacked {
		t.Errorf("expected packed in store, got %q", got.Status)
	}
}

func TestListByStatusPagination(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		seedOrder(t, "I1")
	}
	// GSI writes are eventually consistent.
	time.Sleep(2 * time.Second)

	cursor := order.NewCursor(repo, order.StatusUnpacked, 2)
	seen := map[string]bool{}
	pages := 0
	for {
		page, err := cursor.NextPage(ctx)
		if errors.Is(err, order.ErrEndOfResults) {
			break
		}
		if err != nil {
			t.Fatalf("NextPage: %v", err)
		}
		pages++
		for _, o := range page {
			if seen[o.ID] {
				t.Errorf("order %s returned twice", o.ID)
			}
			seen[o.ID] = true
		}
	}
	if len(seen) < 5 {
		t.Errorf("expected at least 5 unpacked orders across pages, got %d", len(seen))
	}
	if pages < 3 {
		t.Errorf("expected at least 3 pages of size 2, got %d", pages)
	}
}

func TestCompleteMissingOrder(t *testing.T) {
	_, err := engine.Complete(context.Background(), "nonexistent-order", testEvidence)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
