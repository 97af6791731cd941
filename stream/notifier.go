// Package stream provides the DynamoDB Streams handler that turns order
// completions into notification records.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/promodeagro/packer-cli/notify"
	"github.com/promodeagro/packer-cli/order"
)

// Handler processes orders-table stream events.
type Handler struct {
	notifications *notify.Service
	logger        *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(n *notify.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		notifications: n,
		logger:        logger,
	}
}

// HandleOrderPacked writes one notification per order that transitioned to
// packed in this event batch. This function is designed to be used as an
// AWS Lambda handler.
func (h *Handler) HandleOrderPacked(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord handles a single stream record, acting only on the
// unpacked -> packed edge.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	if record.EventName != "MODIFY" {
		return nil
	}

	oldStatus := getStringAttr(record.Change.OldImage, "status")
	newStatus := getStringAttr(record.Change.NewImage, "status")
	if oldStatus != string(order.StatusUnpacked) || newStatus != string(order.StatusPacked) {
		return nil
	}

	orderID := getStringAttr(record.Change.NewImage, "id")
	packedBy := getStringAttr(record.Change.NewImage, "packed_by")

	h.logger.Info("order packed, notifying",
		"order_id", orderID,
		"packed_by", packedBy,
	)

	n := notify.Notification{
		ID:        uuid.NewString(),
		UserID:    packedBy,
		OrderID:   orderID,
		Type:      notify.TypeOrderPacked,
		Message:   fmt.Sprintf("Order %s packed by %s", orderID, packedBy),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.notifications.Put(ctx, n); err != nil {
		return fmt.Errorf("write notification for order %s: %w", orderID, err)
	}
	return nil
}

// getStringAttr returns a string attribute from a stream image, or "".
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	attr, ok := image[key]
	if !ok || attr.DataType() != events.DataTypeString {
		return ""
	}
	return attr.String()
}
