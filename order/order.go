// Package order models warehouse orders and their packing state, and
// provides typed access to the orders table.
package order

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/promodeagro/packer-cli/store"
)

// Status is the order lifecycle state. Packed is terminal.
type Status string

const (
	StatusUnpacked Status = "unpacked"
	StatusPacked   Status = "packed"
)

// Availability is the per-item packing outcome. Items start unset.
type Availability string

const (
	AvailabilityUnset       Availability = ""
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
)

// Item is one line of an order. Descriptive attributes (name, quantity,
// price) stay in Raw and pass through writes untouched; the workflow only
// ever mutates availability.
type Item struct {
	ID           string
	Availability Availability
	Raw          store.Record
}

// PackingSummary is the derived aggregate over item availability. Items
// still unset are counted in neither bucket, so
// AvailableCount+UnavailableCount <= TotalItems.
type PackingSummary struct {
	AvailableCount   int      `dynamodbav:"available"`
	UnavailableCount int      `dynamodbav:"unavailable"`
	TotalItems       int      `dynamodbav:"total"`
	AvailableItems   []string `dynamodbav:"available_items"`
	UnavailableItems []string `dynamodbav:"unavailable_items"`
}

// Evidence holds the fields required to complete an order.
type Evidence struct {
	PhotoURL string
	VideoURL string
	PackedBy string
}

// Missing returns the names of required evidence fields that are empty.
func (e Evidence) Missing() []string {
	var missing []string
	if strings.TrimSpace(e.PhotoURL) == "" {
		missing = append(missing, "photo_url")
	}
	if strings.TrimSpace(e.VideoURL) == "" {
		missing = append(missing, "video_url")
	}
	if strings.TrimSpace(e.PackedBy) == "" {
		missing = append(missing, "packed_by")
	}
	return missing
}

// Order is a decoded orders-table record.
type Order struct {
	ID        string
	Status    Status
	PackedBy  string
	PackedAt  string
	PhotoURL  string
	VideoURL  string
	UpdatedAt string
	Items     []Item
	Summary   *PackingSummary

	// Raw is the full record as stored, for attributes the workflow
	// doesn't model.
	Raw store.Record
}

// Decode converts a raw record into an Order, validating the shape the
// workflow depends on. Records without an id or status are rejected here
// rather than surfacing as zero values downstream.
func Decode(rec store.Record) (Order, error) {
	o := Order{
		ID:        rec.String("id"),
		Status:    Status(rec.String("status")),
		PackedBy:  rec.String("packed_by"),
		PackedAt:  rec.String("packed_at"),
		PhotoURL:  rec.String("media_photo_url"),
		VideoURL:  rec.String("media_video_url"),
		UpdatedAt: rec.String("updatedAt"),
		Raw:       rec,
	}
	if o.ID == "" {
		return Order{}, fmt.Errorf("packer: order record missing id")
	}
	if o.Status != StatusUnpacked && o.Status != StatusPacked {
		return Order{}, fmt.Errorf("packer: order %s has unknown status %q", o.ID, o.Status)
	}

	for _, raw := range rec.List("items") {
		m, ok := raw.(*types.AttributeValueMemberM)
		if !ok {
			return Order{}, fmt.Errorf("packer: order %s has a non-map item entry", o.ID)
		}
		o.Items = append(o.Items, decodeItem(store.Record(m.Value)))
	}

	if ps := rec.Map("packing_summary"); ps != nil {
		var sum PackingSummary
		if err := attributevalue.Unmarshal(&types.AttributeValueMemberM{Value: ps}, &sum); err != nil {
			return Order{}, fmt.Errorf("packer: order %s packing summary: %w", o.ID, err)
		}
		o.Summary = &sum
	}

	return o, nil
}

func decodeItem(rec store.Record) Item {
	id := rec.String("item_id")
	if id == "" {
		id = rec.String("id")
	}
	av := Availability(rec.String("availability"))
	if av != AvailabilityAvailable && av != AvailabilityUnavailable {
		av = AvailabilityUnset
	}
	return Item{ID: id, Availability: av, Raw: rec}
}

// ComputeSummary classifies the item sequence in one pass, preserving item
// order in the id lists.
func ComputeSummary(items []Item) PackingSummary {
	sum := PackingSummary{TotalItems: len(items)}
	for _, it := range items {
		switch it.Availability {
		case AvailabilityAvailable:
			sum.AvailableCount++
			sum.AvailableItems = append(sum.AvailableItems, it.ID)
		case AvailabilityUnavailable:
			sum.UnavailableCount++
			sum.UnavailableItems = append(sum.UnavailableItems, it.ID)
		}
	}
	return sum
}

// marshalItems rebuilds the items list attribute from each item's raw map,
// so unmodeled item attributes round-trip unchanged.
func marshalItems(items []Item) types.AttributeValue {
	list := make([]types.AttributeValue, 0, len(items))
	for _, it := range items {
		list = append(list, &types.AttributeValueMemberM{Value: it.Raw})
	}
	return &types.AttributeValueMemberL{Value: list}
}

// marshalSummary encodes a summary as the packing_summary map attribute.
func marshalSummary(sum PackingSummary) (types.AttributeValue, error) {
	m, err := attributevalue.MarshalMap(sum)
	if err != nil {
		return nil, err
	}
	return &types.AttributeValueMemberM{Value: m}, nil
}
