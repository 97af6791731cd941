package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTransition is returned when an order can't move to the
	// requested status (already packed, or an undefined edge).
	ErrInvalidTransition = errors.New("packer: invalid order status transition")

	// ErrEndOfResults is returned by Cursor.NextPage past the last page.
	ErrEndOfResults = errors.New("packer: end of results")

	// ErrFirstPage is returned by Cursor.PrevPage on the first page.
	ErrFirstPage = errors.New("packer: already at first page")
)

// MissingEvidenceError reports which required evidence fields were empty
// when completing an order.
type MissingEvidenceError struct {
	OrderID string
	Fields  []string
}

func (e *MissingEvidenceError) Error() string {
	fields := strings.Join(e.Fields, ", ")
	if e.OrderID == "" {
		return fmt.Sprintf("packer: missing required evidence: %s", fields)
	}
	return fmt.Sprintf("packer: order %s missing required evidence: %s", e.OrderID, fields)
}
