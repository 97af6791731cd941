package packing

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/promodeagro/packer-cli/order"
	"github.com/promodeagro/packer-cli/store"
)

// DefaultBulkCap bounds how many orders one bulk completion touches when
// the caller doesn't say otherwise.
const DefaultBulkCap = 100

const defaultWorkers = 4

// Engine orchestrates order state transitions. The only defined edge is
// Unpacked -> Packed, taken exactly once per order and only with complete
// evidence.
type Engine struct {
	orders *order.Repository
	ledger *Ledger
	logger *slog.Logger

	// BulkCap is the default cap for CompleteAllUnpacked.
	BulkCap int

	// Workers bounds bulk completion concurrency. Each order is a
	// disjoint document, so workers never contend on shared state.
	Workers int
}

// NewEngine creates a workflow engine over the repository and ledger.
func NewEngine(orders *order.Repository, ledger *Ledger, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		orders:  orders,
		ledger:  ledger,
		logger:  logger,
		BulkCap: DefaultBulkCap,
		Workers: defaultWorkers,
	}
}

// Complete transitions an order to packed, storing the evidence fields.
// Fails with MissingEvidenceError when any field is empty,
// order.ErrInvalidTransition when the order is already packed, and
// store.ErrNotFound when it doesn't exist.
func (e *Engine) Complete(ctx context.Context, orderID string, ev order.Evidence) (order.Order, error) {
	if missing := ev.Missing(); len(missing) > 0 {
		return order.Order{}, &order.MissingEvidenceError{OrderID: orderID, Fields: missing}
	}
	o, err := e.orders.UpdateStatus(ctx, orderID, order.StatusPacked, ev)
	if err != nil {
		return order.Order{}, err
	}
	e.logger.Info("order packed",
		"order_id", orderID,
		"packed_by", ev.PackedBy,
	)
	return o, nil
}

// MarkItem records one item's availability via the ledger. Marking never
// transitions order status, even once every item is set; completion stays
// an explicit Complete call, and an order may equally be completed before
// full availability coverage.
func (e *Engine) MarkItem(ctx context.Context, orderID, itemID string, av order.Availability) (order.Order, error) {
	return e.ledger.SetItemAvailability(ctx, orderID, itemID, av)
}

// Summary returns the packing summary recomputed from current item state.
func (e *Engine) Summary(ctx context.Context, orderID string) (order.PackingSummary, error) {
	return e.ledger.Summary(ctx, orderID)
}

// Outcome is the result of one order's completion attempt within a bulk
// run.
type Outcome struct {
	OrderID   string
	Completed bool

	// Reason says why the order was skipped; empty when completed.
	Reason string
}

// BulkResult reports a bulk completion run. When Aborted is true a
// systemic store failure halted the batch and only Attempted orders were
// touched.
type BulkResult struct {
	BatchID   string
	Attempted int
	Completed int
	Outcomes  []Outcome
	Aborted   bool
}

// CompleteAllUnpacked completes up to cap unpacked orders (cap<=0 uses
// BulkCap). Each order is attempted independently on a bounded worker
// pool: a business failure on one order never stops the rest, while
// store.ErrUnavailable is treated as systemic and cancels the remaining
// queue. Cancellation of ctx stops the batch between orders the same way.
func (e *Engine) CompleteAllUnpacked(ctx context.Context, ev order.Evidence, cap int) (BulkResult, error) {
	if missing := ev.Missing(); len(missing) > 0 {
		return BulkResult{}, &order.MissingEvidenceError{Fields: missing}
	}
	if cap <= 0 {
		cap = e.BulkCap
	}

	targets, err := e.collectUnpacked(ctx, cap)
	if err != nil {
		return BulkResult{}, err
	}

	result := BulkResult{BatchID: uuid.NewString()}
	if len(targets) == 0 {
		return result, nil
	}

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(targets) {
		workers = len(targets)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type job struct {
		idx int
		id  string
	}
	jobs := make(chan job)
	outcomes := make([]*Outcome, len(targets))
	var mu sync.Mutex
	var systemic error
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				_, err := e.Complete(ctx, j.id, ev)
				out := &Outcome{OrderID: j.id, Completed: err == nil}
				if err != nil {
					out.Reason = err.Error()
				}
				outcomes[j.idx] = out

				if errors.Is(err, store.ErrUnavailable) {
					mu.Lock()
					if systemic == nil {
						systemic = err
					}
					mu.Unlock()
					cancel()
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, o := range targets {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{idx: i, id: o.ID}:
			}
		}
	}()

	wg.Wait()

	for _, out := range outcomes {
		if out == nil {
			continue // never attempted: batch halted first
		}
		result.Attempted++
		result.Outcomes = append(result.Outcomes, *out)
		if out.Completed {
			result.Completed++
		}
	}

	if systemic != nil {
		result.Aborted = true
		e.logger.Error("bulk completion aborted",
			"batch_id", result.BatchID,
			"completed", result.Completed,
			"attempted", result.Attempted,
			"error", systemic,
		)
		return result, systemic
	}

	e.logger.Info("bulk completion finished",
		"batch_id", result.BatchID,
		"attempted", result.Attempted,
		"completed", result.Completed,
	)
	return result, nil
}

// collectUnpacked pages through the unpacked listing until cap orders are
// gathered or the traversal ends.
func (e *Engine) collectUnpacked(ctx context.Context, cap int) ([]order.Order, error) {
	var targets []order.Order
	var token store.PageToken
	for len(targets) < cap {
		pageSize := int32(min(cap-len(targets), 100))
		orders, next, err := e.orders.ListByStatus(ctx, order.StatusUnpacked, token, pageSize)
		if err != nil {
			return nil, err
		}
		targets = append(targets, orders...)
		if next == nil {
			break
		}
		token = next
	}
	if len(targets) > cap {
		targets = targets[:cap]
	}
	return targets, nil
}
