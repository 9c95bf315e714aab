package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// BatchDeduction records how much a single batch contributes to an outbound
type BatchDeduction struct {
	BatchID     uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Consumed    bool // true when the batch was fully drained
}

// BatchPickResult is the plan produced by a batch picker for one outbound
type BatchPickResult struct {
	Deductions    []BatchDeduction
	TotalDeducted decimal.Decimal
	TotalCost     decimal.Decimal
	Shortfall     decimal.Decimal // quantity that could not be covered by batches
}

// FullyCovered returns true when the requested quantity was covered by batches
func (r *BatchPickResult) FullyCovered() bool {
	return r.Shortfall.IsZero()
}

// PickBatchesFIFO selects batches for an outbound in FIFO order: earliest
// expiry first (batches without expiry last), creation date as tie break.
// It mutates the passed batches, deducting quantities as it goes.
//
// includeExpired is set for damage write-offs, which must drain expired
// batches too; sales outbound skips them.
func PickBatchesFIFO(requested decimal.Decimal, batches []*StockBatch, includeExpired bool) (*BatchPickResult, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	eligible := make([]*StockBatch, 0, len(batches))
	for _, b := range batches {
		if !b.HasStock() {
			continue
		}
		if !includeExpired && !b.IsSellable() {
			continue
		}
		eligible = append(eligible, b)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		ei, ej := eligible[i].ExpiryDate, eligible[j].ExpiryDate
		switch {
		case ei == nil && ej == nil:
			return eligible[i].CreatedAt.Before(eligible[j].CreatedAt)
		case ei == nil:
			return false
		case ej == nil:
			return true
		case !ei.Equal(*ej):
			return ei.Before(*ej)
		default:
			return eligible[i].CreatedAt.Before(eligible[j].CreatedAt)
		}
	})

	result := &BatchPickResult{
		Deductions:    make([]BatchDeduction, 0, len(eligible)),
		TotalDeducted: decimal.Zero,
		TotalCost:     decimal.Zero,
	}

	remaining := requested
	for _, b := range eligible {
		if remaining.IsZero() {
			break
		}
		deducted := b.Deduct(remaining)
		remaining = remaining.Sub(deducted)
		result.TotalDeducted = result.TotalDeducted.Add(deducted)
		result.TotalCost = result.TotalCost.Add(deducted.Mul(b.UnitCost))
		result.Deductions = append(result.Deductions, BatchDeduction{
			BatchID:     b.ID,
			BatchNumber: b.BatchNumber,
			Quantity:    deducted,
			UnitCost:    b.UnitCost,
			Consumed:    b.Status == BatchStatusConsumed,
		})
	}

	result.Shortfall = remaining
	return result, nil
}
