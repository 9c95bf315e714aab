package inventory

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// BatchStatus represents the lifecycle state of a stock batch
type BatchStatus string

const (
	BatchStatusNormal   BatchStatus = "NORMAL"
	BatchStatusExpired  BatchStatus = "EXPIRED"
	BatchStatusConsumed BatchStatus = "CONSUMED"
)

// StockBatch represents a received batch of stock with its own expiry and cost
type StockBatch struct {
	shared.BaseEntity
	StockID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber string          `gorm:"size:64;not null;index"`
	ExpiryDate  *time.Time      // Optional; nil means the batch never expires
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status      BatchStatus     `gorm:"size:16;not null;default:NORMAL"`
}

// TableName returns the table name for GORM
func (StockBatch) TableName() string {
	return "stock_batches"
}

// NewStockBatch creates a new stock batch
func NewStockBatch(stockID uuid.UUID, batchNumber string, expiryDate *time.Time, quantity, unitCost decimal.Decimal) *StockBatch {
	if batchNumber == "" {
		batchNumber = GenerateBatchNumber()
	}
	return &StockBatch{
		BaseEntity:  shared.NewBaseEntity(),
		StockID:     stockID,
		BatchNumber: batchNumber,
		ExpiryDate:  expiryDate,
		Quantity:    quantity,
		UnitCost:    unitCost,
		Status:      BatchStatusNormal,
	}
}

// GenerateBatchNumber produces an opaque batch identifier:
// "B" + compact timestamp + 4-digit random suffix, e.g. B20260830153000-4821.
func GenerateBatchNumber() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("B%s-%04d", time.Now().Format("20060102150405"), suffix)
}

// IsExpired returns true if the batch expiry date has passed
func (b *StockBatch) IsExpired() bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now())
}

// WillExpireWithin returns true if the batch expires within the given duration
func (b *StockBatch) WillExpireWithin(d time.Duration) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now().Add(d))
}

// MarkExpired transitions the batch to EXPIRED. Consumed batches stay consumed.
func (b *StockBatch) MarkExpired() {
	if b.Status == BatchStatusConsumed {
		return
	}
	b.Status = BatchStatusExpired
	b.UpdatedAt = time.Now()
}

// Deduct reduces the batch quantity and returns the amount actually deducted,
// which may be less than requested when the batch runs out.
func (b *StockBatch) Deduct(quantity decimal.Decimal) decimal.Decimal {
	deducted := quantity
	if quantity.GreaterThanOrEqual(b.Quantity) {
		deducted = b.Quantity
		b.Quantity = decimal.Zero
		b.Status = BatchStatusConsumed
	} else {
		b.Quantity = b.Quantity.Sub(quantity)
	}
	b.UpdatedAt = time.Now()
	return deducted
}

// HasStock returns true if the batch still holds quantity
func (b *StockBatch) HasStock() bool {
	return b.Quantity.GreaterThan(decimal.Zero) && b.Status != BatchStatusConsumed
}

// IsSellable returns true if the batch can serve sales outbound
func (b *StockBatch) IsSellable() bool {
	return b.HasStock() && b.Status == BatchStatusNormal && !b.IsExpired()
}

// TotalValue returns quantity * unit cost for this batch
func (b *StockBatch) TotalValue() decimal.Decimal {
	return b.Quantity.Mul(b.UnitCost)
}

// BatchInfo carries caller-provided batch attributes for StockIn
type BatchInfo struct {
	BatchNumber string
	ExpiryDate  *time.Time
}
