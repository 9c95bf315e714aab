package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/team"
	"gorm.io/gorm"
)

// SalesRecord is a read model over settled storefront orders. The storefront
// writes these rows; this module only reads them for performance roll-ups.
type SalesRecord struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MemberID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_sales_member_completed,priority:1"`
	OrderNo     string          `gorm:"size:64;not null;uniqueIndex"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CompletedAt time.Time       `gorm:"not null;index:idx_sales_member_completed,priority:2"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (SalesRecord) TableName() string {
	return "sales_records"
}

// GormSalesReader implements SalesReader over the sales_records read model
type GormSalesReader struct {
	db *gorm.DB
}

// NewGormSalesReader creates a new GormSalesReader
func NewGormSalesReader(db *gorm.DB) *GormSalesReader {
	return &GormSalesReader{db: db}
}

// SalesForMember returns the member's own order total within [from, to)
func (r *GormSalesReader) SalesForMember(ctx context.Context, memberID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&SalesRecord{}).
		Select("SUM(amount)").
		Where("member_id = ? AND completed_at >= ? AND completed_at < ?", memberID, from, to).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// SalesForMembers returns per-member order totals within [from, to).
// Members with no orders in the range are absent from the result.
func (r *GormSalesReader) SalesForMembers(ctx context.Context, memberIDs []uuid.UUID, from, to time.Time) ([]team.MemberSales, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	type row struct {
		MemberID uuid.UUID
		Total    decimal.Decimal
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&SalesRecord{}).
		Select("member_id, SUM(amount) AS total").
		Where("member_id IN ? AND completed_at >= ? AND completed_at < ?", memberIDs, from, to).
		Group("member_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sales := make([]team.MemberSales, 0, len(rows))
	for _, r := range rows {
		sales = append(sales, team.MemberSales{MemberID: r.MemberID, Total: r.Total})
	}
	return sales, nil
}

// Ensure GormSalesReader implements SalesReader
var _ team.SalesReader = (*GormSalesReader)(nil)
