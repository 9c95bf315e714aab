package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/team"
	"gorm.io/gorm"
)

// GormCommissionRepository implements CommissionRecordRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByID finds a commission record by its ID
func (r *GormCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.CommissionRecord, error) {
	var record team.CommissionRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByMemberAndPeriod finds the commission for a member in a period
func (r *GormCommissionRepository) FindByMemberAndPeriod(ctx context.Context, memberID uuid.UUID, period team.Period) (*team.CommissionRecord, error) {
	var record team.CommissionRecord
	if err := r.db.WithContext(ctx).
		Where("member_id = ? AND period = ?", memberID, period).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByPeriod returns a page of commission records for a period
func (r *GormCommissionRepository) FindByPeriod(ctx context.Context, period team.Period, filter shared.Filter) (*shared.Paginated[*team.CommissionRecord], error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&team.CommissionRecord{}).Where("period = ?", period)
	}
	return r.paginate(base, filter)
}

// FindByStatus returns a page of commission records in a review state
func (r *GormCommissionRepository) FindByStatus(ctx context.Context, status team.CommissionStatus, filter shared.Filter) (*shared.Paginated[*team.CommissionRecord], error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&team.CommissionRecord{}).Where("status = ?", status)
	}
	return r.paginate(base, filter)
}

// FindAll finds commission records matching the filter
func (r *GormCommissionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]team.CommissionRecord, error) {
	var records []team.CommissionRecord
	query := r.applyFilter(r.db.WithContext(ctx).Model(&team.CommissionRecord{}), filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// SumAmountByPeriod totals the commission amounts for a period
func (r *GormCommissionRepository) SumAmountByPeriod(ctx context.Context, period team.Period) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&team.CommissionRecord{}).
		Select("SUM(amount)").
		Where("period = ?", period).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Save creates or updates a commission record
func (r *GormCommissionRepository) Save(ctx context.Context, record *team.CommissionRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormCommissionRepository) SaveWithLock(ctx context.Context, record *team.CommissionRecord) error {
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"status":      record.Status,
			"remark":      record.Remark,
			"reviewed_by": record.ReviewedBy,
			"reviewed_at": record.ReviewedAt,
			"settled_at":  record.SettledAt,
			"version":     record.Version,
			"updated_at":  record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Commission record was modified by another transaction")
	}
	return nil
}

// Delete deletes a commission record by its ID
func (r *GormCommissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&team.CommissionRecord{}, "id = ?", id).Error
}

// Count counts commission records matching the filter
func (r *GormCommissionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&team.CommissionRecord{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCommissionRepository) paginate(base func() *gorm.DB, filter shared.Filter) (*shared.Paginated[*team.CommissionRecord], error) {
	var total int64
	if err := r.applyFilterWithoutPagination(base(), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var records []*team.CommissionRecord
	if err := r.applyFilter(base(), filter).Find(&records).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(records, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (r *GormCommissionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, CommissionSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormCommissionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "member_id":
			query = query.Where("member_id = ?", value)
		case "period":
			query = query.Where("period = ?", value)
		case "role":
			query = query.Where("role = ?", value)
		}
	}

	return query
}

// Ensure GormCommissionRepository implements CommissionRecordRepository
var _ team.CommissionRecordRepository = (*GormCommissionRepository)(nil)
