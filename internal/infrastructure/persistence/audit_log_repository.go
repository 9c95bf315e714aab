package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements AuditLogRepository using GORM.
// Audit entries are append-only; there is no update or delete path.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Save appends an audit entry
func (r *GormAuditLogRepository) Save(ctx context.Context, entry *identity.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID finds an audit entry by its ID
func (r *GormAuditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AuditLog, error) {
	var entry identity.AuditLog
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// List returns a page of audit entries with the total count
func (r *GormAuditLogRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.AuditLog], error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&identity.AuditLog{})
	}
	return r.paginate(base, filter)
}

// FindByActor returns a page of audit entries recorded for one actor
func (r *GormAuditLogRepository) FindByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) (*shared.Paginated[*identity.AuditLog], error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&identity.AuditLog{}).Where("actor_id = ?", actorID)
	}
	return r.paginate(base, filter)
}

func (r *GormAuditLogRepository) paginate(base func() *gorm.DB, filter shared.Filter) (*shared.Paginated[*identity.AuditLog], error) {
	var total int64
	if err := r.applyFilterWithoutPagination(base(), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []*identity.AuditLog
	if err := r.applyFilter(base(), filter).Find(&entries).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (r *GormAuditLogRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AuditLogSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormAuditLogRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "action":
			query = query.Where("action = ?", value)
		case "entity_type":
			query = query.Where("entity_type = ?", value)
		case "entity_id":
			query = query.Where("entity_id = ?", value)
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		}
	}

	return query
}

// Ensure GormAuditLogRepository implements AuditLogRepository
var _ identity.AuditLogRepository = (*GormAuditLogRepository)(nil)
