package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/sysconfig"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConfigRepository implements ConfigRepository using GORM
type GormConfigRepository struct {
	db *gorm.DB
}

// NewGormConfigRepository creates a new GormConfigRepository
func NewGormConfigRepository(db *gorm.DB) *GormConfigRepository {
	return &GormConfigRepository{db: db}
}

// FindByID finds a config entry by its ID
func (r *GormConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*sysconfig.ConfigEntry, error) {
	var entry sysconfig.ConfigEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByGroupAndKey finds a config entry by its qualified key
func (r *GormConfigRepository) FindByGroupAndKey(ctx context.Context, group, key string) (*sysconfig.ConfigEntry, error) {
	var entry sysconfig.ConfigEntry
	if err := r.db.WithContext(ctx).
		Where(`"group" = ? AND key = ?`, group, key).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByGroup finds all entries in a config group
func (r *GormConfigRepository) FindByGroup(ctx context.Context, group string) ([]*sysconfig.ConfigEntry, error) {
	var entries []*sysconfig.ConfigEntry
	if err := r.db.WithContext(ctx).
		Where(`"group" = ?`, group).
		Order("key ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll finds config entries matching the filter
func (r *GormConfigRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sysconfig.ConfigEntry, error) {
	var entries []sysconfig.ConfigEntry
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sysconfig.ConfigEntry{}), filter)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// List returns a page of config entries with the total count
func (r *GormConfigRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*sysconfig.ConfigEntry], error) {
	var total int64
	countQuery := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sysconfig.ConfigEntry{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []*sysconfig.ConfigEntry
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sysconfig.ConfigEntry{}), filter)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a config entry
func (r *GormConfigRepository) Save(ctx context.Context, entry *sysconfig.ConfigEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Upsert writes the entry, replacing any existing row with the same group and
// key. Existing rows keep their ID; only the value columns are rewritten.
func (r *GormConfigRepository) Upsert(ctx context.Context, entry *sysconfig.ConfigEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "group"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"value", "type", "description", "updated_at",
			}),
		}).
		Create(entry).Error
}

// Delete deletes a config entry by its ID
func (r *GormConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&sysconfig.ConfigEntry{}, "id = ?", id).Error
}

// Count counts config entries matching the filter
func (r *GormConfigRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sysconfig.ConfigEntry{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormConfigRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ConfigSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormConfigRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("key ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "group":
			query = query.Where(`"group" = ?`, value)
		case "type":
			query = query.Where("type = ?", value)
		}
	}

	return query
}

// Ensure GormConfigRepository implements ConfigRepository
var _ sysconfig.ConfigRepository = (*GormConfigRepository)(nil)
