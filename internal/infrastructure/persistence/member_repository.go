package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/team"
	"gorm.io/gorm"
)

// GormMemberRepository implements MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by their ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.Member, error) {
	var member team.Member
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindByUserID finds the member record for an account
func (r *GormMemberRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*team.Member, error) {
	var member team.Member
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindByParentID finds the direct recruits of a member
func (r *GormMemberRepository) FindByParentID(ctx context.Context, parentID uuid.UUID) ([]*team.Member, error) {
	var members []*team.Member
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// FindDownline finds every active member below the ancestor. The materialized
// path turns the subtree query into an index-friendly prefix match.
func (r *GormMemberRepository) FindDownline(ctx context.Context, ancestor *team.Member) ([]*team.Member, error) {
	prefix := ancestor.Path + ancestor.ID.String() + "/"

	var members []*team.Member
	if err := r.db.WithContext(ctx).
		Where("path LIKE ? AND status = ?", prefix+"%", team.MemberStatusActive).
		Order("path ASC, joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CountDirects counts the direct recruits of a member
func (r *GormMemberRepository) CountDirects(ctx context.Context, memberID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&team.Member{}).
		Where("parent_id = ? AND status = ?", memberID, team.MemberStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindAll finds members matching the filter
func (r *GormMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]team.Member, error) {
	var members []team.Member
	query := r.applyFilter(r.db.WithContext(ctx).Model(&team.Member{}), filter)

	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// List returns a page of members with the total count
func (r *GormMemberRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*team.Member], error) {
	var members []*team.Member
	var total int64

	countQuery := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&team.Member{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	query := r.applyFilter(r.db.WithContext(ctx).Model(&team.Member{}), filter)
	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(members, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, member *team.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormMemberRepository) SaveWithLock(ctx context.Context, member *team.Member) error {
	result := r.db.WithContext(ctx).
		Model(member).
		Where("id = ? AND version = ?", member.ID, member.Version-1).
		Updates(map[string]interface{}{
			"nickname":   member.Nickname,
			"role":       member.Role,
			"status":     member.Status,
			"version":    member.Version,
			"updated_at": member.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Member was modified by another transaction")
	}
	return nil
}

// Delete deletes a member by their ID
func (r *GormMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&team.Member{}, "id = ?", id).Error
}

// Count counts members matching the filter
func (r *GormMemberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&team.Member{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMemberRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, MemberSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormMemberRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("nickname ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "parent_id":
			query = query.Where("parent_id = ?", value)
		}
	}

	return query
}

// Ensure GormMemberRepository implements MemberRepository
var _ team.MemberRepository = (*GormMemberRepository)(nil)
