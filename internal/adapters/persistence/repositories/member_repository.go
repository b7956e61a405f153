package repositories

import (
	"context"
	"fmt"
	"time"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var memberSortFields = map[string]string{
	"name":           "name",
	"memberId":       "member_id",
	"joinDate":       "join_date",
	"renewalDate":    "renewal_date",
	"status":         "status",
	"membershipType": "membership_type",
	"createdAt":      "created_at",
}

var memberGroupColumns = map[string]bool{
	"status":          true,
	"membership_type": true,
	"zone_id":         true,
}

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Member{}).Where("members.is_active = ?", true)
}

// Create creates a new member
func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Omit("User", "Zone").Create(member).Error
}

// GetByID gets an active member with user and zone
func (r *memberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	err := r.active(ctx).
		Preload("User").
		Preload("Zone").
		Where("members.id = ?", id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByIDForUpdate gets an active member row and locks it until the
// surrounding transaction ends. Associations are not loaded.
func (r *memberRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	err := r.active(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("members.id = ?", id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetAnyByID gets a member regardless of isActive
func (r *memberRepository) GetAnyByID(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByUserID gets the active member profile of a user
func (r *memberRepository) GetByUserID(ctx context.Context, userID string) (*models.Member, error) {
	var member models.Member
	err := r.active(ctx).
		Preload("Zone").
		Where("members.user_id = ?", userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ExistsByUserID checks for any profile, disabled ones included
func (r *memberRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// Update saves every column of member
func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Omit("User", "Zone").Save(member).Error
}

// UpdateFields updates the given columns of a member
func (r *memberRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", id).Updates(fields).Error
}

// List lists active members with filters and pagination
func (r *memberRepository) List(ctx context.Context, filter MemberFilter, params *pagination.Params) ([]*models.Member, int64, error) {
	var members []*models.Member
	var total int64

	query := r.active(ctx)
	if filter.ZoneID != "" {
		query = query.Where("members.zone_id = ?", filter.ZoneID)
	}
	if filter.Status != "" {
		query = query.Where("members.status = ?", filter.Status)
	}
	if filter.MembershipType != "" {
		query = query.Where("members.membership_type = ?", filter.MembershipType)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(members.name) LIKE ? OR LOWER(members.member_id) LIKE ? OR LOWER(members.phone) LIKE ?", p, p, p)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Zone").
		Order(params.OrderClause(memberSortFields, "created_at")).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&members).Error
	if err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

// Search searches active members by name, member id or phone
func (r *memberRepository) Search(ctx context.Context, term string, limit int) ([]*models.Member, error) {
	var members []*models.Member
	p := likePattern(term)
	err := r.active(ctx).
		Preload("Zone").
		Where("LOWER(name) LIKE ? OR LOWER(member_id) LIKE ? OR LOWER(phone) LIKE ?", p, p, p).
		Order("name ASC").
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ListExpiring lists Active members whose renewal date falls in [from, to]
func (r *memberRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]*models.Member, error) {
	var members []*models.Member
	err := r.active(ctx).
		Preload("User").
		Preload("Zone").
		Where("status = ?", domain.MemberActive).
		Where("renewal_date >= ? AND renewal_date <= ?", from, to).
		Order("renewal_date ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ExpireOverdue marks every overdue member Expired and returns the count
func (r *memberRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.active(ctx).
		Where("renewal_date < ?", now).
		Where("status NOT IN ?", []domain.MemberStatus{domain.MemberExpired, domain.MemberInactive}).
		Update("status", domain.MemberExpired)
	return result.RowsAffected, result.Error
}

// CountActiveByZone counts active members in a zone
func (r *memberRepository) CountActiveByZone(ctx context.Context, zoneID string) (int64, error) {
	var count int64
	err := r.active(ctx).Where("zone_id = ?", zoneID).Count(&count).Error
	return count, err
}

// CountActiveByIDs counts how many of ids are active members
func (r *memberRepository) CountActiveByIDs(ctx context.Context, ids []string) (int64, error) {
	var count int64
	err := r.active(ctx).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// CountGrouped counts active members grouped by column
func (r *memberRepository) CountGrouped(ctx context.Context, column string) ([]GroupCount, error) {
	if !memberGroupColumns[column] {
		return nil, fmt.Errorf("unsupported group column: %s", column)
	}

	var rows []GroupCount
	err := r.active(ctx).
		Select(column + " AS group_key, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
