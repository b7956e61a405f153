package repositories

import (
	"context"
	"strings"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/pkg/pagination"

	"gorm.io/gorm"
)

var zoneSortFields = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
}

// zoneRepository implements ZoneRepository interface
type zoneRepository struct {
	db *gorm.DB
}

// NewZoneRepository creates a new zone repository
func NewZoneRepository(db *gorm.DB) ZoneRepository {
	return &zoneRepository{db: db}
}

// Create creates a new zone
func (r *zoneRepository) Create(ctx context.Context, zone *models.Zone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

// GetByID gets an active zone by ID
func (r *zoneRepository) GetByID(ctx context.Context, id string) (*models.Zone, error) {
	var zone models.Zone
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&zone).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

// GetAnyByID gets a zone regardless of isActive
func (r *zoneRepository) GetAnyByID(ctx context.Context, id string) (*models.Zone, error) {
	var zone models.Zone
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&zone).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

// Update updates a zone
func (r *zoneRepository) Update(ctx context.Context, zone *models.Zone) error {
	return r.db.WithContext(ctx).Save(zone).Error
}

// SoftDelete marks a zone inactive
func (r *zoneRepository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Zone{}).Where("id = ?", id).Update("is_active", false).Error
}

// ExistsByName checks for an active zone with the same name, ignoring case
func (r *zoneRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Zone{}).
		Where("LOWER(name) = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(name)), true)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// List lists active zones with optional search and pagination
func (r *zoneRepository) List(ctx context.Context, search string, params *pagination.Params) ([]*models.Zone, int64, error) {
	var zones []*models.Zone
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Zone{}).Where("is_active = ?", true)
	if search != "" {
		p := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order(params.OrderClause(zoneSortFields, "name")).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&zones).Error
	if err != nil {
		return nil, 0, err
	}

	return zones, total, nil
}

// Search finds active zones by name or description with live member counts
func (r *zoneRepository) Search(ctx context.Context, term string, limit int) ([]*models.ZoneWithCount, error) {
	var rows []*models.ZoneWithCount
	p := likePattern(term)
	err := r.db.WithContext(ctx).
		Table("zones").
		Select("zones.*, COUNT(members.id) AS member_count").
		Joins("LEFT JOIN members ON members.zone_id = zones.id AND members.is_active = ?", true).
		Where("zones.is_active = ?", true).
		Where("LOWER(zones.name) LIKE ? OR LOWER(zones.description) LIKE ?", p, p).
		Group("zones.id").
		Order("zones.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountActive counts active zones
func (r *zoneRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Zone{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
