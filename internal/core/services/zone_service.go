package services

import (
	"context"
	"strings"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/adapters/persistence/repositories"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/logger"
	"memberhub/internal/pkg/pagination"
)

// ZoneService manages zones and their member listings
type ZoneService struct {
	store *repositories.Store
}

// NewZoneService creates a new zone service
func NewZoneService(store *repositories.Store) *ZoneService {
	return &ZoneService{store: store}
}

// ZoneInput represents create and update zone input
type ZoneInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// UpdateZoneInput represents a partial zone update
type UpdateZoneInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// CreateZone creates a zone with a name unique among active zones
func (s *ZoneService) CreateZone(ctx context.Context, input *ZoneInput) (*models.Zone, error) {
	name := strings.TrimSpace(input.Name)
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	zone := &models.Zone{
		Name:        name,
		Description: input.Description,
		IsActive:    true,
	}
	if err := s.store.Zones.Create(ctx, zone); err != nil {
		return nil, internal(err)
	}

	logger.Info("Zone created", "zone_id", zone.ID, "name", zone.Name)
	return zone, nil
}

// GetAllZones lists active zones
func (s *ZoneService) GetAllZones(ctx context.Context, search string, params *pagination.Params) (*pagination.Page[*models.Zone], error) {
	zones, total, err := s.store.Zones.List(ctx, search, params)
	if err != nil {
		return nil, internal(err)
	}
	return pagination.NewPage(zones, params, total, "Zones"), nil
}

// GetZoneByID gets an active zone with its active member count
func (s *ZoneService) GetZoneByID(ctx context.Context, id string) (*models.ZoneWithCount, error) {
	zone, err := s.store.Zones.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrZoneNotFound)
	}

	count, err := s.store.Members.CountActiveByZone(ctx, id)
	if err != nil {
		return nil, internal(err)
	}

	return &models.ZoneWithCount{Zone: *zone, MemberCount: count}, nil
}

// UpdateZone applies a partial update
func (s *ZoneService) UpdateZone(ctx context.Context, id string, input *UpdateZoneInput) (*models.Zone, error) {
	zone, err := s.store.Zones.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrZoneNotFound)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if !strings.EqualFold(name, zone.Name) {
			if err := s.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		zone.Name = name
	}
	if input.Description != nil {
		zone.Description = *input.Description
	}

	if err := s.store.Zones.Update(ctx, zone); err != nil {
		return nil, internal(err)
	}
	return zone, nil
}

// DeleteZone soft deletes a zone that has no active members
func (s *ZoneService) DeleteZone(ctx context.Context, id string) error {
	if _, err := s.store.Zones.GetByID(ctx, id); err != nil {
		return notFoundAs(err, domain.ErrZoneNotFound)
	}

	count, err := s.store.Members.CountActiveByZone(ctx, id)
	if err != nil {
		return internal(err)
	}
	if count > 0 {
		return domain.ErrZoneHasMembers
	}

	if err := s.store.Zones.SoftDelete(ctx, id); err != nil {
		return internal(err)
	}

	logger.Info("Zone deleted", "zone_id", id)
	return nil
}

// GetZoneMembers lists the public fields of a zone's active members
func (s *ZoneService) GetZoneMembers(ctx context.Context, id string, input *MemberListInput, params *pagination.Params) (*pagination.Page[models.ZoneMemberResponse], error) {
	if _, err := s.store.Zones.GetByID(ctx, id); err != nil {
		return nil, notFoundAs(err, domain.ErrZoneNotFound)
	}

	filter := repositories.MemberFilter{
		ZoneID:         id,
		Status:         domain.MemberStatus(input.Status),
		MembershipType: domain.MembershipType(input.MembershipType),
		Search:         input.Search,
	}
	members, total, err := s.store.Members.List(ctx, filter, params)
	if err != nil {
		return nil, internal(err)
	}

	items := make([]models.ZoneMemberResponse, len(members))
	for i, m := range members {
		items[i] = m.ToZoneMemberResponse()
	}
	return pagination.NewPage(items, params, total, "Members"), nil
}

// SearchZones finds active zones with live member counts
func (s *ZoneService) SearchZones(ctx context.Context, term string) ([]*models.ZoneWithCount, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.NewValidationError("Search term is required")
	}

	zones, err := s.store.Zones.Search(ctx, term, maxSearchResults)
	if err != nil {
		return nil, internal(err)
	}
	return nonNil(zones), nil
}

func (s *ZoneService) ensureNameFree(ctx context.Context, name, excludeID string) error {
	exists, err := s.store.Zones.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return internal(err)
	}
	if exists {
		return domain.ErrZoneNameTaken
	}
	return nil
}
