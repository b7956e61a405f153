package config

import (
	"errors"
	"strings"

	"memberhub/internal/adapters/persistence/models"
	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/logger"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg SeedConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg SeedConfig) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders. Failures are logged and do not stop startup.
func (s *Seeder) Run() error {
	logger.Info("Running database seeders")

	if err := s.seedAdminUser(); err != nil {
		logger.Warn("Admin seeder skipped", "error", err)
	}
	if err := s.seedDefaultZone(); err != nil {
		logger.Warn("Zone seeder skipped", "error", err)
	}

	logger.Info("Database seeding completed")
	return nil
}

// seedAdminUser creates the bootstrap admin when none exists. Without
// SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD nothing is created.
func (s *Seeder) seedAdminUser() error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	name := s.cfg.AdminName
	if name == "" {
		name = "Administrator"
	}

	// Password is hashed by the model hook
	admin := &models.User{
		Name:     name,
		Email:    strings.ToLower(strings.TrimSpace(s.cfg.AdminEmail)),
		Password: s.cfg.AdminPassword,
		Role:     domain.RoleAdmin,
		IsActive: true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.New("seed admin email already belongs to another user")
		}
		return err
	}

	logger.Info("Admin user created", "email", admin.Email)
	return nil
}

// seedDefaultZone creates the configured zone when no zone exists yet
func (s *Seeder) seedDefaultZone() error {
	if s.cfg.DefaultZone == "" {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.Zone{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	zone := &models.Zone{
		Name:        s.cfg.DefaultZone,
		Description: "Default zone",
		IsActive:    true,
	}
	if err := s.db.Create(zone).Error; err != nil {
		return err
	}

	logger.Info("Default zone created", "name", zone.Name)
	return nil
}
