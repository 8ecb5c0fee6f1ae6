package db

import (
	"errors"

	"github.com/nkuzn/shoply-backend/config"
	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/pkg/logger"
	"github.com/nkuzn/shoply-backend/pkg/util"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.Comment{},
		&model.Favorite{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// SeedAdmin creates the initial administrator account if it does not exist.
// A no-op unless both ADMIN_EMAIL and ADMIN_PASSWORD are configured.
func SeedAdmin(cfg *config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Debug("Admin seed skipped: no admin credentials configured")
		return nil
	}

	var existing model.User
	err := DB.Where("role = ?", model.RoleAdmin).First(&existing).Error
	if err == nil {
		logger.Debug("Admin seed skipped: admin account already exists", map[string]interface{}{
			"user_id": existing.ID,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     "admin",
		Email:        cfg.Email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(admin).Error; err != nil {
		logger.Error("Failed to seed admin account", err)
		return err
	}

	logger.Info("Admin account seeded", map[string]interface{}{
		"user_id": admin.ID,
		"email":   admin.Email,
	})
	return nil
}
