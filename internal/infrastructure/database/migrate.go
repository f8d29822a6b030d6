package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/garrywilliams/cake/internal/domain/model"
)

// Migrate runs database migrations for the audit store.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(
		&model.CakeRequest{},
	); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
