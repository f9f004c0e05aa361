package database

import (
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations for the webhook audit log.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	// Create custom types BEFORE auto-migrate
	if err := createCustomTypes(db); err != nil {
		logger.Error("Failed to create custom types", zap.Error(err))
		return err
	}

	if err := db.AutoMigrate(
		&model.BillingWebhookEvent{},
	); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

func createCustomTypes(db *gorm.DB) error {
	return db.Exec(`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'webhook_status') THEN
		CREATE TYPE webhook_status AS ENUM ('pending', 'completed', 'failed');
	END IF;
END $$`).Error
}

func createCustomIndexes(db *gorm.DB) error {
	return db.Exec(`CREATE INDEX IF NOT EXISTS idx_billing_webhook_events_unprocessed ON billing_webhook_events (created_at) WHERE status IN ('pending', 'failed')`).Error
}
