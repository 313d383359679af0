package database

import (
	"fmt"

	"gorm.io/gorm"

	"aistore-server/services/storefront-api/internal/infrastructure/database/entities"
	"aistore-server/services/storefront-api/internal/infrastructure/logger"
)

// Migrate applies the schema for every table the service owns.
func Migrate(db *gorm.DB) error {
	log := logger.GetLogger()

	models := []any{
		&entities.Product{},
		&entities.Order{},
		&entities.OrderItem{},
		&entities.Customer{},
		&entities.Setting{},
		&entities.Subscriber{},
		&entities.Conversation{},
		&entities.ChatMessage{},
		&entities.ChatSession{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	log.Info().Int("tables", len(models)).Msg("database schema migrated")
	return nil
}
