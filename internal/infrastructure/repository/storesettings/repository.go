package storesettings

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aistore-server/services/storefront-api/internal/infrastructure/database/entities"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

// Repository persists store settings as one JSON document per section key.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get unmarshals the stored document for key into out. The boolean reports
// whether the key exists.
func (r *Repository) Get(ctx context.Context, key string, out any) (bool, error) {
	var entity entities.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to read setting",
			err,
			"1a6b7c8d-9e0f-4a1b-9c2d-3e4f5a6b7c8d",
		)
	}
	if err := json.Unmarshal(entity.Value, out); err != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to decode setting",
			err,
			"2b7c8d9e-0f1a-4b2c-8d3e-4f5a6b7c8d9e",
		)
	}
	return true, nil
}

// Put upserts the document for key.
func (r *Repository) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeInternal,
			"failed to encode setting",
			err,
			"3c8d9e0f-1a2b-4c3d-9e4f-5a6b7c8d9e0f",
		)
	}
	entity := entities.Setting{
		Key:       key,
		Value:     raw,
		UpdatedAt: time.Now().UTC(),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to write setting",
			err,
			"4d9e0f1a-2b3c-4d4e-8f5a-6b7c8d9e0f1a",
		)
	}
	return nil
}
