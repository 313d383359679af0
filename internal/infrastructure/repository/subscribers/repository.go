package subscribers

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "aistore-server/services/storefront-api/internal/domain/newsletter"
	"aistore-server/services/storefront-api/internal/infrastructure/database/entities"
	"aistore-server/services/storefront-api/internal/utils/functional"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

// Repository handles newsletter subscriber persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	var entity entities.Subscriber
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find subscriber by email",
			err,
			"5e0f1a2b-3c4d-4e5f-9a6b-7c8d9e0f1a2b",
		)
	}
	sub := mapEntity(entity)
	return &sub, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Subscriber, error) {
	var rows []entities.Subscriber
	err := r.db.WithContext(ctx).Order("subscribed_at DESC").Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list subscribers",
			err,
			"6f1a2b3c-4d5e-4f6a-8b7c-8d9e0f1a2b3c",
		)
	}
	return functional.Map(rows, mapEntity), nil
}

func (r *Repository) Create(ctx context.Context, sub *domain.Subscriber) error {
	entity := entities.Subscriber{
		ID:           sub.ID,
		Email:        sub.Email,
		Status:       sub.Status,
		SubscribedAt: sub.SubscribedAt,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create subscriber",
			err,
			"7a2b3c4d-5e6f-4a7b-9c8d-9e0f1a2b3c4d",
		)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, sub *domain.Subscriber) error {
	patch := map[string]any{
		"status":        sub.Status,
		"subscribed_at": sub.SubscribedAt,
		"updated_at":    time.Now().UTC(),
	}
	result := r.db.WithContext(ctx).Model(&entities.Subscriber{}).Where("id = ?", sub.ID).Updates(patch)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update subscriber",
			result.Error,
			"8b3c4d5e-6f7a-4b8c-8d9e-0f1a2b3c4d5e",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"subscriber not found",
			nil,
			"9c4d5e6f-7a8b-4c9d-9e0f-1a2b3c4d5e6f",
		)
	}
	return nil
}

func mapEntity(entity entities.Subscriber) domain.Subscriber {
	return domain.Subscriber{
		ID:           entity.ID,
		Email:        entity.Email,
		Status:       entity.Status,
		SubscribedAt: entity.SubscribedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}
