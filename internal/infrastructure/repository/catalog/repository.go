package catalog

import (
	"context"

	"gorm.io/gorm"

	domain "aistore-server/services/storefront-api/internal/domain/catalog"
	"aistore-server/services/storefront-api/internal/infrastructure/database/entities"
	"aistore-server/services/storefront-api/internal/utils/functional"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

// Repository handles product persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	var rows []entities.Product
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list products",
			err,
			"3f8a1b2c-9d4e-4f5a-8b6c-7d8e9f0a1b2c",
		)
	}
	return functional.Map(rows, mapEntity), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var entity entities.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"product not found",
				err,
				"5c0d1e2f-3a4b-4c5d-9e6f-7a8b9c0d1e2f",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get product by id",
			err,
			"6d1e2f3a-4b5c-4d6e-8f7a-8b9c0d1e2f3a",
		)
	}
	product := mapEntity(entity)
	return &product, nil
}

func (r *Repository) Create(ctx context.Context, product *domain.Product) error {
	entity := entities.Product{
		ID:                 product.ID,
		Name:               product.Name,
		Description:        product.Description,
		Price:              product.Price,
		Currency:           product.Currency,
		Stock:              product.Stock,
		Category:           product.Category,
		Image:              product.Image,
		MaxDiscountPercent: product.MaxDiscountPercent,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create product",
			err,
			"7e2f3a4b-5c6d-4e7f-9a8b-9c0d1e2f3a4b",
		)
	}
	product.CreatedAt = entity.CreatedAt
	product.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, id string, update domain.ProductUpdate) (*domain.Product, error) {
	patch := map[string]any{}
	if update.Name != nil {
		patch["name"] = *update.Name
	}
	if update.Description != nil {
		patch["description"] = *update.Description
	}
	if update.Price != nil {
		patch["price"] = *update.Price
	}
	if update.Stock != nil {
		patch["stock"] = *update.Stock
	}
	if update.Category != nil {
		patch["category"] = *update.Category
	}
	if update.Image != nil {
		patch["image"] = *update.Image
	}
	if update.MaxDiscountPercent != nil {
		patch["max_discount_percent"] = *update.MaxDiscountPercent
	}

	if len(patch) > 0 {
		result := r.db.WithContext(ctx).Model(&entities.Product{}).Where("id = ?", id).Updates(patch)
		if result.Error != nil {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to update product",
				result.Error,
				"8f3a4b5c-6d7e-4f8a-8b9c-0d1e2f3a4b5c",
			)
		}
		if result.RowsAffected == 0 {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"product not found",
				nil,
				"9a4b5c6d-7e8f-4a9b-9c0d-1e2f3a4b5c6d",
			)
		}
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Product{})
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete product",
			result.Error,
			"0b5c6d7e-8f9a-4b0c-8d1e-2f3a4b5c6d7e",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"product not found",
			nil,
			"1c6d7e8f-9a0b-4c1d-9e2f-3a4b5c6d7e8f",
		)
	}
	return nil
}

func mapEntity(entity entities.Product) domain.Product {
	return domain.Product{
		ID:                 entity.ID,
		Name:               entity.Name,
		Description:        entity.Description,
		Price:              entity.Price,
		Currency:           entity.Currency,
		Stock:              entity.Stock,
		Category:           entity.Category,
		Image:              entity.Image,
		MaxDiscountPercent: entity.MaxDiscountPercent,
		CreatedAt:          entity.CreatedAt,
		UpdatedAt:          entity.UpdatedAt,
	}
}
