package orders

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "aistore-server/services/storefront-api/internal/domain/order"
	"aistore-server/services/storefront-api/internal/infrastructure/database/entities"
	"aistore-server/services/storefront-api/internal/utils/functional"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

// Repository handles order persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Commit writes the order, its line items, the customer record and the
// stock decrement in one transaction. Stock rows are locked for the
// duration so concurrent checkouts cannot oversell.
func (r *Repository) Commit(ctx context.Context, ord *domain.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range ord.Items {
			var product entities.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", item.ProductID).First(&product).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return fmt.Errorf("product %s not found", item.ProductID)
				}
				return err
			}
			if product.Stock < item.Quantity {
				return errInsufficientStock{productID: item.ProductID, have: product.Stock, want: item.Quantity}
			}
			if err := tx.Model(&entities.Product{}).Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		entity := mapOrder(ord)
		if err := tx.Create(&entity).Error; err != nil {
			return err
		}

		if c := ord.Customer; c != nil && c.Phone != "" {
			customer := entities.Customer{
				Phone:      c.Phone,
				Name:       c.Name,
				Email:      c.Email,
				Address:    c.Address,
				City:       c.City,
				Area:       c.Area,
				OrderCount: 1,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "phone"}},
				DoUpdates: clause.Assignments(map[string]any{
					"name":        customer.Name,
					"address":     customer.Address,
					"city":        customer.City,
					"area":        customer.Area,
					"order_count": gorm.Expr("customers.order_count + 1"),
					"updated_at":  time.Now().UTC(),
				}),
			}).Create(&customer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if stockErr, ok := err.(errInsufficientStock); ok {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				stockErr.Error(),
				nil,
				"2d7e8f9a-0b1c-4d2e-8f3a-4b5c6d7e8f9a",
			)
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to commit order",
			err,
			"3e8f9a0b-1c2d-4e3f-9a4b-5c6d7e8f9a0b",
		)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	var rows []entities.Order
	err := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list orders",
			err,
			"4f9a0b1c-2d3e-4f4a-8b5c-6d7e8f9a0b1c",
		)
	}
	return functional.Map(rows, mapEntity), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var entity entities.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"order not found",
				err,
				"5a0b1c2d-3e4f-4a5b-9c6d-7e8f9a0b1c2d",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get order by id",
			err,
			"6b1c2d3e-4f5a-4b6c-8d7e-8f9a0b1c2d3e",
		)
	}
	order := mapEntity(entity)
	return &order, nil
}

func (r *Repository) Update(ctx context.Context, id string, update domain.Update) (*domain.Order, error) {
	patch := map[string]any{}
	now := time.Now().UTC()
	if update.Status != nil {
		patch["status"] = string(*update.Status)
		switch *update.Status {
		case domain.StatusApproved:
			patch["approved_at"] = now
		case domain.StatusPaid:
			patch["paid_at"] = now
			patch["payment_status"] = "paid"
		case domain.StatusShipped:
			patch["shipped_at"] = now
		}
	}
	if update.PaymentStatus != nil {
		patch["payment_status"] = *update.PaymentStatus
	}
	if update.TrackingNumber != nil {
		patch["tracking_number"] = *update.TrackingNumber
	}
	if update.CourierName != nil {
		patch["courier_name"] = *update.CourierName
	}
	if update.OwnerNotes != nil {
		patch["owner_notes"] = *update.OwnerNotes
	}
	if update.CounterOffer != nil {
		patch["counter_offer"] = *update.CounterOffer
	}

	if len(patch) > 0 {
		result := r.db.WithContext(ctx).Model(&entities.Order{}).Where("id = ?", id).Updates(patch)
		if result.Error != nil {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to update order",
				result.Error,
				"7c2d3e4f-5a6b-4c7d-9e8f-9a0b1c2d3e4f",
			)
		}
		if result.RowsAffected == 0 {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"order not found",
				nil,
				"8d3e4f5a-6b7c-4d8e-8f9a-0b1c2d3e4f5a",
			)
		}
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) SetCustomer(ctx context.Context, id string, customer domain.CustomerInfo) error {
	patch := map[string]any{
		"customer_name":    customer.Name,
		"customer_phone":   customer.Phone,
		"customer_email":   customer.Email,
		"customer_address": customer.Address,
		"customer_city":    customer.City,
		"customer_area":    customer.Area,
		"customer_notes":   customer.Notes,
	}
	result := r.db.WithContext(ctx).Model(&entities.Order{}).Where("id = ?", id).Updates(patch)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to set order customer",
			result.Error,
			"9e4f5a6b-7c8d-4e9f-9a0b-1c2d3e4f5a6b",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			"order not found",
			nil,
			"0f5a6b7c-8d9e-4f0a-8b1c-2d3e4f5a6b7c",
		)
	}
	return nil
}

type errInsufficientStock struct {
	productID string
	have      int
	want      int
}

func (e errInsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: have %d, want %d", e.productID, e.have, e.want)
}

func mapOrder(ord *domain.Order) entities.Order {
	entity := entities.Order{
		ID:             ord.ID,
		Status:         string(ord.Status),
		TotalAmount:    ord.TotalAmount,
		DiscountAmount: ord.DiscountAmount,
		FinalAmount:    ord.FinalAmount,
		PaymentMethod:  ord.PaymentMethod,
		PaymentStatus:  ord.PaymentStatus,
		TrackingNumber: ord.TrackingNumber,
		CourierName:    ord.CourierName,
		OwnerNotes:     ord.OwnerNotes,
		CounterOffer:   ord.CounterOffer,
		ApprovedAt:     ord.ApprovedAt,
		PaidAt:         ord.PaidAt,
		ShippedAt:      ord.ShippedAt,
	}
	if c := ord.Customer; c != nil {
		entity.CustomerName = c.Name
		entity.CustomerPhone = c.Phone
		entity.CustomerEmail = c.Email
		entity.CustomerAddress = c.Address
		entity.CustomerCity = c.City
		entity.CustomerArea = c.Area
		entity.CustomerNotes = c.Notes
	}
	for _, item := range ord.Items {
		entity.Items = append(entity.Items, entities.OrderItem{
			OrderID:         ord.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			OriginalPrice:   item.OriginalPrice,
			FinalPrice:      item.FinalPrice,
			DiscountPercent: item.DiscountPercent,
		})
	}
	return entity
}

func mapEntity(entity entities.Order) domain.Order {
	ord := domain.Order{
		ID:             entity.ID,
		Status:         domain.OrderStatus(entity.Status),
		TotalAmount:    entity.TotalAmount,
		DiscountAmount: entity.DiscountAmount,
		FinalAmount:    entity.FinalAmount,
		PaymentMethod:  entity.PaymentMethod,
		PaymentStatus:  entity.PaymentStatus,
		TrackingNumber: entity.TrackingNumber,
		CourierName:    entity.CourierName,
		OwnerNotes:     entity.OwnerNotes,
		CounterOffer:   entity.CounterOffer,
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
		ApprovedAt:     entity.ApprovedAt,
		PaidAt:         entity.PaidAt,
		ShippedAt:      entity.ShippedAt,
	}
	if entity.CustomerPhone != "" || entity.CustomerName != "" {
		ord.Customer = &domain.CustomerInfo{
			Name:    entity.CustomerName,
			Phone:   entity.CustomerPhone,
			Email:   entity.CustomerEmail,
			Address: entity.CustomerAddress,
			City:    entity.CustomerCity,
			Area:    entity.CustomerArea,
			Notes:   entity.CustomerNotes,
		}
	}
	for _, item := range entity.Items {
		ord.Items = append(ord.Items, domain.Item{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			OriginalPrice:   item.OriginalPrice,
			FinalPrice:      item.FinalPrice,
			DiscountPercent: item.DiscountPercent,
		})
	}
	return ord
}
