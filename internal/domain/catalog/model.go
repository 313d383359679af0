package catalog

import (
	"context"
	"time"
)

// Product is a sellable catalog entry. Prices are stored in whole taka
// (no minor units).
type Product struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Price              int       `json:"price"`
	Currency           string    `json:"currency"`
	Stock              int       `json:"stock"`
	Category           string    `json:"category"`
	Image              string    `json:"image"`
	MaxDiscountPercent int       `json:"maxDiscount"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Available reports whether the product can currently be ordered.
func (p *Product) Available() bool {
	return p.Stock > 0
}

// ProductUpdate carries a partial product mutation. Nil fields are left
// untouched.
type ProductUpdate struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	Price              *int    `json:"price"`
	Stock              *int    `json:"stock"`
	Category           *string `json:"category"`
	Image              *string `json:"image"`
	MaxDiscountPercent *int    `json:"maxDiscount"`
}

// Repository defines persistence operations needed by the catalog service.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, id string, update ProductUpdate) (*Product, error)
	Delete(ctx context.Context, id string) error
}
