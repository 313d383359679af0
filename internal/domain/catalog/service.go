package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aistore-server/services/storefront-api/internal/config"
	"aistore-server/services/storefront-api/internal/utils/functional"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

// Service orchestrates catalog reads and owner-dashboard mutations.
type Service struct {
	cfg  *config.Config
	repo Repository
	log  zerolog.Logger
}

func NewService(cfg *config.Config, repo Repository, log zerolog.Logger) *Service {
	return &Service{
		cfg:  cfg,
		repo: repo,
		log:  log.With().Str("component", "catalog-service").Logger(),
	}
}

// List returns all products. Read failures surface as an empty catalog so
// the storefront keeps rendering; the error is logged, not propagated.
func (s *Service) List(ctx context.Context) []Product {
	products, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list products")
		return []Product{}
	}
	return products
}

// GetByID returns a single product or a NOT_FOUND platform error.
func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, fmt.Sprintf("product %s not found", id), nil,
			"c1f7b4de-0a52-4b6e-9c1d-2c86f4f0e3a1")
	}
	return product, nil
}

// Search matches products whose name, description or category contains the
// query, case-insensitively.
func (s *Service) Search(ctx context.Context, query string) []Product {
	all := s.List(ctx)
	if strings.TrimSpace(query) == "" {
		return all
	}
	lower := strings.ToLower(query)
	return functional.Filter(all, func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(strings.ToLower(p.Description), lower) ||
			strings.Contains(strings.ToLower(p.Category), lower)
	})
}

// Create validates and stores a new product, generating an id when absent.
func (s *Service) Create(ctx context.Context, product *Product) (*Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "product name is required", nil,
			"6f4b8f0a-3c9e-47f2-8c53-9d1e5a7b2c40")
	}
	if product.Price < 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "product price must not be negative", nil,
			"2ab4c6d8-5e1f-4a3b-9c7d-0e2f4a6b8c1d")
	}
	if product.ID == "" {
		product.ID = fmt.Sprintf("prod_%d", time.Now().UnixMilli())
	}
	if product.Currency == "" {
		product.Currency = s.cfg.Currency
	}
	if product.MaxDiscountPercent <= 0 {
		product.MaxDiscountPercent = s.cfg.MaxDiscountPercent
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies a partial mutation to an existing product.
func (s *Service) Update(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	if update.Price != nil && *update.Price < 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "product price must not be negative", nil,
			"8d2e4f6a-1b3c-4d5e-9f0a-3b5c7d9e1f2a")
	}
	return s.repo.Update(ctx, id, update)
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
