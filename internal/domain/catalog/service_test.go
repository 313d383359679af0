package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aistore-server/services/storefront-api/internal/config"
)

type stubRepo struct {
	products []Product
	listErr  error
	created  []Product
}

func (s *stubRepo) List(ctx context.Context) ([]Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.products, nil
}

func (s *stubRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) Create(ctx context.Context, product *Product) error {
	s.created = append(s.created, *product)
	return nil
}

func (s *stubRepo) Update(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	return s.GetByID(ctx, id)
}

func (s *stubRepo) Delete(ctx context.Context, id string) error { return nil }

func newCatalogService(repo *stubRepo) *Service {
	cfg := &config.Config{Currency: "BDT", MaxDiscountPercent: 15}
	return NewService(cfg, repo, zerolog.Nop())
}

func fixtureProducts() []Product {
	return []Product{
		{ID: "prod_1", Name: "Premium Wireless Headphones", Description: "Noise cancelling", Category: "audio", Price: 4999, Stock: 5},
		{ID: "prod_2", Name: "Smart Watch", Description: "Fitness tracking", Category: "wearables", Price: 8999, Stock: 3},
		{ID: "prod_3", Name: "Bluetooth Speaker", Description: "Portable audio", Category: "audio", Price: 2499, Stock: 0},
	}
}

func TestListSwallowsRepositoryError(t *testing.T) {
	svc := newCatalogService(&stubRepo{listErr: errors.New("boom")})

	products := svc.List(context.Background())

	assert.Empty(t, products)
}

func TestSearchMatchesNameDescriptionCategory(t *testing.T) {
	svc := newCatalogService(&stubRepo{products: fixtureProducts()})
	ctx := context.Background()

	byName := svc.Search(ctx, "smart watch")
	require.Len(t, byName, 1)
	assert.Equal(t, "prod_2", byName[0].ID)

	byDescription := svc.Search(ctx, "noise")
	require.Len(t, byDescription, 1)
	assert.Equal(t, "prod_1", byDescription[0].ID)

	byCategory := svc.Search(ctx, "AUDIO")
	assert.Len(t, byCategory, 2)
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	svc := newCatalogService(&stubRepo{products: fixtureProducts()})

	products := svc.Search(context.Background(), "   ")

	assert.Len(t, products, 3)
}

func TestSearchNoMatch(t *testing.T) {
	svc := newCatalogService(&stubRepo{products: fixtureProducts()})

	products := svc.Search(context.Background(), "refrigerator")

	assert.Empty(t, products)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newCatalogService(&stubRepo{products: fixtureProducts()})

	_, err := svc.GetByID(context.Background(), "prod_99")

	assert.Error(t, err)
}

func TestCreateValidatesAndDefaults(t *testing.T) {
	repo := &stubRepo{}
	svc := newCatalogService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, &Product{Name: "  "})
	assert.Error(t, err)

	_, err = svc.Create(ctx, &Product{Name: "Desk Lamp", Price: -1})
	assert.Error(t, err)

	created, err := svc.Create(ctx, &Product{Name: "Desk Lamp", Price: 1299})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "BDT", created.Currency)
	assert.Equal(t, 15, created.MaxDiscountPercent)
	require.Len(t, repo.created, 1)
}
