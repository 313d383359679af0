package order

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aistore-server/services/storefront-api/internal/config"
	"aistore-server/services/storefront-api/internal/domain/catalog"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

type fakeCatalogRepo struct {
	products map[string]catalog.Product
}

func (f *fakeCatalogRepo) List(ctx context.Context) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "product not found", nil, "")
	}
	return &p, nil
}

func (f *fakeCatalogRepo) Create(ctx context.Context, p *catalog.Product) error {
	f.products[p.ID] = *p
	return nil
}

func (f *fakeCatalogRepo) Update(ctx context.Context, id string, update catalog.ProductUpdate) (*catalog.Product, error) {
	p := f.products[id]
	return &p, nil
}

func (f *fakeCatalogRepo) Delete(ctx context.Context, id string) error {
	delete(f.products, id)
	return nil
}

type fakeOrderRepo struct {
	committed []Order
	orders    map[string]*Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*Order{}}
}

func (f *fakeOrderRepo) Commit(ctx context.Context, ord *Order) error {
	f.committed = append(f.committed, *ord)
	clone := *ord
	f.orders[ord.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) List(ctx context.Context) ([]Order, error) {
	out := make([]Order, 0, len(f.orders))
	for _, ord := range f.orders {
		out = append(out, *ord)
	}
	return out, nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ord, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	clone := *ord
	return &clone, nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, id string, update Update) (*Order, error) {
	ord, ok := f.orders[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "order not found", nil, "")
	}
	if update.Status != nil {
		ord.Status = *update.Status
	}
	if update.CounterOffer != nil {
		ord.CounterOffer = *update.CounterOffer
	}
	if update.OwnerNotes != nil {
		ord.OwnerNotes = *update.OwnerNotes
	}
	clone := *ord
	return &clone, nil
}

func (f *fakeOrderRepo) SetCustomer(ctx context.Context, id string, customer CustomerInfo) error {
	if ord, ok := f.orders[id]; ok {
		ord.Customer = &customer
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeOrderRepo) {
	t.Helper()
	catalogRepo := &fakeCatalogRepo{products: map[string]catalog.Product{
		"prod_1": {ID: "prod_1", Name: "Premium Wireless Headphones", Price: 4999, Stock: 5, MaxDiscountPercent: 15},
		"prod_2": {ID: "prod_2", Name: "Smart Watch", Price: 8999, Stock: 1, MaxDiscountPercent: 10},
	}}
	catalogSvc := catalog.NewService(&config.Config{Currency: "BDT", MaxDiscountPercent: 15}, catalogRepo, zerolog.Nop())
	orderRepo := newFakeOrderRepo()
	return NewService(orderRepo, catalogSvc, zerolog.Nop()), orderRepo
}

func validCustomer() CustomerInfo {
	return CustomerInfo{
		Name:    "Rahim Uddin",
		Phone:   "01712345678",
		Address: "House 12, Dhanmondi",
		City:    "Dhaka",
	}
}

func TestCreateInvoice(t *testing.T) {
	svc, repo := newTestService(t)

	ord, err := svc.CreateInvoice(context.Background(), InvoiceRequest{
		ProductID:       "prod_1",
		Quantity:        2,
		DiscountPercent: 10,
		Customer:        validCustomer(),
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPendingApproval, ord.Status)
	assert.Equal(t, PaymentCOD, ord.PaymentMethod)
	assert.Equal(t, 9998, ord.TotalAmount)
	assert.Equal(t, 1000, ord.DiscountAmount)
	assert.Equal(t, 8998, ord.FinalAmount)
	require.Len(t, ord.Items, 1)
	assert.Equal(t, 4499, ord.Items[0].FinalPrice)
	require.Len(t, repo.committed, 1)
	assert.Equal(t, ord.ID, repo.committed[0].ID)
}

func TestCreateInvoiceCapsDiscount(t *testing.T) {
	svc, _ := newTestService(t)

	ord, err := svc.CreateInvoice(context.Background(), InvoiceRequest{
		ProductID:       "prod_1",
		Quantity:        1,
		DiscountPercent: 50,
		Customer:        validCustomer(),
	})
	require.NoError(t, err)

	assert.Equal(t, 15, ord.Items[0].DiscountPercent)
	assert.Equal(t, 4249, ord.Items[0].FinalPrice)
}

func TestCreateInvoiceZeroQuantityDefaultsToOne(t *testing.T) {
	svc, _ := newTestService(t)

	ord, err := svc.CreateInvoice(context.Background(), InvoiceRequest{
		ProductID: "prod_1",
		Customer:  validCustomer(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ord.Items[0].Quantity)
}

func TestCreateInvoiceInsufficientStock(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.CreateInvoice(context.Background(), InvoiceRequest{
		ProductID: "prod_2",
		Quantity:  3,
		Customer:  validCustomer(),
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
	assert.Empty(t, repo.committed)
}

func TestCreateInvoiceRequiresCustomer(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.CreateInvoice(context.Background(), InvoiceRequest{
		ProductID: "prod_1",
		Quantity:  1,
		Customer:  CustomerInfo{Name: "Rahim Uddin"},
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Empty(t, repo.committed)
}

func TestCreateInvoiceUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateInvoice(context.Background(), InvoiceRequest{
		ProductID: "prod_missing",
		Customer:  validCustomer(),
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestPendingApprovals(t *testing.T) {
	svc, _ := newTestService(t)

	ord, err := svc.CreateInvoice(context.Background(), InvoiceRequest{
		ProductID:       "prod_1",
		Quantity:        1,
		DiscountPercent: 10,
		Customer:        validCustomer(),
	})
	require.NoError(t, err)

	approvals := svc.PendingApprovals(context.Background())
	require.Len(t, approvals, 1)
	assert.Equal(t, "APR-"+ord.ID, approvals[0].ID)
	assert.Equal(t, "deal", approvals[0].Type)
	assert.Equal(t, 10, approvals[0].DiscountPercent)
	assert.Equal(t, ord.FinalAmount, approvals[0].TotalAmount)
}

func TestDecideApprove(t *testing.T) {
	svc, _ := newTestService(t)

	ord, err := svc.CreateInvoice(context.Background(), InvoiceRequest{
		ProductID: "prod_1",
		Customer:  validCustomer(),
	})
	require.NoError(t, err)

	updated, err := svc.Decide(context.Background(), ord.ID, "approve", "", "looks good")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, updated.Status)
	assert.Equal(t, "looks good", updated.OwnerNotes)
}

func TestDecideReject(t *testing.T) {
	svc, _ := newTestService(t)

	ord, err := svc.CreateInvoice(context.Background(), InvoiceRequest{
		ProductID: "prod_1",
		Customer:  validCustomer(),
	})
	require.NoError(t, err)

	updated, err := svc.Decide(context.Background(), ord.ID, "reject", "৳4,600 instead", "")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, updated.Status)
	assert.Equal(t, "৳4,600 instead", updated.CounterOffer)
}

func TestDecideApproveWrongState(t *testing.T) {
	svc, _ := newTestService(t)

	ord, err := svc.CreateInvoice(context.Background(), InvoiceRequest{
		ProductID: "prod_1",
		Customer:  validCustomer(),
	})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), ord.ID, "approve", "", "")
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), ord.ID, "approve", "", "")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
}

func TestDecideUnknownAction(t *testing.T) {
	svc, _ := newTestService(t)

	ord, err := svc.CreateInvoice(context.Background(), InvoiceRequest{
		ProductID: "prod_1",
		Customer:  validCustomer(),
	})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), ord.ID, "escalate", "", "")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestPricing(t *testing.T) {
	assert.Equal(t, 4499, DiscountedPrice(4999, 10))
	assert.Equal(t, 4999, DiscountedPrice(4999, 0))
	assert.Equal(t, 4249, DiscountedPrice(4999, 15))

	assert.Equal(t, 0, CapDiscount(-5, 15))
	assert.Equal(t, 15, CapDiscount(40, 15))
	assert.Equal(t, 10, CapDiscount(10, 15))

	assert.Equal(t, 500, DiscountAmount(4999, 10))
}
