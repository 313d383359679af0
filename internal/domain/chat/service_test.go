package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aistore-server/services/storefront-api/internal/config"
	"aistore-server/services/storefront-api/internal/domain/catalog"
	"aistore-server/services/storefront-api/internal/domain/order"
	"aistore-server/services/storefront-api/internal/domain/store"
	"aistore-server/services/storefront-api/internal/utils/platformerrors"
)

type fakeCatalogRepo struct {
	products []catalog.Product
}

func (f *fakeCatalogRepo) List(ctx context.Context) ([]catalog.Product, error) {
	return f.products, nil
}

func (f *fakeCatalogRepo) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "product not found", nil, "")
}

func (f *fakeCatalogRepo) Create(ctx context.Context, p *catalog.Product) error { return nil }

func (f *fakeCatalogRepo) Update(ctx context.Context, id string, update catalog.ProductUpdate) (*catalog.Product, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCatalogRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeOrderRepo struct {
	committed []order.Order
}

func (f *fakeOrderRepo) Commit(ctx context.Context, ord *order.Order) error {
	f.committed = append(f.committed, *ord)
	return nil
}

func (f *fakeOrderRepo) List(ctx context.Context) ([]order.Order, error) {
	return f.committed, nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	for i := range f.committed {
		if f.committed[i].ID == id {
			ord := f.committed[i]
			return &ord, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, id string, update order.Update) (*order.Order, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeOrderRepo) SetCustomer(ctx context.Context, id string, customer order.CustomerInfo) error {
	return nil
}

type fakeSettingsRepo struct{}

func (f *fakeSettingsRepo) Get(ctx context.Context, key string, out any) (bool, error) {
	return false, nil
}

func (f *fakeSettingsRepo) Put(ctx context.Context, key string, value any) error { return nil }

type fakeSessionRepo struct {
	sessions map[string]*Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*Session{}}
}

func (f *fakeSessionRepo) GetOrCreate(ctx context.Context, sessionID string) (*Session, error) {
	if s, ok := f.sessions[sessionID]; ok {
		return s, nil
	}
	s := &Session{
		ID:                  "sess_" + sessionID,
		SessionID:           sessionID,
		Preferences:         map[string]string{},
		NegotiatedDiscounts: map[string]int{},
	}
	f.sessions[sessionID] = s
	return s, nil
}

func (f *fakeSessionRepo) SaveDiscount(ctx context.Context, sessionID, productID string, percent int) error {
	s, _ := f.GetOrCreate(ctx, sessionID)
	s.NegotiatedDiscounts[productID] = percent
	return nil
}

func (f *fakeSessionRepo) SavePreference(ctx context.Context, sessionID, key, value string) error {
	s, _ := f.GetOrCreate(ctx, sessionID)
	s.Preferences[key] = value
	return nil
}

func (f *fakeSessionRepo) SetLastProduct(ctx context.Context, sessionID, productID string) error {
	s, _ := f.GetOrCreate(ctx, sessionID)
	s.LastProductViewed = productID
	return nil
}

func (f *fakeSessionRepo) DeleteIdle(ctx context.Context, updatedBefore time.Time) (int64, error) {
	return 0, nil
}

type failingCompleter struct{ calls int }

func (f *failingCompleter) Enabled() bool { return true }

func (f *failingCompleter) Complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	return openai.ChatCompletionResponse{}, errors.New("backend unavailable")
}

func newChatFixture(completer Completer) (*Service, *fakeOrderRepo, *fakeSessionRepo) {
	return newChatFixtureWithCatalog(completer, trackerFixtureProducts())
}

func newChatFixtureWithCatalog(completer Completer, products []catalog.Product) (*Service, *fakeOrderRepo, *fakeSessionRepo) {
	cfg := &config.Config{
		StoreName:          "AI Store",
		StoreDescription:   "Your friendly online store in Bangladesh",
		Currency:           "BDT",
		MaxDiscountPercent: 15,
		AIModel:            "gpt-4o-mini",
		AIHistoryWindow:    10,
	}
	log := zerolog.Nop()

	catalogRepo := &fakeCatalogRepo{products: products}
	catalogSvc := catalog.NewService(cfg, catalogRepo, log)
	orderRepo := &fakeOrderRepo{}
	orderSvc := order.NewService(orderRepo, catalogSvc, log)
	storeSvc := store.NewService(cfg, &fakeSettingsRepo{}, log)
	sessionRepo := newFakeSessionRepo()

	svc := NewService(cfg, catalogSvc, orderSvc, storeSvc, sessionRepo, completer, log)
	return svc, orderRepo, sessionRepo
}

func TestHandleGreetingFallback(t *testing.T) {
	svc, orderRepo, _ := newChatFixture(nil)

	resp := svc.Handle(context.Background(), Request{
		SessionID: "s1",
		Message:   "hello",
	})

	assert.Contains(t, resp.Reply, "AI Store")
	// the welcome features a product, which becomes the active topic
	assert.Equal(t, StageProductDiscussion, resp.State.Stage)
	require.NotNil(t, resp.State.ActiveProduct)
	assert.Equal(t, "prod_1", resp.State.ActiveProduct.ID)
	assert.NotEmpty(t, resp.MessageID)
	assert.Nil(t, resp.Order)
	assert.Empty(t, orderRepo.committed)
}

func TestHandleFullSaleFallback(t *testing.T) {
	svc, orderRepo, _ := newChatFixture(nil)
	ctx := context.Background()

	history := []Turn{}
	say := func(message string) Response {
		resp := svc.Handle(ctx, Request{SessionID: "s2", Message: message, History: history})
		history = append(history,
			Turn{Role: RoleCustomer, Content: message},
			Turn{Role: RoleAssistant, Content: resp.Reply},
		)
		return resp
	}

	say("hello")
	resp := say("tell me about the Premium Wireless Headphones")
	assert.Equal(t, StageProductDiscussion, resp.State.Stage)

	resp = say("yes, I'll take it")
	assert.Equal(t, StageCollectingOrder, resp.State.Stage)

	say("Rahim Uddin")
	say("01712345678")
	resp = say("House 12, Road 5, Dhanmondi, Dhaka")

	require.NotNil(t, resp.Order)
	assert.True(t, resp.AwaitingApproval)
	assert.Equal(t, StageOrderConfirmed, resp.State.Stage)
	assert.Contains(t, resp.Reply, "Order confirmed")

	require.Len(t, orderRepo.committed, 1)
	placed := orderRepo.committed[0]
	assert.Equal(t, order.StatusPendingApproval, placed.Status)
	require.NotNil(t, placed.Customer)
	assert.Equal(t, "Rahim Uddin", placed.Customer.Name)
	assert.Equal(t, "01712345678", placed.Customer.Phone)
	// the committed amount matches the 10% offer quoted during the chat
	require.Len(t, placed.Items, 1)
	assert.Equal(t, 10, placed.Items[0].DiscountPercent)
	assert.Equal(t, 4499, placed.Items[0].FinalPrice)
}

func TestHandleAppliesNegotiatedDiscount(t *testing.T) {
	svc, orderRepo, sessionRepo := newChatFixture(nil)
	ctx := context.Background()

	require.NoError(t, sessionRepo.SaveDiscount(ctx, "s3", "prod_1", 10))

	history := []Turn{
		{Role: RoleCustomer, Content: "Premium Wireless Headphones"},
		{Role: RoleAssistant, Content: "May I have your name please?"},
		{Role: RoleCustomer, Content: "Rahim Uddin"},
		{Role: RoleAssistant, Content: "Thanks! What's your phone number?"},
		{Role: RoleCustomer, Content: "01712345678"},
		{Role: RoleAssistant, Content: "Almost done! What's your delivery address?"},
	}
	resp := svc.Handle(ctx, Request{
		SessionID: "s3",
		Message:   "Dhanmondi, Dhaka",
		History:   history,
	})

	require.NotNil(t, resp.Order)
	require.Len(t, orderRepo.committed, 1)
	item := orderRepo.committed[0].Items[0]
	assert.Equal(t, 10, item.DiscountPercent)
	assert.Equal(t, 4499, item.FinalPrice)
}

func TestHandleFallsBackWhenBackendFails(t *testing.T) {
	completer := &failingCompleter{}
	svc, _, _ := newChatFixture(completer)

	resp := svc.Handle(context.Background(), Request{
		SessionID: "s4",
		Message:   "hello",
	})

	assert.Equal(t, 1, completer.calls)
	assert.Contains(t, resp.Reply, "AI Store")
}

func TestHandleApologyWhenOrderFails(t *testing.T) {
	svc, orderRepo, _ := newChatFixture(nil)
	ctx := context.Background()

	// Bluetooth Speaker is out of stock, so the confirmed order cannot commit
	history := []Turn{
		{Role: RoleCustomer, Content: "Bluetooth Speaker"},
		{Role: RoleAssistant, Content: "May I have your name please?"},
		{Role: RoleCustomer, Content: "Rahim Uddin"},
		{Role: RoleAssistant, Content: "Thanks! What's your phone number?"},
		{Role: RoleCustomer, Content: "01712345678"},
		{Role: RoleAssistant, Content: "Almost done! What's your delivery address?"},
	}
	resp := svc.Handle(ctx, Request{
		SessionID: "s5",
		Message:   "Dhanmondi, Dhaka",
		History:   history,
	})

	assert.Nil(t, resp.Order)
	assert.Equal(t, apologyReply, resp.Reply)
	assert.Empty(t, orderRepo.committed)
}
