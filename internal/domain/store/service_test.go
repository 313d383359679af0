package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aistore-server/services/storefront-api/internal/config"
)

type fakeSettingsRepo struct {
	values map[string]json.RawMessage
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{values: map[string]json.RawMessage{}}
}

func (f *fakeSettingsRepo) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, ok := f.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (f *fakeSettingsRepo) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = raw
	return nil
}

func newSettingsService() (*Service, *fakeSettingsRepo) {
	cfg := &config.Config{
		StoreName:          "AI Store",
		StoreDescription:   "Your friendly online store in Bangladesh",
		Currency:           "BDT",
		MaxDiscountPercent: 15,
		AIModel:            "gpt-4o-mini",
	}
	repo := newFakeSettingsRepo()
	return NewService(cfg, repo, zerolog.Nop()), repo
}

func TestGetReturnsDefaultsWhenEmpty(t *testing.T) {
	svc, _ := newSettingsService()

	settings := svc.Get(context.Background())

	assert.Equal(t, "AI Store", settings.StoreName)
	assert.Equal(t, "BDT", settings.Currency)
	assert.Equal(t, 15, settings.AI.MaxDiscountPercent)
	assert.True(t, settings.Payments.CashOnDelivery.Enabled)
	assert.True(t, settings.Courier.Manual.Enabled)
}

func TestGetMergesPersistedOverDefaults(t *testing.T) {
	svc, repo := newSettingsService()
	require.NoError(t, repo.Put(context.Background(), "general", map[string]string{
		"storeName":  "Dhaka Gadgets",
		"ownerEmail": "owner@example.com",
	}))
	require.NoError(t, repo.Put(context.Background(), "ai", AISettings{
		MaxDiscountPercent: 20,
	}))

	settings := svc.Get(context.Background())

	assert.Equal(t, "Dhaka Gadgets", settings.StoreName)
	assert.Equal(t, "owner@example.com", settings.OwnerEmail)
	// persisted section wins where set, defaults fill the rest
	assert.Equal(t, 20, settings.AI.MaxDiscountPercent)
	assert.Equal(t, "BDT", settings.Currency)
	assert.Equal(t, "gpt-4o-mini", settings.AI.Model)
}

func TestMaskedHidesSecrets(t *testing.T) {
	svc, repo := newSettingsService()
	require.NoError(t, repo.Put(context.Background(), "ai", AISettings{APIKey: "sk-secret"}))
	require.NoError(t, repo.Put(context.Background(), "payments", PaymentSettings{
		Stripe: StripeSettings{Enabled: true, PublicKey: "pk_live_1", SecretKey: "sk_live_1"},
	}))

	masked := svc.Masked(context.Background())

	assert.Equal(t, "***configured***", masked.AI.APIKey)
	assert.Equal(t, "***configured***", masked.Payments.Stripe.SecretKey)
	// public values pass through untouched
	assert.Equal(t, "pk_live_1", masked.Payments.Stripe.PublicKey)
	// unset secrets stay empty rather than pretending to be configured
	assert.Empty(t, masked.Payments.Paypal.ClientSecret)
}

func TestUpdateDoesNotOverwriteSecretsWithPlaceholder(t *testing.T) {
	svc, repo := newSettingsService()
	require.NoError(t, repo.Put(context.Background(), "ai", AISettings{APIKey: "sk-original"}))

	// dashboard round-trip: the client sends back what Masked returned
	incoming := svc.Masked(context.Background())
	incoming.StoreName = "Renamed Store"
	require.NoError(t, svc.Update(context.Background(), incoming))

	settings := svc.Get(context.Background())
	assert.Equal(t, "Renamed Store", settings.StoreName)
	assert.Equal(t, "sk-original", settings.AI.APIKey)
}

func TestUpdateStoresNewSecret(t *testing.T) {
	svc, _ := newSettingsService()

	incoming := svc.Masked(context.Background())
	incoming.AI.APIKey = "sk-brand-new"
	require.NoError(t, svc.Update(context.Background(), incoming))

	settings := svc.Get(context.Background())
	assert.Equal(t, "sk-brand-new", settings.AI.APIKey)
}
