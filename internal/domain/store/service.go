package store

import (
	"context"

	"github.com/rs/zerolog"

	"aistore-server/services/storefront-api/internal/config"
)

const (
	keyGeneral       = "general"
	keyAI            = "ai"
	keyPayments      = "payments"
	keyCourier       = "courier"
	keyNotifications = "notifications"

	maskedValue = "***configured***"
)

// Service reads and writes the store settings, merging persisted sections
// over environment defaults.
type Service struct {
	cfg  *config.Config
	repo SettingsRepository
	log  zerolog.Logger
}

func NewService(cfg *config.Config, repo SettingsRepository, log zerolog.Logger) *Service {
	return &Service{
		cfg:  cfg,
		repo: repo,
		log:  log.With().Str("component", "settings-service").Logger(),
	}
}

// Defaults returns the settings implied by environment configuration alone.
func (s *Service) Defaults() Settings {
	return Settings{
		StoreName:        s.cfg.StoreName,
		StoreDescription: s.cfg.StoreDescription,
		Currency:         s.cfg.Currency,
		AI: AISettings{
			Provider:           "openai",
			APIKey:             s.cfg.AIAPIKey,
			Model:              s.cfg.AIModel,
			MaxDiscountPercent: s.cfg.MaxDiscountPercent,
		},
		Payments: PaymentSettings{
			CashOnDelivery: ToggleSetting{Enabled: true},
		},
		Courier: CourierSettings{
			Manual: ToggleSetting{Enabled: true},
		},
	}
}

// Get returns the effective settings. Missing or unreadable sections fall
// back to defaults; read failures are logged, not propagated, so the
// storefront never loses its configuration entirely.
func (s *Service) Get(ctx context.Context) Settings {
	settings := s.Defaults()

	var general struct {
		StoreName        string `json:"storeName"`
		StoreDescription string `json:"storeDescription"`
		Currency         string `json:"currency"`
		OwnerEmail       string `json:"ownerEmail"`
	}
	if ok, err := s.repo.Get(ctx, keyGeneral, &general); err != nil {
		s.log.Error().Err(err).Msg("failed to read general settings")
	} else if ok {
		if general.StoreName != "" {
			settings.StoreName = general.StoreName
		}
		if general.StoreDescription != "" {
			settings.StoreDescription = general.StoreDescription
		}
		if general.Currency != "" {
			settings.Currency = general.Currency
		}
		settings.OwnerEmail = general.OwnerEmail
	}

	var ai AISettings
	if ok, err := s.repo.Get(ctx, keyAI, &ai); err != nil {
		s.log.Error().Err(err).Msg("failed to read ai settings")
	} else if ok {
		if ai.Provider != "" {
			settings.AI.Provider = ai.Provider
		}
		if ai.APIKey != "" {
			settings.AI.APIKey = ai.APIKey
		}
		if ai.Model != "" {
			settings.AI.Model = ai.Model
		}
		if ai.MaxDiscountPercent > 0 && ai.MaxDiscountPercent <= 100 {
			settings.AI.MaxDiscountPercent = ai.MaxDiscountPercent
		}
	}

	if ok, err := s.repo.Get(ctx, keyPayments, &settings.Payments); err != nil {
		s.log.Error().Err(err).Msg("failed to read payment settings")
	} else if !ok {
		settings.Payments.CashOnDelivery.Enabled = true
	}
	if _, err := s.repo.Get(ctx, keyCourier, &settings.Courier); err != nil {
		s.log.Error().Err(err).Msg("failed to read courier settings")
	}
	if _, err := s.repo.Get(ctx, keyNotifications, &settings.Notifications); err != nil {
		s.log.Error().Err(err).Msg("failed to read notification settings")
	}

	return settings
}

// Masked returns settings safe to return to the dashboard: every secret is
// replaced with a placeholder when set, or left empty when unset.
func (s *Service) Masked(ctx context.Context) Settings {
	settings := s.Get(ctx)
	settings.AI.APIKey = mask(settings.AI.APIKey)
	settings.Payments.Stripe.SecretKey = mask(settings.Payments.Stripe.SecretKey)
	settings.Payments.Paypal.ClientSecret = mask(settings.Payments.Paypal.ClientSecret)
	settings.Payments.Bkash.AppSecret = mask(settings.Payments.Bkash.AppSecret)
	settings.Payments.Bkash.Password = mask(settings.Payments.Bkash.Password)
	settings.Courier.Pathao.ClientSecret = mask(settings.Courier.Pathao.ClientSecret)
	settings.Courier.Pathao.Password = mask(settings.Courier.Pathao.Password)
	settings.Courier.Steadfast.SecretKey = mask(settings.Courier.Steadfast.SecretKey)
	return settings
}

// Update persists the provided sections. Masked placeholder values are
// dropped so a dashboard round-trip never overwrites a stored secret.
func (s *Service) Update(ctx context.Context, incoming Settings) error {
	current := s.Get(ctx)
	unmaskSecrets(&incoming, current)

	general := map[string]string{
		"storeName":        incoming.StoreName,
		"storeDescription": incoming.StoreDescription,
		"currency":         incoming.Currency,
		"ownerEmail":       incoming.OwnerEmail,
	}
	if err := s.repo.Put(ctx, keyGeneral, general); err != nil {
		return err
	}
	if err := s.repo.Put(ctx, keyAI, incoming.AI); err != nil {
		return err
	}
	if err := s.repo.Put(ctx, keyPayments, incoming.Payments); err != nil {
		return err
	}
	if err := s.repo.Put(ctx, keyCourier, incoming.Courier); err != nil {
		return err
	}
	return s.repo.Put(ctx, keyNotifications, incoming.Notifications)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return maskedValue
}

func unmaskSecrets(incoming *Settings, current Settings) {
	if incoming.AI.APIKey == maskedValue {
		incoming.AI.APIKey = current.AI.APIKey
	}
	if incoming.Payments.Stripe.SecretKey == maskedValue {
		incoming.Payments.Stripe.SecretKey = current.Payments.Stripe.SecretKey
	}
	if incoming.Payments.Paypal.ClientSecret == maskedValue {
		incoming.Payments.Paypal.ClientSecret = current.Payments.Paypal.ClientSecret
	}
	if incoming.Payments.Bkash.AppSecret == maskedValue {
		incoming.Payments.Bkash.AppSecret = current.Payments.Bkash.AppSecret
	}
	if incoming.Payments.Bkash.Password == maskedValue {
		incoming.Payments.Bkash.Password = current.Payments.Bkash.Password
	}
	if incoming.Courier.Pathao.ClientSecret == maskedValue {
		incoming.Courier.Pathao.ClientSecret = current.Courier.Pathao.ClientSecret
	}
	if incoming.Courier.Pathao.Password == maskedValue {
		incoming.Courier.Pathao.Password = current.Courier.Pathao.Password
	}
	if incoming.Courier.Steadfast.SecretKey == maskedValue {
		incoming.Courier.Steadfast.SecretKey = current.Courier.Steadfast.SecretKey
	}
}
