package store

import "context"

// Settings is the owner-editable store configuration, persisted as a
// key/value document per top-level section.
type Settings struct {
	StoreName        string `json:"storeName"`
	StoreDescription string `json:"storeDescription"`
	Currency         string `json:"currency"`
	OwnerEmail       string `json:"ownerEmail"`

	AI            AISettings           `json:"ai"`
	Payments      PaymentSettings      `json:"payments"`
	Courier       CourierSettings      `json:"courier"`
	Notifications NotificationSettings `json:"notifications"`
}

// AISettings configures the external sales-agent completion service.
type AISettings struct {
	Provider           string `json:"provider"`
	APIKey             string `json:"apiKey"`
	Model              string `json:"model"`
	MaxDiscountPercent int    `json:"maxDiscountPercent"`
}

// PaymentSettings holds per-gateway credentials.
type PaymentSettings struct {
	CashOnDelivery ToggleSetting  `json:"cashOnDelivery"`
	Bkash          BkashSettings  `json:"bkash"`
	Stripe         StripeSettings `json:"stripe"`
	Paypal         PaypalSettings `json:"paypal"`
}

type ToggleSetting struct {
	Enabled bool `json:"enabled"`
}

type BkashSettings struct {
	Enabled   bool   `json:"enabled"`
	AppKey    string `json:"appKey"`
	AppSecret string `json:"appSecret"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Mode      string `json:"mode"`
}

type StripeSettings struct {
	Enabled   bool   `json:"enabled"`
	PublicKey string `json:"publicKey"`
	SecretKey string `json:"secretKey"`
}

type PaypalSettings struct {
	Enabled      bool   `json:"enabled"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Mode         string `json:"mode"`
}

// CourierSettings holds delivery partner credentials.
type CourierSettings struct {
	Pathao    PathaoSettings    `json:"pathao"`
	Steadfast SteadfastSettings `json:"steadfast"`
	Manual    ToggleSetting     `json:"manual"`
}

type PathaoSettings struct {
	Enabled      bool   `json:"enabled"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

type SteadfastSettings struct {
	Enabled   bool   `json:"enabled"`
	APIKey    string `json:"apiKey"`
	SecretKey string `json:"secretKey"`
}

type NotificationSettings struct {
	EmailNotifications bool `json:"emailNotifications"`
	SoundAlerts        bool `json:"soundAlerts"`
}

// SettingsRepository persists settings sections as key/value documents.
type SettingsRepository interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Put(ctx context.Context, key string, value any) error
}
