package handlers

import (
	"github.com/rs/zerolog"

	"aistore-server/services/storefront-api/internal/domain/catalog"
	"aistore-server/services/storefront-api/internal/domain/chat"
	"aistore-server/services/storefront-api/internal/domain/newsletter"
	"aistore-server/services/storefront-api/internal/domain/order"
	"aistore-server/services/storefront-api/internal/domain/store"
)

// Provider wires HTTP handlers.
type Provider struct {
	Chat        *ChatHandler
	Products    *ProductHandler
	Orders      *OrderHandler
	Settings    *SettingsHandler
	Subscribers *SubscriberHandler
}

func NewProvider(
	agent *chat.Service,
	inbox *chat.Inbox,
	catalogSvc *catalog.Service,
	orderSvc *order.Service,
	storeSvc *store.Service,
	newsletterSvc *newsletter.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Chat:        NewChatHandler(agent, inbox, log),
		Products:    NewProductHandler(catalogSvc, log),
		Orders:      NewOrderHandler(orderSvc, log),
		Settings:    NewSettingsHandler(storeSvc, log),
		Subscribers: NewSubscriberHandler(newsletterSvc, log),
	}
}
