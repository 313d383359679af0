//go:build wireinject

package main

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"aistore-server/services/storefront-api/internal/config"
	"aistore-server/services/storefront-api/internal/domain/catalog"
	"aistore-server/services/storefront-api/internal/domain/chat"
	"aistore-server/services/storefront-api/internal/domain/newsletter"
	"aistore-server/services/storefront-api/internal/domain/order"
	"aistore-server/services/storefront-api/internal/domain/store"
	appcrontab "aistore-server/services/storefront-api/internal/infrastructure/crontab"
	"aistore-server/services/storefront-api/internal/infrastructure/database"
	"aistore-server/services/storefront-api/internal/infrastructure/genai"
	"aistore-server/services/storefront-api/internal/infrastructure/logger"
	catalogrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/catalog"
	inboxrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/inbox"
	orderrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/orders"
	sessionrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/sessions"
	settingsrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/storesettings"
	subscriberrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/subscribers"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver/handlers"
)

var repositorySet = wire.NewSet(
	catalogrepo.NewRepository,
	wire.Bind(new(catalog.Repository), new(*catalogrepo.Repository)),
	orderrepo.NewRepository,
	wire.Bind(new(order.Repository), new(*orderrepo.Repository)),
	settingsrepo.NewRepository,
	wire.Bind(new(store.SettingsRepository), new(*settingsrepo.Repository)),
	subscriberrepo.NewRepository,
	wire.Bind(new(newsletter.Repository), new(*subscriberrepo.Repository)),
	inboxrepo.NewRepository,
	wire.Bind(new(chat.InboxRepository), new(*inboxrepo.Repository)),
	sessionrepo.NewRepository,
	wire.Bind(new(chat.SessionRepository), new(*sessionrepo.Repository)),
)

var serviceSet = wire.NewSet(
	catalog.NewService,
	order.NewService,
	store.NewService,
	newsletter.NewService,
	chat.NewInbox,
	genai.NewClient,
	wire.Bind(new(chat.Completer), new(*genai.Client)),
	chat.NewService,
)

// BuildApplication assembles the storefront API with Wire.
func BuildApplication() (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newGormDB,
		repositorySet,
		serviceSet,
		handlers.NewProvider,
		httpserver.New,
		appcrontab.NewCrontab,
		NewApplication,
	)
	return nil, nil
}

func newGormDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}
