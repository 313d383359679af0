package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

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
	"aistore-server/services/storefront-api/internal/infrastructure/observability"
	catalogrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/catalog"
	inboxrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/inbox"
	orderrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/orders"
	sessionrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/sessions"
	settingsrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/storesettings"
	subscriberrepo "aistore-server/services/storefront-api/internal/infrastructure/repository/subscribers"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver/handlers"
)

// Application bundles the long running parts of the service.
type Application struct {
	cfg        *config.Config
	httpServer *httpserver.HttpServer
	crontab    *appcrontab.Crontab
	log        zerolog.Logger
}

func NewApplication(cfg *config.Config, httpServer *httpserver.HttpServer, crontab *appcrontab.Crontab, log zerolog.Logger) *Application {
	return &Application{
		cfg:        cfg,
		httpServer: httpServer,
		crontab:    crontab,
		log:        log,
	}
}

// Start runs the HTTP server, the Prometheus endpoint and the background
// jobs until the context is cancelled.
func (a *Application) Start(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return a.httpServer.Run(groupCtx)
	})
	group.Go(func() error {
		return a.runMetrics(groupCtx)
	})
	group.Go(func() error {
		return a.crontab.Run(groupCtx)
	})

	return group.Wait()
}

func (a *Application) runMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: a.cfg.MetricsAddr(), Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.cfg.MetricsAddr()).Msg("metrics endpoint listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.WaitForDatabase(cfg, 5, 2*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	catalogRepository := catalogrepo.NewRepository(db)
	orderRepository := orderrepo.NewRepository(db)
	settingsRepository := settingsrepo.NewRepository(db)
	subscriberRepository := subscriberrepo.NewRepository(db)
	inboxRepository := inboxrepo.NewRepository(db)
	sessionRepository := sessionrepo.NewRepository(db)

	catalogService := catalog.NewService(cfg, catalogRepository, log)
	orderService := order.NewService(orderRepository, catalogService, log)
	storeService := store.NewService(cfg, settingsRepository, log)
	newsletterService := newsletter.NewService(subscriberRepository, log)
	inbox := chat.NewInbox(inboxRepository, log)

	completer := genai.NewClient(cfg)
	agent := chat.NewService(cfg, catalogService, orderService, storeService, sessionRepository, completer, log)

	handlerProvider := handlers.NewProvider(agent, inbox, catalogService, orderService, storeService, newsletterService, log)
	httpServer := httpserver.New(cfg, log, handlerProvider)
	cron := appcrontab.NewCrontab(cfg, inbox, sessionRepository)

	app := NewApplication(cfg, httpServer, cron, log)
	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
