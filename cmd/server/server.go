// @title           Pairing API
// @version         1.0
// @description     Pair-coding session lifecycle service.
// @description     Orchestrates sessions together with their LiveKit video call and Stream chat channel.

// @contact.name   Jan Team
// @contact.url    https://github.com/janhq/jan-server

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8187
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token from Keycloak

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jan-server/services/pairing-api/internal/config"
	"jan-server/services/pairing-api/internal/domain"
	"jan-server/services/pairing-api/internal/infrastructure"
	"jan-server/services/pairing-api/internal/infrastructure/logger"
	"jan-server/services/pairing-api/internal/infrastructure/observability"
	"jan-server/services/pairing-api/internal/infrastructure/reconciler"
	"jan-server/services/pairing-api/internal/interfaces/httpserver"
	"jan-server/services/pairing-api/internal/interfaces/httpserver/handlers"
	"jan-server/services/pairing-api/internal/interfaces/httpserver/routes"
)

// Application holds the main application components.
type Application struct {
	cfg        *config.Config
	httpServer *httpserver.HTTPServer
	reconciler *reconciler.Reconciler
	log        zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(cfg *config.Config, httpServer *httpserver.HTTPServer, rec *reconciler.Reconciler, log zerolog.Logger) *Application {
	return &Application{
		cfg:        cfg,
		httpServer: httpServer,
		reconciler: rec,
		log:        log,
	}
}

// Start runs the HTTP server and the reconciler until ctx is cancelled or
// the server fails.
func (a *Application) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.cfg.ReconcileEnabled {
		a.reconciler.Start(ctx)
		g.Go(func() error {
			<-ctx.Done()
			a.reconciler.Stop()
			return nil
		})
	}

	g.Go(func() error {
		return a.httpServer.Run(ctx)
	})

	return g.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	app, cleanup, err := buildApplication(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}
	defer cleanup()

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Str("store", cfg.StoreType).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Error().Err(err).Msg("application stopped with error")
		return
	}

	log.Info().Msg("application exited cleanly")
}

// buildApplication mirrors CreateApplication in wire.go.
func buildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, func(), error) {
	stores, closeStores, err := infrastructure.ProvideStores(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	publisher, closePublisher, err := infrastructure.ProvideEventPublisher(ctx, cfg, log)
	if err != nil {
		closeStores()
		return nil, nil, err
	}
	cleanup := func() {
		closePublisher()
		closeStores()
	}

	chat, err := infrastructure.ProvideStreamClient(cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	rooms := infrastructure.ProvideRoomClient(cfg, log)
	repo := infrastructure.ProvideSessionRepository(stores)

	syncer, err := infrastructure.ProvideIdentitySyncer(cfg, stores, chat, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	authValidator, err := infrastructure.ProvideAuthValidator(ctx, cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	sessionService := domain.ProvideSessionService(
		repo,
		infrastructure.ProvideGateway(cfg, rooms, chat),
		publisher,
		infrastructure.ProvideRecorder(),
		cfg,
		log,
	)

	routeProvider := routes.NewProvider(handlers.NewProvider(sessionService), authValidator, syncer, log)
	httpServer := httpserver.New(cfg, log, routeProvider, infrastructure.ProvideReadinessProbe(stores))
	rec := infrastructure.ProvideReconciler(cfg, rooms, chat, repo, log)

	return NewApplication(cfg, httpServer, rec, log), cleanup, nil
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
