package infrastructure

import (
	"context"
	"fmt"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"jan-server/services/pairing-api/internal/config"
	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/domain/session"
	"jan-server/services/pairing-api/internal/infrastructure/auth"
	"jan-server/services/pairing-api/internal/infrastructure/database"
	"jan-server/services/pairing-api/internal/infrastructure/events"
	"jan-server/services/pairing-api/internal/infrastructure/livekit"
	"jan-server/services/pairing-api/internal/infrastructure/metrics"
	"jan-server/services/pairing-api/internal/infrastructure/reconciler"
	"jan-server/services/pairing-api/internal/infrastructure/repository/sessionrepo"
	"jan-server/services/pairing-api/internal/infrastructure/repository/userrepo"
	"jan-server/services/pairing-api/internal/infrastructure/streamchat"
	"jan-server/services/pairing-api/internal/interfaces/httpserver"
)

// Stores bundles the persistence backends selected by STORE_TYPE.
type Stores struct {
	Sessions session.Repository
	Users    identity.Directory
	Ready    httpserver.ReadinessProbe
}

// ProvideStores connects and migrates Postgres, or builds the in-memory
// stores. The returned cleanup closes the database pool.
func ProvideStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, func(), error) {
	if cfg.StoreType == config.StoreTypeMemory {
		log.Warn().Msg("using in-memory session store; data is lost on restart")
		users := userrepo.NewInMemoryRepository()
		return &Stores{
			Sessions: sessionrepo.NewInMemoryRepository(users),
			Users:    users,
			Ready:    func(context.Context) error { return nil },
		}, func() {}, nil
	}

	db, err := database.Connect(ctx, database.Config{
		DatabaseURL: cfg.DatabaseURL,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxLifetime: cfg.DBConnLifetime,
		LogLevel:    gormlogger.Warn,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db, log); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	return &Stores{
		Sessions: sessionrepo.NewPostgresRepository(db),
		Users:    userrepo.NewPostgresRepository(db),
		Ready:    func(ctx context.Context) error { return database.Ping(ctx, db) },
	}, cleanup, nil
}

// ProvideSessionRepository exposes the selected session repository.
func ProvideSessionRepository(stores *Stores) session.Repository {
	return stores.Sessions
}

// ProvideReadinessProbe exposes the store health check.
func ProvideReadinessProbe(stores *Stores) httpserver.ReadinessProbe {
	return stores.Ready
}

// ProvideRoomClient provides the LiveKit room client.
func ProvideRoomClient(cfg *config.Config, log zerolog.Logger) *livekit.RoomClient {
	return livekit.NewRoomClient(cfg, log)
}

// ProvideStreamClient provides the Stream Chat client.
func ProvideStreamClient(cfg *config.Config, log zerolog.Logger) (*streamchat.Client, error) {
	return streamchat.NewClient(cfg, log)
}

// ProvideGateway assembles the collaboration resource gateway.
func ProvideGateway(cfg *config.Config, rooms *livekit.RoomClient, chat *streamchat.Client) session.Gateway {
	return session.Gateway{
		Video:       rooms,
		Chat:        chat,
		VideoTokens: livekit.NewTokenGenerator(cfg),
		ChatTokens:  chat,
	}
}

// ProvideIdentitySyncer mirrors principals into the user table and chat.
func ProvideIdentitySyncer(cfg *config.Config, stores *Stores, chat *streamchat.Client, log zerolog.Logger) (identity.Syncer, error) {
	return identity.NewSyncer(stores.Users, chat, cfg.IdentityCacheSize, log)
}

// ProvideEventPublisher publishes lifecycle events to Redis when configured.
func ProvideEventPublisher(ctx context.Context, cfg *config.Config, log zerolog.Logger) (session.EventPublisher, func(), error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("REDIS_URL not set, session events disabled")
		return events.NopPublisher{}, func() {}, nil
	}
	publisher, err := events.NewRedisPublisher(ctx, cfg.RedisURL, cfg.EventsChannel, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("close redis publisher")
		}
	}, nil
}

// ProvideRecorder records session metrics in Prometheus.
func ProvideRecorder() session.Recorder {
	return metrics.NewSessionRecorder()
}

// ProvideReconciler sweeps orphaned rooms and channels.
func ProvideReconciler(cfg *config.Config, rooms *livekit.RoomClient, chat *streamchat.Client, repo session.Repository, log zerolog.Logger) *reconciler.Reconciler {
	return reconciler.New(rooms, repo, rooms, chat, cfg.ReconcileGracePeriod, cfg.ReconcileInterval, cfg.ProvisionTimeout, log)
}

// ProvideAuthValidator provides the request authenticator.
func ProvideAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

// InfrastructureProvider provides all infrastructure dependencies.
var InfrastructureProvider = wire.NewSet(
	ProvideStores,
	ProvideSessionRepository,
	ProvideReadinessProbe,
	ProvideRoomClient,
	ProvideStreamClient,
	ProvideGateway,
	ProvideIdentitySyncer,
	ProvideEventPublisher,
	ProvideRecorder,
	ProvideReconciler,
	ProvideAuthValidator,
)
