package domain

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"jan-server/services/pairing-api/internal/config"
	"jan-server/services/pairing-api/internal/domain/session"
)

// ProvideSessionService provides the session orchestrator.
func ProvideSessionService(
	repo session.Repository,
	gateway session.Gateway,
	publisher session.EventPublisher,
	recorder session.Recorder,
	cfg *config.Config,
	log zerolog.Logger,
) session.Service {
	return session.NewService(repo, gateway, publisher, recorder, session.Options{
		ProvisionTimeout: cfg.ProvisionTimeout,
		ListLimit:        cfg.SessionListLimit,
		VideoURL:         cfg.LiveKitWsURL,
		ChatAPIKey:       cfg.StreamAPIKey,
		ChatChannelType:  cfg.StreamChannelType,
	}, log)
}

// ServiceProvider provides all domain services.
var ServiceProvider = wire.NewSet(
	ProvideSessionService,
)
