//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"jan-server/services/pairing-api/internal/config"
	"jan-server/services/pairing-api/internal/domain"
	"jan-server/services/pairing-api/internal/infrastructure"
	"jan-server/services/pairing-api/internal/interfaces"
)

// ProviderSet is the wire provider set for the application.
var ProviderSet = wire.NewSet(
	infrastructure.InfrastructureProvider,
	domain.ServiceProvider,
	interfaces.InterfacesProvider,
	NewApplication,
)

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
) (*Application, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
