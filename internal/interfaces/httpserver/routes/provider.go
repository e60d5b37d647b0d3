package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/infrastructure/auth"
	"jan-server/services/pairing-api/internal/interfaces/httpserver/handlers"
	"jan-server/services/pairing-api/internal/interfaces/httpserver/middlewares"
	v1 "jan-server/services/pairing-api/internal/interfaces/httpserver/routes/v1"
)

// Provider holds all route providers.
type Provider struct {
	V1            *v1.Routes
	authValidator *auth.Validator
	syncer        identity.Syncer
	log           zerolog.Logger
}

// NewProvider creates a new route provider.
func NewProvider(handlerProvider *handlers.Provider, authValidator *auth.Validator, syncer identity.Syncer, log zerolog.Logger) *Provider {
	return &Provider{
		V1:            v1.NewRoutes(handlerProvider),
		authValidator: authValidator,
		syncer:        syncer,
		log:           log,
	}
}

// Register registers all API routes. Every v1 route is authenticated and
// mirrors the caller into the user directory.
func (p *Provider) Register(engine *gin.Engine) {
	var chain []gin.HandlerFunc
	if p.authValidator != nil {
		chain = append(chain, p.authValidator.Middleware())
	}
	if p.syncer != nil {
		chain = append(chain, middlewares.IdentitySync(p.syncer, p.log))
	}
	p.V1.Register(engine, chain...)
}

// RouteProvider provides all routes for wire.
var RouteProvider = wire.NewSet(
	NewProvider,
)
