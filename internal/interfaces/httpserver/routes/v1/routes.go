package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/pairing-api/internal/interfaces/httpserver/handlers"
)

// Routes holds the v1 route configuration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes creates a new v1 routes instance.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register registers all v1 routes on the engine behind middleware.
func (r *Routes) Register(engine *gin.Engine, middleware ...gin.HandlerFunc) {
	v1 := engine.Group("/v1")
	v1.Use(middleware...)
	RegisterSessionRoutes(v1, r.handlers.Session)
}
