package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/infrastructure/auth"
)

// IdentitySync mirrors the authenticated principal into the user directory.
// Failures are logged and never block the request.
func IdentitySync(syncer identity.Syncer, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, ok := auth.PrincipalFromContext(c); ok {
			if err := syncer.Sync(c.Request.Context(), principal); err != nil {
				log.Warn().Err(err).Str("user_id", principal.ID).Str("request_id", GetRequestID(c)).Msg("identity sync failed")
			}
		}
		c.Next()
	}
}
