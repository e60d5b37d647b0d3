package responses

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"jan-server/services/pairing-api/internal/utils/platformerrors"
)

// HandleError writes err using the platform error mapping.
func HandleError(c *gin.Context, err error) {
	logger := log.With().
		Str("path", c.Request.URL.Path).
		Str("request_id", c.GetString("request_id")).
		Logger()
	platformerrors.WriteError(c, err, logger)
}

// HandleBindError reports a malformed request body.
func HandleBindError(c *gin.Context, err error) {
	platformerrors.WriteValidationError(c, "invalid request body: "+err.Error())
}
