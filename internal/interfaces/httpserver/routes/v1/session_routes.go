package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/infrastructure/auth"
	"jan-server/services/pairing-api/internal/interfaces/httpserver/handlers"
	sessionreq "jan-server/services/pairing-api/internal/interfaces/httpserver/requests/session"
	"jan-server/services/pairing-api/internal/interfaces/httpserver/responses"
	sessionres "jan-server/services/pairing-api/internal/interfaces/httpserver/responses/session"
	"jan-server/services/pairing-api/internal/utils/platformerrors"
)

// RegisterSessionRoutes registers the pairing session routes.
func RegisterSessionRoutes(router gin.IRoutes, handler *handlers.SessionHandler) {
	router.POST("/sessions", createSession(handler))
	router.GET("/sessions/active", listActiveSessions(handler))
	router.GET("/sessions/mine", listMySessions(handler))
	router.GET("/sessions/:id", getSession(handler))
	router.POST("/sessions/:id/join", joinSession(handler))
	router.POST("/sessions/:id/end", endSession(handler))
	router.POST("/sessions/:id/credentials", issueCredentials(handler))
}

// createSession godoc
// @Summary      Create a pairing session
// @Description  Creates a session hosted by the caller and provisions its video call and chat channel. Any failure rolls back every provisioned resource.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request body sessionreq.CreateSessionRequest true "Session problem"
// @Success      201 {object} sessionres.SessionResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      502 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/sessions [post]
func createSession(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		var req sessionreq.CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		sess, err := handler.CreateSession(c.Request.Context(), principal, req)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusCreated, sessionres.NewSessionResponse(sess))
	}
}

// listActiveSessions godoc
// @Summary      List active sessions
// @Description  Lists active sessions, newest first, with host and participant profiles.
// @Tags         Sessions
// @Produce      json
// @Success      200 {object} responses.ListResponse[sessionres.SessionResponse]
// @Failure      401 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/sessions/active [get]
func listActiveSessions(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requirePrincipal(c); !ok {
			return
		}

		sessions, err := handler.ListActiveSessions(c.Request.Context())
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionres.NewListSessionsResponse(sessions))
	}
}

// listMySessions godoc
// @Summary      List my recent sessions
// @Description  Lists sessions the caller hosted or joined, newest first.
// @Tags         Sessions
// @Produce      json
// @Success      200 {object} responses.ListResponse[sessionres.SessionResponse]
// @Failure      401 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/sessions/mine [get]
func listMySessions(handler *handlers.SessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}

		sessions, err := handler.ListMySessions(c.Request.Context(), principal)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionres.NewListSessionsResponse(sessions))
	}
}

// getSession godoc
// @Summary      Get a session
// @Description  Retrieves a session by id.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} sessionres.SessionResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/sessions/{id} [get]
func getSession(handler *handlers.SessionHandler) gin.HandlerFunc {
	return sessionAction(func(c *gin.Context, principal identity.Principal, id string) {
		sess, err := handler.GetSession(c.Request.Context(), principal, id)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionres.NewSessionResponse(sess))
	})
}

// joinSession godoc
// @Summary      Join a session
// @Description  Claims the participant seat of an active session and adds the caller to its chat channel.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} sessionres.SessionResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Failure      409 {object} responses.ErrorResponse
// @Failure      502 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/sessions/{id}/join [post]
func joinSession(handler *handlers.SessionHandler) gin.HandlerFunc {
	return sessionAction(func(c *gin.Context, principal identity.Principal, id string) {
		sess, err := handler.JoinSession(c.Request.Context(), principal, id)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionres.NewSessionResponse(sess))
	})
}

// endSession godoc
// @Summary      End a session
// @Description  Completes a session without participant and tears down its video call and chat channel. Host only.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} sessionres.SessionResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/sessions/{id}/end [post]
func endSession(handler *handlers.SessionHandler) gin.HandlerFunc {
	return sessionAction(func(c *gin.Context, principal identity.Principal, id string) {
		sess, err := handler.EndSession(c.Request.Context(), principal, id)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionres.NewSessionResponse(sess))
	})
}

// issueCredentials godoc
// @Summary      Issue session credentials
// @Description  Issues video and chat tokens for the host or participant of an active session.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} sessionres.CredentialsResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      403 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/sessions/{id}/credentials [post]
func issueCredentials(handler *handlers.SessionHandler) gin.HandlerFunc {
	return sessionAction(func(c *gin.Context, principal identity.Principal, id string) {
		creds, err := handler.IssueCredentials(c.Request.Context(), principal, id)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionres.NewCredentialsResponse(creds))
	})
}

func sessionAction(fn func(c *gin.Context, principal identity.Principal, id string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := requirePrincipal(c)
		if !ok {
			return
		}
		id := c.Param("id")
		if id == "" {
			platformerrors.WriteValidationError(c, "session id is required")
			return
		}
		fn(c, principal, id)
	}
}

func requirePrincipal(c *gin.Context) (identity.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		platformerrors.WriteUnauthorized(c, "authentication required")
		return identity.Principal{}, false
	}
	return principal, true
}
