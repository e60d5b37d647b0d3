package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/pairing-api/internal/config"
	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/utils/platformerrors"
)

const principalKey = "principal"

// Header names injected by the API gateway after it validated a credential.
const (
	HeaderUserID      = "X-User-ID"
	HeaderUserSubject = "X-User-Subject"
	HeaderUserName    = "X-User-Name"
	HeaderUserEmail   = "X-User-Email"
	HeaderUserAvatar  = "X-User-Avatar"
)

// TokenValidator turns a bearer token into principal claims.
type TokenValidator interface {
	Validate(ctx context.Context, rawToken string) (*PrincipalClaims, error)
}

// Validator authenticates requests and stores the resulting principal.
type Validator struct {
	enabled bool
	tokens  TokenValidator
	log     zerolog.Logger
}

// NewValidator initializes the Keycloak validator when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	log = log.With().Str("component", "auth").Logger()
	if !cfg.AuthEnabled {
		log.Warn().Msg("auth disabled; trusting gateway identity headers")
		return &Validator{log: log}, nil
	}

	keycloak, err := NewKeycloakValidator(ctx, cfg.AuthJWKSURL, cfg.AuthIssuer, cfg.AuthAudience, 5*time.Minute, time.Minute, log)
	if err != nil {
		return nil, err
	}
	return NewValidatorWith(keycloak, log), nil
}

// NewValidatorWith enables auth against tokens.
func NewValidatorWith(tokens TokenValidator, log zerolog.Logger) *Validator {
	return &Validator{enabled: true, tokens: tokens, log: log}
}

// Middleware resolves the principal from gateway headers or a bearer token.
// Requests without one are rejected with 401.
func (v *Validator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, ok := principalFromHeaders(c); ok {
			c.Set(principalKey, principal)
			c.Next()
			return
		}

		if !v.enabled {
			platformerrors.WriteUnauthorized(c, "missing "+HeaderUserID+" header")
			return
		}

		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			platformerrors.WriteUnauthorized(c, "missing bearer token")
			return
		}
		if strings.HasPrefix(tokenString, "sk_") {
			v.log.Debug().Msg("api key received without gateway headers")
			platformerrors.WriteUnauthorized(c, "invalid token")
			return
		}

		claims, err := v.tokens.Validate(c.Request.Context(), tokenString)
		if err != nil {
			v.log.Debug().Err(err).Msg("jwt validation failed")
			platformerrors.WriteUnauthorized(c, "invalid token")
			return
		}

		c.Set(principalKey, identity.Principal{
			ID:        claims.Subject,
			Name:      claims.DisplayName(),
			Email:     claims.Email,
			AvatarURL: claims.Picture,
		})
		c.Next()
	}
}

// PrincipalFromContext returns the principal stored by Middleware.
func PrincipalFromContext(c *gin.Context) (identity.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return identity.Principal{}, false
	}
	principal, ok := value.(identity.Principal)
	return principal, ok && principal.Valid()
}

// SetPrincipal stores principal on the request context.
func SetPrincipal(c *gin.Context, principal identity.Principal) {
	c.Set(principalKey, principal)
}

func principalFromHeaders(c *gin.Context) (identity.Principal, bool) {
	userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
	if userID == "" {
		userID = strings.TrimSpace(c.GetHeader(HeaderUserSubject))
	}
	if userID == "" {
		return identity.Principal{}, false
	}
	return identity.Principal{
		ID:        userID,
		Name:      strings.TrimSpace(c.GetHeader(HeaderUserName)),
		Email:     strings.TrimSpace(c.GetHeader(HeaderUserEmail)),
		AvatarURL: strings.TrimSpace(c.GetHeader(HeaderUserAvatar)),
	}, true
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
