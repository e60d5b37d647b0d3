package auth

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// PrincipalClaims is the subset of OIDC claims used to build a principal.
type PrincipalClaims struct {
	Subject           string
	Issuer            string
	PreferredUsername string
	Email             string
	Name              string
	Picture           string
	ExpiresAt         time.Time
}

// DisplayName prefers the full name over the username.
func (c *PrincipalClaims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.PreferredUsername
}

type oidcClaims struct {
	jwt.RegisteredClaims
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	Picture           string `json:"picture"`
}

// KeycloakValidator validates RS256 tokens against a refreshed JWKS.
type KeycloakValidator struct {
	issuer    string
	audience  string
	jwksURL   string
	clockSkew time.Duration
	jwks      atomic.Pointer[keyfunc.JWKS]
	log       zerolog.Logger
}

const (
	jwksRetryInterval   = time.Second
	jwksRetryMaxBackoff = 10 * time.Second
	jwksRetryTimeout    = 2 * time.Minute
)

// NewKeycloakValidator fetches the JWKS, retrying with backoff until
// jwksRetryTimeout or ctx expires.
func NewKeycloakValidator(ctx context.Context, jwksURL, issuer, audience string, refreshEvery, clockSkew time.Duration, log zerolog.Logger) (*KeycloakValidator, error) {
	if jwksURL == "" {
		return nil, errors.New("jwks url is required")
	}

	v := &KeycloakValidator{
		issuer:    issuer,
		audience:  audience,
		jwksURL:   jwksURL,
		clockSkew: clockSkew,
		log:       log.With().Str("component", "jwks").Logger(),
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   refreshEvery,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			v.log.Error().Err(err).Msg("jwks refresh failed")
		},
	}

	backoff := jwksRetryInterval
	deadline := time.Now().Add(jwksRetryTimeout)
	for attempt := 1; ; attempt++ {
		jwks, err := keyfunc.Get(jwksURL, options)
		if err == nil {
			v.jwks.Store(jwks)
			return v, nil
		}
		if time.Now().Add(backoff).After(deadline) {
			return nil, fmt.Errorf("fetch jwks: %w", err)
		}

		v.log.Warn().Err(err).Int("attempt", attempt).Str("jwks_url", jwksURL).Msg("initial jwks fetch failed, retrying")
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("fetch jwks: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, jwksRetryMaxBackoff)
	}
}

// Validate parses rawToken and checks signature, issuer, audience and expiry.
func (v *KeycloakValidator) Validate(_ context.Context, rawToken string) (*PrincipalClaims, error) {
	jwks := v.jwks.Load()
	if jwks == nil {
		return nil, errors.New("jwks not initialised")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithLeeway(v.clockSkew),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &oidcClaims{}
	if _, err := jwt.ParseWithClaims(rawToken, claims, jwks.Keyfunc, opts...); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("sub claim missing")
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &PrincipalClaims{
		Subject:           claims.Subject,
		Issuer:            claims.Issuer,
		PreferredUsername: claims.PreferredUsername,
		Email:             claims.Email,
		Name:              claims.Name,
		Picture:           claims.Picture,
		ExpiresAt:         expiresAt,
	}, nil
}

// Ready reports whether a key set is loaded.
func (v *KeycloakValidator) Ready() bool {
	return v.jwks.Load() != nil
}
