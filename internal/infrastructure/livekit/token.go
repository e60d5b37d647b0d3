package livekit

import (
	"fmt"
	"time"

	"github.com/livekit/protocol/auth"

	"jan-server/services/pairing-api/internal/config"
	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/domain/session"
)

// TokenGenerator generates LiveKit access tokens.
type TokenGenerator struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenGenerator creates a new token generator.
func NewTokenGenerator(cfg *config.Config) *TokenGenerator {
	return &TokenGenerator{
		apiKey:    cfg.LiveKitAPIKey,
		apiSecret: cfg.LiveKitAPISecret,
		ttl:       cfg.LiveKitTokenTTL,
		now:       time.Now,
	}
}

// IssueToken grants principal publish and subscribe rights in room callID.
func (g *TokenGenerator) IssueToken(principal identity.Principal, callID string) (session.Token, error) {
	canPublish := true
	canSubscribe := true
	canPublishData := true

	at := auth.NewAccessToken(g.apiKey, g.apiSecret)
	at.AddGrant(&auth.VideoGrant{
		RoomJoin:       true,
		Room:           callID,
		CanPublish:     &canPublish,
		CanSubscribe:   &canSubscribe,
		CanPublishData: &canPublishData,
	}).
		SetIdentity(principal.ID).
		SetName(principal.Name).
		SetValidFor(g.ttl)

	expiresAt := g.now().Add(g.ttl)
	jwt, err := at.ToJWT()
	if err != nil {
		return session.Token{}, fmt.Errorf("sign livekit token: %w", err)
	}
	return session.Token{Value: jwt, ExpiresAt: expiresAt}, nil
}
