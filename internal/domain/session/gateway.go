package session

import (
	"context"
	"time"

	"jan-server/services/pairing-api/internal/domain/identity"
)

// CallMetadata tags a video call with the session it belongs to.
type CallMetadata struct {
	SessionID  string `json:"session_id"`
	Problem    string `json:"problem"`
	Difficulty string `json:"difficulty"`
}

// VideoProvisioner manages video calls keyed by call id.
type VideoProvisioner interface {
	CreateCall(ctx context.Context, callID, createdBy string, metadata CallMetadata) error
	// DeleteCall succeeds when the call does not exist.
	DeleteCall(ctx context.Context, callID string) error
}

// ChatProvisioner manages chat channels keyed by call id.
type ChatProvisioner interface {
	CreateChannel(ctx context.Context, callID, createdBy string, members []string) error
	AddMember(ctx context.Context, callID, userID string) error
	// DeleteChannel succeeds when the channel does not exist.
	DeleteChannel(ctx context.Context, callID string) error
}

// Token is a client credential with its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenIssuer mints client credentials for one collaboration resource.
type TokenIssuer interface {
	IssueToken(principal identity.Principal, callID string) (Token, error)
}

// Gateway bundles the collaboration resource clients used by the service.
type Gateway struct {
	Video       VideoProvisioner
	Chat        ChatProvisioner
	VideoTokens TokenIssuer
	ChatTokens  TokenIssuer
}
