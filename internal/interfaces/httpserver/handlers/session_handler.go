package handlers

import (
	"context"

	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/domain/session"
	sessionreq "jan-server/services/pairing-api/internal/interfaces/httpserver/requests/session"
)

// SessionHandler handles session-related HTTP requests.
type SessionHandler struct {
	service session.Service
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(service session.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) CreateSession(ctx context.Context, principal identity.Principal, req sessionreq.CreateSessionRequest) (*session.Session, error) {
	return h.service.CreateSession(ctx, principal, req.ToDomain())
}

func (h *SessionHandler) ListActiveSessions(ctx context.Context) ([]*session.Session, error) {
	return h.service.ListActiveSessions(ctx)
}

func (h *SessionHandler) ListMySessions(ctx context.Context, principal identity.Principal) ([]*session.Session, error) {
	return h.service.ListMySessions(ctx, principal)
}

func (h *SessionHandler) GetSession(ctx context.Context, principal identity.Principal, id string) (*session.Session, error) {
	return h.service.GetSession(ctx, principal, id)
}

func (h *SessionHandler) JoinSession(ctx context.Context, principal identity.Principal, id string) (*session.Session, error) {
	return h.service.JoinSession(ctx, principal, id)
}

func (h *SessionHandler) EndSession(ctx context.Context, principal identity.Principal, id string) (*session.Session, error) {
	return h.service.EndSession(ctx, principal, id)
}

func (h *SessionHandler) IssueCredentials(ctx context.Context, principal identity.Principal, id string) (*session.Credentials, error) {
	return h.service.IssueCredentials(ctx, principal, id)
}
