package session

import "context"

// Repository is typed access to persisted sessions. Implementations report
// failures as platform errors: NOT_FOUND for unknown ids, CONFLICT for a lost
// conditional update, DATABASE_ERROR for everything else.
type Repository interface {
	Create(ctx context.Context, s *NewSession) (*Session, error)
	FindByID(ctx context.Context, id string) (*Session, error)
	FindByCallID(ctx context.Context, callID string) (*Session, error)

	// FindActive returns active sessions, newest first.
	FindActive(ctx context.Context, limit int) ([]*Session, error)

	// FindRecentFor returns sessions hosted or joined by userID, newest first.
	FindRecentFor(ctx context.Context, userID string, limit int) ([]*Session, error)

	// SetParticipant assigns participantID in a single conditional write that
	// only matches an active session with no participant and a different host.
	// A lost race is reported as CONFLICT.
	SetParticipant(ctx context.Context, id, participantID string) (*Session, error)

	// SetStatus moves an active, participant-free session to status. It fails
	// with INVALID_STATE when the row no longer matches.
	SetStatus(ctx context.Context, id string, status Status) (*Session, error)

	// Delete removes a session. Only used to compensate a failed creation.
	Delete(ctx context.Context, id string) error
}
