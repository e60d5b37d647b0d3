package session

import (
	"time"

	"jan-server/services/pairing-api/internal/domain/identity"
)

// Status is the lifecycle state of a pairing session.
type Status string

const (
	// StatusActive is the initial state: the session can be joined and ended.
	StatusActive Status = "active"
	// StatusCompleted is terminal: no field changes afterwards.
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

// Session is a hosted pairing attempt around a single problem.
type Session struct {
	ID            string
	Problem       string
	Difficulty    string
	CallID        string // names the video call and the chat channel
	HostID        string
	ParticipantID string // empty until someone joins
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Identity projections resolved by the repository; nil when unknown.
	Host        *identity.Profile
	Participant *identity.Profile
}

// IsActive reports whether the session is still open.
func (s *Session) IsActive() bool {
	return s.Status == StatusActive
}

// HasParticipant reports whether someone joined the session.
func (s *Session) HasParticipant() bool {
	return s.ParticipantID != ""
}

// IsMember reports whether userID is the host or the participant.
func (s *Session) IsMember(userID string) bool {
	return userID != "" && (s.HostID == userID || s.ParticipantID == userID)
}

// NewSession holds the fields supplied on creation; the store assigns the rest.
type NewSession struct {
	Problem    string
	Difficulty string
	CallID     string
	HostID     string
}

// CreateSessionRequest is the input of CreateSession.
type CreateSessionRequest struct {
	Problem    string
	Difficulty string
}

// Credentials lets a member enter the session's video call and chat channel.
type Credentials struct {
	SessionID           string
	CallID              string
	VideoURL            string
	VideoToken          string
	VideoTokenExpiresAt time.Time
	ChatAPIKey          string
	ChatChannelType     string
	ChatToken           string
	ChatTokenExpiresAt  time.Time
}
