package dbschema

import (
	"time"

	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/domain/session"
)

// Session represents the database schema for pairing sessions
type Session struct {
	ID            string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Problem       string  `gorm:"type:text;not null"`
	Difficulty    string  `gorm:"size:64;not null"`
	CallID        string  `gorm:"size:128;not null;uniqueIndex:sessions_call_id_key"`
	HostID        string  `gorm:"size:255;not null;index"`
	ParticipantID *string `gorm:"size:255;index"`
	Status        string  `gorm:"size:16;not null;default:active"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Host        *User `gorm:"foreignKey:HostID;references:ID"`
	Participant *User `gorm:"foreignKey:ParticipantID;references:ID"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "pairing_api.sessions"
}

// EtoD converts database schema to domain session (Entity to Domain)
func (s *Session) EtoD() *session.Session {
	out := &session.Session{
		ID:         s.ID,
		Problem:    s.Problem,
		Difficulty: s.Difficulty,
		CallID:     s.CallID,
		HostID:     s.HostID,
		Status:     session.Status(s.Status),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		Host:       profileOrStub(s.Host, s.HostID),
	}
	if s.ParticipantID != nil {
		out.ParticipantID = *s.ParticipantID
		out.Participant = profileOrStub(s.Participant, *s.ParticipantID)
	}
	return out
}

// NewSchemaSession creates a row for a session being created.
func NewSchemaSession(in *session.NewSession) *Session {
	return &Session{
		Problem:    in.Problem,
		Difficulty: in.Difficulty,
		CallID:     in.CallID,
		HostID:     in.HostID,
		Status:     string(session.StatusActive),
	}
}

// Users that never synced a profile still project their id.
func profileOrStub(u *User, id string) *identity.Profile {
	if u != nil {
		return u.EtoD()
	}
	return &identity.Profile{ID: id}
}
