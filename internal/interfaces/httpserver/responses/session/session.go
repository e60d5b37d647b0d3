// Package sessionres contains HTTP response DTOs for session endpoints.
package sessionres

import (
	"jan-server/services/pairing-api/internal/domain/identity"
	domainsession "jan-server/services/pairing-api/internal/domain/session"
	"jan-server/services/pairing-api/internal/interfaces/httpserver/responses"
)

const (
	objectSession     = "pairing.session"
	objectCredentials = "pairing.credentials"
)

// SessionResponse represents a session in API responses.
type SessionResponse struct {
	ID            string            `json:"id"`
	Object        string            `json:"object"`
	Problem       string            `json:"problem"`
	Difficulty    string            `json:"difficulty"`
	CallID        string            `json:"call_id"`
	Status        string            `json:"status"`
	HostID        string            `json:"host_id"`
	ParticipantID string            `json:"participant_id,omitempty"`
	Host          *identity.Profile `json:"host,omitempty"`
	Participant   *identity.Profile `json:"participant,omitempty"`
	CreatedAt     int64             `json:"created_at"`
	UpdatedAt     int64             `json:"updated_at"`
}

// CredentialsResponse carries the tokens needed to enter a session.
type CredentialsResponse struct {
	Object    string           `json:"object"`
	SessionID string           `json:"session_id"`
	CallID    string           `json:"call_id"`
	Video     VideoCredentials `json:"video"`
	Chat      ChatCredentials  `json:"chat"`
}

// VideoCredentials lets a client join the video call.
type VideoCredentials struct {
	URL       string `json:"url"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// ChatCredentials lets a client connect to the chat channel.
type ChatCredentials struct {
	APIKey      string `json:"api_key"`
	ChannelType string `json:"channel_type"`
	ChannelID   string `json:"channel_id"`
	Token       string `json:"token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// NewSessionResponse creates a SessionResponse from a domain Session.
func NewSessionResponse(sess *domainsession.Session) *SessionResponse {
	return &SessionResponse{
		ID:            sess.ID,
		Object:        objectSession,
		Problem:       sess.Problem,
		Difficulty:    sess.Difficulty,
		CallID:        sess.CallID,
		Status:        string(sess.Status),
		HostID:        sess.HostID,
		ParticipantID: sess.ParticipantID,
		Host:          sess.Host,
		Participant:   sess.Participant,
		CreatedAt:     sess.CreatedAt.Unix(),
		UpdatedAt:     sess.UpdatedAt.Unix(),
	}
}

// NewListSessionsResponse wraps sessions in the list envelope.
func NewListSessionsResponse(sessions []*domainsession.Session) responses.ListResponse[*SessionResponse] {
	data := make([]*SessionResponse, len(sessions))
	for i, s := range sessions {
		data[i] = NewSessionResponse(s)
	}
	return responses.NewListResponse(data)
}

// NewCredentialsResponse creates a CredentialsResponse. The chat channel id
// is the session's call id.
func NewCredentialsResponse(creds *domainsession.Credentials) *CredentialsResponse {
	return &CredentialsResponse{
		Object:    objectCredentials,
		SessionID: creds.SessionID,
		CallID:    creds.CallID,
		Video: VideoCredentials{
			URL:       creds.VideoURL,
			Token:     creds.VideoToken,
			ExpiresAt: creds.VideoTokenExpiresAt.Unix(),
		},
		Chat: ChatCredentials{
			APIKey:      creds.ChatAPIKey,
			ChannelType: creds.ChatChannelType,
			ChannelID:   creds.CallID,
			Token:       creds.ChatToken,
			ExpiresAt:   creds.ChatTokenExpiresAt.Unix(),
		},
	}
}
