// Package sessionreq contains HTTP request DTOs for session endpoints.
package sessionreq

import (
	domainsession "jan-server/services/pairing-api/internal/domain/session"
)

// CreateSessionRequest is the body of POST /v1/sessions.
type CreateSessionRequest struct {
	Problem    string `json:"problem" binding:"required" example:"Two Sum"`
	Difficulty string `json:"difficulty" binding:"required" example:"easy"`
}

// ToDomain converts the body into the service input.
func (r CreateSessionRequest) ToDomain() domainsession.CreateSessionRequest {
	return domainsession.CreateSessionRequest{
		Problem:    r.Problem,
		Difficulty: r.Difficulty,
	}
}
