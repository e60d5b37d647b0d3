package streamchat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"jan-server/services/pairing-api/internal/config"
	"jan-server/services/pairing-api/internal/domain/identity"
	"jan-server/services/pairing-api/internal/domain/session"
	"jan-server/services/pairing-api/internal/infrastructure/metrics"
)

// Stream reports a missing resource with this error code.
const errCodeDoesNotExist = 16

// Client talks to the Stream Chat REST API. One channel per pairing session,
// named after the session's call id.
type Client struct {
	http        *resty.Client
	apiKey      string
	apiSecret   []byte
	channelType string
	tokenTTL    time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

// APIError is the error body returned by Stream.
type APIError struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"StatusCode"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stream api error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

// NotFound reports whether Stream said the resource does not exist.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.Code == errCodeDoesNotExist
}

// NewClient creates a Stream Chat client authenticated with a server token.
func NewClient(cfg *config.Config, log zerolog.Logger) (*Client, error) {
	serverToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"server": true}).
		SignedString([]byte(cfg.StreamAPISecret))
	if err != nil {
		return nil, fmt.Errorf("sign stream server token: %w", err)
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.StreamBaseURL, "/")).
		SetHeader("Authorization", serverToken).
		SetHeader("Stream-Auth-Type", "jwt").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "Jan-Pairing-API/1.0").
		SetQueryParam("api_key", cfg.StreamAPIKey).
		SetTimeout(cfg.ProvisionTimeout)

	return &Client{
		http:        httpClient,
		apiKey:      cfg.StreamAPIKey,
		apiSecret:   []byte(cfg.StreamAPISecret),
		channelType: cfg.StreamChannelType,
		tokenTTL:    cfg.StreamTokenTTL,
		now:         time.Now,
		log:         log.With().Str("component", "stream-chat").Logger(),
	}, nil
}

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

// UpsertUser registers or refreshes a chat user.
func (c *Client) UpsertUser(ctx context.Context, profile identity.Profile) error {
	body := map[string]any{
		"users": map[string]userPayload{
			profile.ID: {
				ID:    profile.ID,
				Name:  profile.Name,
				Email: profile.Email,
				Image: profile.AvatarURL,
			},
		},
	}
	_, err := c.do(ctx, http.MethodPost, "/users", body)
	metrics.RecordProvision("chat", "upsert_user", err)
	if err != nil {
		return fmt.Errorf("upsert chat user %s: %w", profile.ID, err)
	}
	return nil
}

// CreateChannel creates the channel for callID. Querying an existing channel
// returns it unchanged.
func (c *Client) CreateChannel(ctx context.Context, callID, createdBy string, members []string) error {
	body := map[string]any{
		"data": map[string]any{
			"created_by_id": createdBy,
			"members":       members,
		},
	}
	_, err := c.do(ctx, http.MethodPost, c.channelPath(callID)+"/query", body)
	metrics.RecordProvision("chat", "create_channel", err)
	if err != nil {
		return fmt.Errorf("create channel %s: %w", callID, err)
	}
	c.log.Debug().Str("call_id", callID).Strs("members", members).Msg("channel created")
	return nil
}

// AddMember adds userID to the channel for callID.
func (c *Client) AddMember(ctx context.Context, callID, userID string) error {
	body := map[string]any{"add_members": []string{userID}}
	_, err := c.do(ctx, http.MethodPost, c.channelPath(callID), body)
	metrics.RecordProvision("chat", "add_member", err)
	if err != nil {
		return fmt.Errorf("add member %s to channel %s: %w", userID, callID, err)
	}
	return nil
}

// DeleteChannel removes the channel for callID. A missing channel is not an error.
func (c *Client) DeleteChannel(ctx context.Context, callID string) error {
	_, err := c.do(ctx, http.MethodDelete, c.channelPath(callID), nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		c.log.Debug().Str("call_id", callID).Msg("channel already gone")
		err = nil
	}
	metrics.RecordProvision("chat", "delete_channel", err)
	if err != nil {
		return fmt.Errorf("delete channel %s: %w", callID, err)
	}
	return nil
}

// IssueToken mints a chat user token for principal.
func (c *Client) IssueToken(principal identity.Principal, _ string) (session.Token, error) {
	expiresAt := c.now().Add(c.tokenTTL)
	claims := jwt.MapClaims{
		"user_id": principal.ID,
		"iat":     c.now().Unix(),
		"exp":     expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.apiSecret)
	if err != nil {
		return session.Token{}, fmt.Errorf("sign chat token: %w", err)
	}
	return session.Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// APIKey returns the public key clients use to connect.
func (c *Client) APIKey() string {
	return c.apiKey
}

func (c *Client) channelPath(callID string) string {
	return "/channels/" + url.PathEscape(c.channelType) + "/" + url.PathEscape(callID)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetError(&APIError{})
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("stream request %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr, ok := resp.Error().(*APIError)
		if !ok || apiErr == nil {
			apiErr = &APIError{Message: resp.String()}
		}
		if apiErr.StatusCode == 0 {
			apiErr.StatusCode = resp.StatusCode()
		}
		return resp, apiErr
	}
	return resp, nil
}
