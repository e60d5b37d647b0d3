package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"jan-server/services/pairing-api/internal/config"
	"jan-server/services/pairing-api/internal/interfaces/httpserver/handlers"
	"jan-server/services/pairing-api/internal/interfaces/httpserver/routes"
)

func newTestServer(ready ReadinessProbe) *HTTPServer {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{ServiceName: "pairing-api", Environment: "test"}
	return New(cfg, zerolog.Nop(), routes.NewProvider(handlers.NewProvider(nil), nil, nil, zerolog.Nop()), ready)
}

func get(s *HTTPServer, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestCoreRoutes(t *testing.T) {
	s := newTestServer(func(context.Context) error { return nil })

	rec := get(s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"service":"pairing-api","status":"ok"}`, rec.Body.String())

	rec = get(s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(s, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = get(s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pairing_http_request_duration_seconds")
}

func TestReadyz_Unavailable(t *testing.T) {
	s := newTestServer(func(context.Context) error { return errors.New("database unreachable") })

	rec := get(s, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database unreachable")
}

func TestV1RequiresPrincipal(t *testing.T) {
	s := newTestServer(nil)

	rec := get(s, "/v1/sessions/active")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
