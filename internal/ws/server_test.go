// internal/ws/server_test.go
package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuriyaDcruze/UnoBlitz/internal/rooms"
)

func newTestServer() http.Handler {
	return NewServer(rooms.NewRegistry(0)).Routes()
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestGuestAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/guest",
		strings.NewReader(`{"playerName":"alice"}`))
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
	_, err := uuid.Parse(body["playerId"])
	assert.NoError(t, err)
}

func TestGuestAuthValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	srv := newTestServer()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/guest", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/guest",
		strings.NewReader(`{"playerName":"   "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebsocketRequiresToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLeaderboardUnavailableWithoutDatabase(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
