//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/config"
	"go-notes-api/internal/database"
	"go-notes-api/internal/handler"
	"go-notes-api/internal/metrics"
	"go-notes-api/internal/middleware"
	"go-notes-api/internal/model"
	"go-notes-api/internal/repository"
	"go-notes-api/internal/router"
	"go-notes-api/internal/service"
)

const (
	testSigningKey = "integration-signing-key-0123456789"
	adminUsername  = "admin"
	adminPassword  = "admin-password"
)

// openDB connects to TEST_DATABASE_URL, applies migrations and empties the tables.
func openDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, database.Options{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE notes, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func newServer(t *testing.T, db *database.DB, cfg *config.Config) *httptest.Server {
	t.Helper()

	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokenCfg, err := auth.NewTokenConfig(testSigningKey, 15*time.Minute, "")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db.Pool)
	noteRepo := repository.NewNoteRepository(db.Pool)

	m := metrics.New()
	audit := service.NewAuditService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	userService := service.NewUserService(userRepo, hasher, audit)
	authService := service.NewAuthService(userRepo, userService, hasher, tokenCfg, m)
	noteService := service.NewNoteService(noteRepo, userRepo, audit)

	_, _, err = userService.EnsureUser(context.Background(), adminUsername, adminPassword, model.RoleAdmin)
	require.NoError(t, err)

	server := httptest.NewServer(router.New(cfg, middleware.NewAuthMiddleware(authService, m), router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Note:   handler.NewNoteHandler(noteService),
		Admin:  handler.NewAdminHandler(noteService, userService),
		Health: handler.NewHealthHandler(db),
	}, m))
	t.Cleanup(server.Close)
	return server
}

func defaultConfig() *config.Config {
	return &config.Config{
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}
}

// newAuthedServer starts a server on the test database and logs in as the
// bootstrap admin.
func newAuthedServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	server := newServer(t, openDB(t), defaultConfig())
	return server, login(t, server, adminUsername, adminPassword)
}

func login(t *testing.T, server *httptest.Server, username string, password string) string {
	t.Helper()

	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.True(t, parsed.Success)
	require.NotEmpty(t, parsed.Data.AccessToken)

	return parsed.Data.AccessToken
}

func newAuthRequest(t *testing.T, method string, url string, body []byte, accessToken string) *http.Request {
	t.Helper()

	req := mustNewRequest(t, method, url, body)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return req
}

func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func doAuthJSONRequest(t *testing.T, method string, url string, body []byte, accessToken string) *http.Response {
	t.Helper()
	return doRequest(t, newAuthRequest(t, method, url, body, accessToken))
}

func doAuthRequest(t *testing.T, method string, url string, accessToken string) *http.Response {
	t.Helper()
	return doRequest(t, newAuthRequest(t, method, url, nil, accessToken))
}

func mustNewRequest(t *testing.T, method string, url string, body []byte) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var parsed struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed.Data
}
