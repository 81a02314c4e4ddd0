package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/trade-connect/internal/assistant"
	"github.com/jonathan/trade-connect/internal/auth"
	"github.com/jonathan/trade-connect/internal/config"
	"github.com/jonathan/trade-connect/internal/dashboard"
	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/seed"
	"github.com/jonathan/trade-connect/internal/server/ratelimit"
	"github.com/jonathan/trade-connect/internal/session"
)

const (
	supplierEmail = "supplier@example.com"
	buyerEmail    = "buyer@example.com"
	demoPassword  = "password123"
)

type testEnv struct {
	server *Server
	store  *db.Memory
}

func newTestEnv(t *testing.T, limits *ratelimit.Config) *testEnv {
	t.Helper()
	ctx := context.Background()

	store := db.NewMemory()
	fixtures, err := seed.Load()
	require.NoError(t, err)
	passwords := &config.PasswordConfig{BcryptCost: 10}
	_, err = fixtures.Apply(ctx, store, passwords, zap.NewNop())
	require.NoError(t, err)

	sessions := session.NewMemory()
	tokens := auth.NewTokenService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1, Issuer: "trade-connect"})
	authSvc := auth.NewService(store, passwords, tokens, sessions, zap.NewNop())

	assistantSvc, err := assistant.NewService(sessions, nil, assistant.Options{FAQ: fixtures.FAQ})
	require.NoError(t, err)

	if limits == nil {
		limits = &ratelimit.Config{Enabled: false}
	}
	limiter := ratelimit.NewLimiter(limits)
	t.Cleanup(limiter.Stop)

	srv, err := New(Config{Addr: ":0"}, Deps{
		Store:     store,
		Auth:      authSvc,
		Dashboard: dashboard.NewService(store, fixtures.Overview),
		Assistant: assistantSvc,
		Limiter:   limiter,
		Logger:    zap.NewNop(),
	})
	require.NoError(t, err)
	srv.now = func() time.Time { return time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC) }

	return &testEnv{server: srv, store: store}
}

// do sends a request through the full middleware chain.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.10:54321"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": demoPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestNew_RequiresServices(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)
}

func TestPublicEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var root map[string]any
	decode(t, w, &root)
	assert.Equal(t, "success", root["status"])
	assert.Equal(t, "TradeConnect API", root["message"])
	assert.Equal(t, "1.0.0", root["version"])

	w = env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/test", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Application is live")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Endpoint not found", body["message"])
}

func TestCORS_Preflight(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodOptions, "/api/products", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t, nil)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/dashboard"},
		{http.MethodGet, "/api/overview"},
		{http.MethodGet, "/api/products"},
		{http.MethodGet, "/api/documents"},
		{http.MethodGet, "/api/recommendations"},
		{http.MethodGet, "/api/assistant/messages"},
		{http.MethodGet, "/api/assistant/faq"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := env.do(t, rt.method, rt.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())

			w = env.do(t, rt.method, rt.path, nil, "not-a-token")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRateLimit_Login(t *testing.T) {
	env := newTestEnv(t, &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(),
	})

	body := map[string]string{"email": supplierEmail, "password": "wrong-password"}
	for i := 0; i < 5; i++ {
		w := env.do(t, http.MethodPost, "/api/auth/login", body, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	}

	w := env.do(t, http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var resp map[string]any
	decode(t, w, &resp)
	assert.Equal(t, "rate_limit_exceeded", resp["error"])

	// Unlimited routes are unaffected.
	w = env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}
