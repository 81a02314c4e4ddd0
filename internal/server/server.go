// Package server provides the HTTP REST API for Trade Connect.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/trade-connect/internal/assistant"
	"github.com/jonathan/trade-connect/internal/auth"
	"github.com/jonathan/trade-connect/internal/dashboard"
	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/server/middleware"
	"github.com/jonathan/trade-connect/internal/server/ratelimit"
)

const (
	serviceName    = "TradeConnect API"
	serviceVersion = "1.0.0"
	maxBodyBytes   = 1 << 20
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       db.Store
	auth        *auth.Service
	dashboard   *dashboard.Service
	assistant   *assistant.Service
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
	now         func() time.Time
}

// Config holds server configuration
type Config struct {
	Addr string
}

// Deps are the services the handlers call into. Limiter and Logger are
// optional.
type Deps struct {
	Store     db.Store
	Auth      *auth.Service
	Dashboard *dashboard.Service
	Assistant *assistant.Service
	Limiter   *ratelimit.Limiter
	Logger    *zap.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil || deps.Auth == nil || deps.Dashboard == nil || deps.Assistant == nil {
		return nil, errors.New("server: store, auth, dashboard and assistant are required")
	}
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	s := &Server{
		store:       deps.Store,
		auth:        deps.Auth,
		dashboard:   deps.Dashboard,
		assistant:   deps.Assistant,
		rateLimiter: deps.Limiter,
		logger:      deps.Logger,
		now:         time.Now,
	}

	mux := http.NewServeMux()

	// Service info
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /test", s.handleTest)
	mux.HandleFunc("POST /ask", s.handleAsk)

	// Authentication
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.Handle("POST /api/auth/logout", s.protected(s.handleLogout))
	mux.Handle("GET /api/auth/me", s.protected(s.handleMe))

	// Dashboard
	mux.Handle("GET /api/dashboard", s.protected(s.handleDashboard))
	mux.Handle("GET /api/overview", s.protected(s.handleOverview))

	// Products
	mux.Handle("GET /api/products", s.protected(s.handleListProducts))
	mux.Handle("POST /api/products", s.protected(s.handleCreateProduct))
	mux.Handle("GET /api/products/{id}", s.protected(s.handleGetProduct))
	mux.Handle("PUT /api/products/{id}", s.protected(s.handleUpdateProduct))
	mux.Handle("DELETE /api/products/{id}", s.protected(s.handleDeleteProduct))

	// Documents
	mux.Handle("GET /api/documents", s.protected(s.handleListDocuments))
	mux.Handle("POST /api/documents", s.protected(s.handleUploadDocument))
	mux.Handle("DELETE /api/documents/{id}", s.protected(s.handleDeleteDocument))

	// Recommendations
	mux.Handle("GET /api/recommendations", s.protected(s.handleRecommendations))

	// Assistant
	mux.Handle("GET /api/assistant/messages", s.protected(s.handleListMessages))
	mux.Handle("POST /api/assistant/messages", s.protected(s.handleSendMessage))
	mux.Handle("DELETE /api/assistant/messages", s.protected(s.handleResetMessages))
	mux.Handle("GET /api/assistant/faq", s.protected(s.handleFAQ))

	mux.HandleFunc("/", s.handleNotFound)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM replies can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves requests until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.rateLimiter.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()

	s.logger.Info("server stopped")
	return nil
}

// protected wraps h with bearer token authentication.
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(s.auth.AsTokenValidator())(h)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client", s.extractClientID(r)))
	})
}

// handleRoot describes the service.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": serviceName,
		"endpoints": map[string]string{
			"/ask":  "POST endpoint for export advice",
			"/test": "GET health check endpoint",
			"/api":  "Authenticated Trade Connect API",
		},
		"version": serviceVersion,
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Application is live",
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusNotFound, map[string]any{
		"status":  "error",
		"message": "Endpoint not found",
		"available_endpoints": map[string]string{
			"/":     "Root information",
			"/ask":  "POST export advice",
			"/test": "GET health check",
		},
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON reads a bounded JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON request body"}
	}
	return nil
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		retry := max(1, int(info.RetryAfter.Seconds()))
		response["retry_after"] = retry
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retry))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.Int("limit", info.Limit),
		zap.Duration("retry_after", info.RetryAfter))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
