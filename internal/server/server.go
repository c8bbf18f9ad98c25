// Package server provides the HTTP REST API for CV analysis and
// optimization.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/cv-optimizer/internal/analysis"
	"github.com/jonathan/cv-optimizer/internal/captcha"
	"github.com/jonathan/cv-optimizer/internal/config"
	"github.com/jonathan/cv-optimizer/internal/pipeline"
	"github.com/jonathan/cv-optimizer/internal/remote"
	"github.com/jonathan/cv-optimizer/internal/render"
	"github.com/jonathan/cv-optimizer/internal/server/middleware"
	"github.com/jonathan/cv-optimizer/internal/server/ratelimit"
	"github.com/jonathan/cv-optimizer/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	store        *storage.Store
	orchestrator *analysis.Orchestrator
	captcha      *captcha.Verifier
	remoteClient remote.Client
	renderer     *render.Renderer
	rateLimiter  *ratelimit.Limiter
	jwtService   *JWTService
	authHandler  *AuthHandler
}

// Config holds server configuration
type Config struct {
	Port          int
	DatabaseURL   string
	APIKey        string
	CaptchaSecret string
	RendererURL   string
}

// New creates a new server instance. The database, remote analysis and
// captcha gate are each optional; the server degrades to local-only
// analysis without persistence when they are not configured.
func New(cfg Config) (*Server, error) {
	s := &Server{}

	if cfg.DatabaseURL != "" {
		store, err := storage.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.store = store
	}

	var captchaOpts *captcha.Options
	if cfg.CaptchaSecret != "" {
		captchaOpts = captcha.DefaultOptions(cfg.CaptchaSecret)
	}
	s.captcha = captcha.NewVerifier(captchaOpts)

	// The server pipeline has no store of its own; handlers persist
	// results once, tagged with the source that produced them.
	local := pipeline.New(pipeline.Options{})

	var remoteSvc analysis.RemoteService
	if cfg.APIKey != "" {
		client, err := remote.NewClient(context.Background(), remote.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create remote client: %w", err)
		}
		s.remoteClient = client
		remoteSvc = remote.NewService(client, 0)
	}
	s.orchestrator = analysis.NewOrchestrator(remoteSvc, local, nil)

	if cfg.RendererURL != "" {
		s.renderer = render.NewRenderer(render.DefaultOptions(cfg.RendererURL))
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Authentication is enabled by AUTH_PASSWORD_HASH; JWT_SECRET is
	// then required as well.
	if os.Getenv("AUTH_PASSWORD_HASH") != "" {
		passwordConfig, err := config.NewPasswordConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create password config: %w", err)
		}
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		s.jwtService = NewJWTService(jwtConfig)
		s.authHandler = NewAuthHandler(passwordConfig, s.jwtService)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Long timeout for remote analysis plus fallback
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router and wraps it with the middleware chain.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /analyze/stream", s.handleAnalyzeStream)
	mux.HandleFunc("POST /optimize", s.handleOptimize)
	mux.HandleFunc("POST /cvs", s.handleSaveCV)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Analysis history requires a token when authentication is on.
	if s.jwtService != nil {
		auth := middleware.Auth(s.jwtService.AsTokenValidator())
		mux.Handle("GET /analyses", auth(http.HandlerFunc(s.handleListAnalyses)))
		mux.Handle("GET /analyses/{id}", auth(http.HandlerFunc(s.handleGetAnalysis)))
		mux.HandleFunc("POST /auth/token", s.handleToken)
	} else {
		mux.HandleFunc("GET /analyses", s.handleListAnalyses)
		mux.HandleFunc("GET /analyses/{id}", s.handleGetAnalysis)
	}

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.remoteClient != nil {
		if err := s.remoteClient.Close(); err != nil {
			log.Printf("Warning: failed to close remote client: %v", err)
		}
	}
	if s.store != nil {
		s.store.Close()
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
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
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health, including the circuit breaker
// state so operators can see when remote analysis is suspended.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":          "ok",
		"circuit_breaker": s.orchestrator.BreakerState(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID identifies the client by IP address from RemoteAddr.
// X-Forwarded-For is deliberately ignored; it is client-controlled
// unless a trusted proxy is in front.
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

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
