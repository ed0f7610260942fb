package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/ssbwatch/internal/channel"
	"github.com/osse101/ssbwatch/internal/database"
	"github.com/osse101/ssbwatch/internal/economy"
	"github.com/osse101/ssbwatch/internal/handler"
	"github.com/osse101/ssbwatch/internal/logger"
	"github.com/osse101/ssbwatch/internal/metrics"
	"github.com/osse101/ssbwatch/internal/middleware"
	"github.com/osse101/ssbwatch/internal/prediction"
	"github.com/osse101/ssbwatch/internal/session"
	"github.com/osse101/ssbwatch/internal/sse"
	"github.com/osse101/ssbwatch/internal/statuscache"
	"github.com/osse101/ssbwatch/internal/user"
)

// Config holds the HTTP surface settings
type Config struct {
	Port           int
	APIKey         string
	AdminAPIKey    string
	TrustedProxies []string
	CORSOrigins    []string
	// SnapshotMaxAge bounds how stale a list-view snapshot may be
	SnapshotMaxAge time.Duration
}

// Dependencies are the services the routes delegate to
type Dependencies struct {
	DBPool      database.Pool
	Channels    channel.Service
	Snapshots   statuscache.Store
	Predictions prediction.Service
	Users       user.Service
	Ledger      economy.Service
	Hints       *session.HintStore
	Hub         *sse.Hub
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(cfg Config, deps Dependencies) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: NewRouter(cfg, deps),
			// no WriteTimeout: /api/v1/events streams indefinitely
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the full route table
func NewRouter(cfg Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", HeaderAPIKey, middleware.HeaderSessionID, middleware.HeaderUserID},
		ExposedHeaders: []string{middleware.HeaderSessionID},
		MaxAge:         CORSMaxAgeSeconds,
	}))
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(cfg.TrustedProxies, detector))
	r.Use(AuthMiddleware(cfg.APIKey, cfg.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.DBPool))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	channelHandlers := handler.NewChannelHandlers(deps.Channels, deps.Snapshots, cfg.SnapshotMaxAge)
	contestHandlers := handler.NewContestHandlers(deps.Predictions, deps.Hints)
	predictionHandlers := handler.NewPredictionHandlers(deps.Predictions, deps.Hints)
	userHandlers := handler.NewUserHandlers(deps.Users, deps.Ledger)
	adminHandler := handler.NewAdminUserHandler(deps.Users)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session)

		r.Route("/channels", func(r chi.Router) {
			r.Get("/", channelHandlers.HandleListChannels())
			r.Get("/{handle}", channelHandlers.HandleGetChannel())
			r.Get("/{handle}/clips", channelHandlers.HandleGetClips())
		})

		r.Route("/contests", func(r chi.Router) {
			r.Get("/{contestID}/tally", contestHandlers.HandleGetTally())

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/vote", contestHandlers.HandleVote())
				r.Get("/{contestID}/wager", contestHandlers.HandleGetWager())
				r.Post("/{contestID}/settle", contestHandlers.HandleSettle())
			})
		})

		r.Get("/prediction", predictionHandlers.HandleGetPrediction())
		r.Post("/prediction/dismiss", predictionHandlers.HandleDismiss())

		r.Route("/user", func(r chi.Router) {
			r.Post("/register", userHandlers.HandleRegisterUser())
			r.Get("/profile/{username}", userHandlers.HandleGetProfile())

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/me", userHandlers.HandleGetMe())
				r.Post("/award-points", userHandlers.HandleAwardPoints())
			})
		})

		if deps.Hub != nil {
			r.Get("/events", sse.Handler(deps.Hub))
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/prediction", predictionHandlers.HandleStartPrediction())
			r.Post("/user/ban", adminHandler.HandleBan())
			r.Post("/user/unban", adminHandler.HandleUnban())
			r.Post("/user/verify", adminHandler.HandleVerify())
			r.Post("/user/role", adminHandler.HandleSetRole())
			r.Get("/users", adminHandler.HandleListUsers())
			r.Get("/cache/stats", adminHandler.HandleCacheStats())
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func isSensitiveHeader(name string) bool {
	for _, h := range SensitiveHeaders {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if isSensitiveHeader(k) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
