// Package api provides the HTTP REST API server for the simulation service.
//
// It exposes the unified calculate endpoint, the typed convenience
// endpoints, and CRUD operations on stored simulation records.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/baedea/brainfin/internal/config"
	"github.com/baedea/brainfin/internal/database"
	"github.com/baedea/brainfin/internal/metrics"
	"github.com/baedea/brainfin/internal/models"
	"github.com/baedea/brainfin/internal/service"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	svc    *service.SimulationService
	db     *database.DB
	log    *logrus.Logger
}

// NewServer creates a configured API server with all routes and middleware.
// db may be nil; readiness then reports the service as degraded.
func NewServer(cfg *config.Config, svc *service.SimulationService, db *database.DB, log *logrus.Logger) *Server {
	srv := &Server{
		cfg: cfg,
		svc: svc,
		db:  db,
		log: log,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and blocks until a shutdown signal
// arrives or the server fails.
func (s *Server) ListenAndServe() error {
	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("port", s.cfg.Server.Port).Info("API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-done:
		s.log.WithField("signal", sig.String()).Info("Shutting down API server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout()))

	if s.cfg.Server.RateLimitPerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(s.cfg.Server.RateLimitPerSecond), s.cfg.Server.RateLimitBurst)
		r.Use(rateLimit(limiter))
	}

	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)

		// Typed convenience endpoints: the body is the bare parameter
		// object for the investment type.
		r.Post("/real-estate", s.handleTyped(models.InvestmentRealEstate))
		r.Post("/etf-regular", s.handleTyped(models.InvestmentETFRegular))
		r.Post("/stock", s.handleTyped(models.InvestmentStock))
		r.Post("/bond-deposit", s.handleTyped(models.InvestmentBondDeposit))

		r.Get("/simulations/{id}", s.handleGetSimulation)
		r.Get("/history", s.handleHistory)
		r.Put("/simulations/{id}", s.handleUpdateSimulation)
		r.Delete("/simulations/{id}", s.handleDeleteSimulation)
	})

	return r
}

// requestLogger logs each request with its route, status and duration, and
// feeds the HTTP metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(started)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}

		metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(ww.Status()), elapsed.Seconds())
		s.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"route":       route,
			"status":      ww.Status(),
			"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
			"request_id":  middleware.GetReqID(r.Context()),
		}).Info("Request handled")
	})
}

// rateLimit rejects requests above the configured global rate.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError carries field-level validation detail for 422 responses.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

func writeValidationError(w http.ResponseWriter, details []FieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, APIResponse{
		Success: false,
		Error:   "validation failed",
		Details: details,
	})
}

// writeServiceError maps service errors to HTTP status codes: not found to
// 404, validation failures to 422 with field detail, everything else to 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "simulation not found")
	case errors.Is(err, models.ErrUnsupportedType):
		writeValidationError(w, []FieldError{{Field: "investment_type", Message: err.Error()}})
	default:
		if de, ok := models.AsDomainError(err); ok {
			writeValidationError(w, []FieldError{{Field: de.Field, Message: de.Message}})
			return
		}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			details := make([]FieldError, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, FieldError{
					Field:   fe.Field(),
					Message: fmt.Sprintf("failed %s validation", fe.Tag()),
				})
			}
			writeValidationError(w, details)
			return
		}
		s.log.WithError(err).Error("Request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
