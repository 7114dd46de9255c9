package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"locationd/internal/session"
	"locationd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Status() types.StatusResponse
	Requests() []types.RequestStatus
	Start(types.StartRequest) (string, error)
	Stop(id string) error
	Ready() bool
}

// NewMux registers /status, /requests, /healthz, /readyz and /metrics.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	// Status godoc
	// @Summary  Session status
	// @Produce  json
	// @Success  200 {object} types.StatusResponse
	// @Router   /status [get]
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	// ListRequests godoc
	// @Summary  List in-flight requests
	// @Produce  json
	// @Success  200 {array} types.RequestStatus
	// @Router   /requests [get]
	r.Get("/requests", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"requests": svc.Requests()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	// StartRequest godoc
	// @Summary  Start a location, heading or region request
	// @Accept   json
	// @Produce  json
	// @Param    request body types.StartRequest true "request to start"
	// @Success  201 {object} types.StartResponse
	// @Failure  400 {object} types.ErrorResponse
	// @Failure  403 {object} types.ErrorResponse
	// @Router   /requests [post]
	r.Post("/requests", func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		// Limit body size (configurable, default 1MiB)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.StartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		start := time.Now()
		id, err := svc.Start(req)
		if err != nil {
			status := errorStatus(err)
			writeJSONError(w, status, err.Error())
			logRequest(r, status, start, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.StartResponse{ID: id})
		logRequest(r, http.StatusCreated, start, nil)
	})

	// StopRequest godoc
	// @Summary  Stop a request
	// @Produce  json
	// @Param    id path string true "request id"
	// @Success  204
	// @Failure  404 {object} types.ErrorResponse
	// @Router   /requests/{id} [delete]
	r.Delete("/requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		start := time.Now()
		if err := svc.Stop(id); err != nil {
			status := errorStatus(err)
			writeJSONError(w, status, err.Error())
			logRequest(r, status, start, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		logRequest(r, http.StatusNoContent, start, nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("closed"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// errorStatus maps well-known session errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case session.IsRequestNotFound(err):
		return http.StatusNotFound
	case session.IsInvalidRequest(err):
		return http.StatusBadRequest
	case session.IsAuthorizationDenied(err):
		return http.StatusForbidden
	case session.IsSessionClosed(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": msg,
		"code":  status,
	})
}
