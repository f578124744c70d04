// Package server exposes path queries and the debug board over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"

	"github.com/samdwyer/gridpath/internal/navigation"
)

// Handler serves the API for one navigation manager.
type Handler struct {
	nav    *navigation.Manager
	logger logr.Logger
}

// NewHandler creates a Handler.
func NewHandler(nav *navigation.Manager, logger logr.Logger) *Handler {
	return &Handler{nav: nav, logger: logger}
}

// SetupRoutes configures all routes and returns the router.
func SetupRoutes(nav *navigation.Manager, logger logr.Logger) http.Handler {
	h := NewHandler(nav, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/grid", h.GetGrid)
		r.Post("/grid/rebuild", h.RebuildGrid)
		r.Get("/path", h.FindPath)

		r.Route("/debug", func(r chi.Router) {
			r.Get("/tiles", h.GetTiles)
			r.Post("/clear", h.ClearDebug)
			r.Post("/mode/{mode}", h.SetMode)
		})
	})

	return r
}

// requestLogger logs one line per request at V(1).
func requestLogger(logger logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.V(1).Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error JSON response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
