package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"tscheck/pkg/contracts"
)

// StatsProvider reports WebSocket hub statistics for the health payload.
// A nil provider is allowed when the server runs without a hub.
type StatsProvider interface {
	Stats() map[string]interface{}
}

// HealthHandler handles health and version HTTP requests.
type HealthHandler struct {
	hub     StatsProvider
	logger  *slog.Logger
	started time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(hub StatsProvider, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		hub:     hub,
		logger:  logger.With(slog.String("handler", "health")),
		started: time.Now(),
	}
}

// Routes returns the health and version routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", h.HealthCheck)
	r.Get("/version", h.Version)
	return r
}

// HealthCheck handles GET /api/health.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":    "ok",
		"version":   contracts.Version,
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.hub != nil {
		body["websocket"] = h.hub.Stats()
	}
	render.JSON(w, r, body)
}

// Version handles GET /api/version.
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, contracts.GetVersionInfo())
}
