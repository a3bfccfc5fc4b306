package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/export"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/ledger"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/go-chi/chi/v5"
)

// ViewCache serves previously computed views. A miss or error falls back
// to computing the view from the store.
type ViewCache interface {
	ReadSummary(ctx context.Context, gameID string) (*models.GameSummary, error)
	ReadLiveState(ctx context.Context, gameID string) (*models.LiveState, error)
	Invalidate(ctx context.Context, gameID string) error
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	store      store.Store
	ledger     *ledger.Ledger
	formatters *export.Registry
	cache      ViewCache
}

// NewHandler creates a new handler with dependencies. cache may be nil.
func NewHandler(s store.Store, l *ledger.Ledger, formatters *export.Registry, cache ViewCache) *Handler {
	return &Handler{
		store:      s,
		ledger:     l,
		formatters: formatters,
		cache:      cache,
	}
}

// RegisterRoutes mounts the game API on r
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1/games/{game_id}", func(r chi.Router) {
		r.Get("/roster", h.GetRoster)
		r.Put("/roster", h.PutRoster)

		r.Get("/events", h.GetEvents)
		r.Post("/events", h.RecordEvent)
		r.Patch("/events/{event_id}", h.PatchEvent)
		r.Delete("/events/{event_id}", h.UndoEvent)
		r.Post("/undo", h.UndoLast)

		r.Get("/state", h.GetLiveState)
		r.Get("/summary", h.GetSummary)
		r.Get("/boxscore/display", h.GetDisplayBoxScore)
	})
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "store unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "game-ledger-service",
	})
}

// respondLedgerError maps ledger and store errors to status codes
func respondLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ledger.ErrInvalidEvent):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ledger.ErrInvariantViolation):
		respondError(w, http.StatusConflict, err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		fmt.Printf("error encoding error response: %v\n", err)
	}
}
