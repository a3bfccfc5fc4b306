package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/export"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/ledger"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/livestate"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/summary"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/chrono"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/go-chi/chi/v5"
)

// GetRoster returns a game's roster with current on-court flags
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	roster, err := h.store.LoadRoster(ctx, chi.URLParam(r, "game_id"))
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, roster)
}

// PutRoster creates or replaces a game's roster. Starters begin on court and
// substitutions already recorded for the game are replayed on top of them.
func (h *Handler) PutRoster(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	gameID := chi.URLParam(r, "game_id")

	var roster models.Roster
	if err := json.NewDecoder(r.Body).Decode(&roster); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if roster.GameID != "" && roster.GameID != gameID {
		respondError(w, http.StatusBadRequest, "game_id does not match path", nil)
		return
	}
	roster.GameID = gameID

	if msg := checkRoster(roster); msg != "" {
		respondError(w, http.StatusBadRequest, msg, nil)
		return
	}
	saved, err := h.ledger.SetRoster(ctx, roster)
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, gameID); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to invalidate cached views", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, saved)
}

// checkRoster returns a reason the roster is unusable, or ""
func checkRoster(roster models.Roster) string {
	if roster.HomeTeam.ID == "" || roster.AwayTeam.ID == "" {
		return "home_team and away_team ids are required"
	}
	if roster.HomeTeam.ID == roster.AwayTeam.ID {
		return "home and away teams must differ"
	}

	seen := make(map[string]bool)
	sides := []struct {
		teamID  string
		players []models.Player
	}{
		{roster.HomeTeam.ID, roster.HomePlayers},
		{roster.AwayTeam.ID, roster.AwayPlayers},
	}
	for _, side := range sides {
		starters := 0
		for _, p := range side.players {
			if p.ID == "" || seen[p.ID] {
				return "player ids must be present and unique"
			}
			seen[p.ID] = true
			if p.TeamID != side.teamID {
				return "player " + p.ID + " is listed under the wrong team"
			}
			if p.IsStarter {
				starters++
			}
		}
		if starters != ledger.PlayersOnCourt {
			return "team " + side.teamID + " must have exactly 5 starters"
		}
	}
	return ""
}

// GetEvents returns the game's events newest first
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	gameID := chi.URLParam(r, "game_id")
	events, err := h.store.LoadEvents(ctx, gameID)
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id": gameID,
		"events":  chrono.Display(events),
		"count":   len(events),
	})
}

// RecordEvent appends a play event
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	gameID := chi.URLParam(r, "game_id")

	var event models.PlayEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if event.GameID != "" && event.GameID != gameID {
		respondError(w, http.StatusBadRequest, "game_id does not match path", nil)
		return
	}
	event.GameID = gameID

	recorded, err := h.ledger.Record(ctx, event)
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, recorded)
}

// PatchEvent merges a partial event_data object into an event
func (h *Handler) PatchEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var patch ledger.DataPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	patched, err := h.ledger.Patch(ctx, chi.URLParam(r, "game_id"), chi.URLParam(r, "event_id"), patch)
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, patched)
}

// UndoEvent removes one event by id
func (h *Handler) UndoEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	removed, err := h.ledger.Undo(ctx, chi.URLParam(r, "game_id"), chi.URLParam(r, "event_id"))
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, removed)
}

// UndoLast removes the most recently recorded event
func (h *Handler) UndoLast(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	removed, err := h.ledger.UndoLast(ctx, chi.URLParam(r, "game_id"))
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, removed)
}

// GetLiveState returns the scorer-facing live state
func (h *Handler) GetLiveState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	gameID := chi.URLParam(r, "game_id")
	if h.cache != nil {
		if state, err := h.cache.ReadLiveState(ctx, gameID); err == nil {
			respondJSON(w, http.StatusOK, state)
			return
		}
	}

	roster, events, err := h.load(ctx, gameID)
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, livestate.Compute(roster, events))
}

// GetSummary renders the game summary. Query param: format (default json)
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	formatter, err := h.formatters.Get(format)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	s, err := h.summary(ctx, chi.URLParam(r, "game_id"))
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, s); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render summary", err)
		return
	}

	w.Header().Set("Content-Type", formatter.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetDisplayBoxScore returns per-player display rows
func (h *Handler) GetDisplayBoxScore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	gameID := chi.URLParam(r, "game_id")
	s, err := h.summary(ctx, gameID)
	if err != nil {
		respondLedgerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id":   gameID,
		"home_team": s.HomeTeam,
		"away_team": s.AwayTeam,
		"players":   export.PlayerStats(s),
	})
}

func (h *Handler) summary(ctx context.Context, gameID string) (models.GameSummary, error) {
	if h.cache != nil {
		if s, err := h.cache.ReadSummary(ctx, gameID); err == nil {
			return *s, nil
		}
	}

	roster, events, err := h.load(ctx, gameID)
	if err != nil {
		return models.GameSummary{}, err
	}
	return summary.Build(roster, events), nil
}

func (h *Handler) load(ctx context.Context, gameID string) (models.Roster, []models.PlayEvent, error) {
	roster, err := h.store.LoadRoster(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Roster{}, nil, fmt.Errorf("game %s has no roster: %w", gameID, err)
		}
		return models.Roster{}, nil, err
	}

	events, err := h.store.LoadEvents(ctx, gameID)
	if err != nil {
		return models.Roster{}, nil, err
	}
	return roster, events, nil
}
