package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

type gameData struct {
	roster models.Roster
	events []models.PlayEvent
}

// MemoryStore keeps games in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*gameData
	seq   int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]*gameData),
	}
}

// LoadEvents returns a copy of a game's events in insertion order
func (s *MemoryStore) LoadEvents(ctx context.Context, gameID string) ([]models.PlayEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadEvents(gameID), nil
}

// LoadRoster returns a copy of a game's roster
func (s *MemoryStore) LoadRoster(ctx context.Context, gameID string) (models.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadRoster(gameID)
}

// SaveRoster replaces a game's roster, keeping its events
func (s *MemoryStore) SaveRoster(ctx context.Context, roster models.Roster) error {
	if roster.GameID == "" {
		return fmt.Errorf("roster without game id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game(roster.GameID)
	g.roster = cloneRoster(roster)
	return nil
}

// InTx runs fn under the store's write lock on a scratch copy of the data
// and commits it only if fn succeeds
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		store: s,
		games: make(map[string]*gameData),
		seq:   s.seq,
	}

	if err := fn(tx); err != nil {
		return err
	}

	for id, g := range tx.games {
		s.games[id] = g
	}
	s.seq = tx.seq
	return nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) game(gameID string) *gameData {
	g, ok := s.games[gameID]
	if !ok {
		g = &gameData{roster: models.Roster{GameID: gameID}}
		s.games[gameID] = g
	}
	return g
}

func (s *MemoryStore) loadEvents(gameID string) []models.PlayEvent {
	g, ok := s.games[gameID]
	if !ok {
		return []models.PlayEvent{}
	}
	out := make([]models.PlayEvent, len(g.events))
	copy(out, g.events)
	return out
}

func (s *MemoryStore) loadRoster(gameID string) (models.Roster, error) {
	g, ok := s.games[gameID]
	if !ok || !g.roster.HasTeam(g.roster.HomeTeam.ID) {
		return models.Roster{}, fmt.Errorf("roster for game %s: %w", gameID, ErrNotFound)
	}
	return cloneRoster(g.roster), nil
}

// memoryTx copies a game on first touch; writes go to the copy
type memoryTx struct {
	store *MemoryStore
	games map[string]*gameData
	seq   int64
}

func (tx *memoryTx) game(gameID string) *gameData {
	if g, ok := tx.games[gameID]; ok {
		return g
	}
	g := &gameData{roster: models.Roster{GameID: gameID}}
	if orig, ok := tx.store.games[gameID]; ok {
		g.roster = cloneRoster(orig.roster)
		g.events = make([]models.PlayEvent, len(orig.events))
		copy(g.events, orig.events)
	}
	tx.games[gameID] = g
	return g
}

func (tx *memoryTx) LoadEvents(ctx context.Context, gameID string) ([]models.PlayEvent, error) {
	g := tx.game(gameID)
	out := make([]models.PlayEvent, len(g.events))
	copy(out, g.events)
	return out, nil
}

func (tx *memoryTx) LoadRoster(ctx context.Context, gameID string) (models.Roster, error) {
	g := tx.game(gameID)
	if !g.roster.HasTeam(g.roster.HomeTeam.ID) {
		return models.Roster{}, fmt.Errorf("roster for game %s: %w", gameID, ErrNotFound)
	}
	return cloneRoster(g.roster), nil
}

func (tx *memoryTx) GetEvent(ctx context.Context, gameID, eventID string) (models.PlayEvent, error) {
	g := tx.game(gameID)
	for _, e := range g.events {
		if e.ID == eventID {
			return e, nil
		}
	}
	return models.PlayEvent{}, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
}

func (tx *memoryTx) AppendEvent(ctx context.Context, event *models.PlayEvent) error {
	g := tx.game(event.GameID)
	for _, e := range g.events {
		if e.ID == event.ID {
			return fmt.Errorf("event %s already exists", event.ID)
		}
	}
	tx.seq++
	event.Sequence = tx.seq
	g.events = append(g.events, *event)
	return nil
}

func (tx *memoryTx) UpdateEventData(ctx context.Context, gameID, eventID string, data models.EventData) error {
	g := tx.game(gameID)
	for i := range g.events {
		if g.events[i].ID == eventID {
			g.events[i].EventData = data
			return nil
		}
	}
	return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
}

func (tx *memoryTx) DeleteEvent(ctx context.Context, gameID, eventID string) error {
	g := tx.game(gameID)
	for i := range g.events {
		if g.events[i].ID == eventID {
			g.events = append(g.events[:i], g.events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
}

func (tx *memoryTx) SetOnCourt(ctx context.Context, gameID, playerID string, onCourt bool) error {
	g := tx.game(gameID)
	for _, players := range [][]models.Player{g.roster.HomePlayers, g.roster.AwayPlayers} {
		for i := range players {
			if players[i].ID == playerID {
				players[i].IsOnCourt = onCourt
				return nil
			}
		}
	}
	return fmt.Errorf("player %s: %w", playerID, ErrNotFound)
}

func (tx *memoryTx) SaveRoster(ctx context.Context, roster models.Roster) error {
	if roster.GameID == "" {
		return fmt.Errorf("roster without game id")
	}
	g := tx.game(roster.GameID)
	g.roster = cloneRoster(roster)
	return nil
}

func cloneRoster(r models.Roster) models.Roster {
	out := r
	out.HomePlayers = append([]models.Player(nil), r.HomePlayers...)
	out.AwayPlayers = append([]models.Player(nil), r.AwayPlayers...)
	return out
}
