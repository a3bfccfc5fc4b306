package livestate

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/chrono"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// Loader computes live views of stored games
type Loader struct {
	reader store.Reader
}

// NewLoader creates a loader over a store
func NewLoader(reader store.Reader) *Loader {
	return &Loader{reader: reader}
}

// Load computes a game's current live state
func (l *Loader) Load(ctx context.Context, gameID string) (models.LiveState, error) {
	roster, events, err := l.read(ctx, gameID)
	if err != nil {
		return models.LiveState{}, err
	}
	return Compute(roster, events), nil
}

// Snapshot returns the live state together with the game's feed
func (l *Loader) Snapshot(ctx context.Context, gameID string) (models.GameSnapshot, error) {
	roster, events, err := l.read(ctx, gameID)
	if err != nil {
		return models.GameSnapshot{}, err
	}

	feed := make([]models.FeedItem, 0, len(events))
	for _, e := range chrono.Display(events) {
		feed = append(feed, e.Feed())
	}

	return models.GameSnapshot{
		State:  Compute(roster, events),
		Events: feed,
	}, nil
}

func (l *Loader) read(ctx context.Context, gameID string) (models.Roster, []models.PlayEvent, error) {
	roster, err := l.reader.LoadRoster(ctx, gameID)
	if err != nil {
		return models.Roster{}, nil, fmt.Errorf("loading roster of game %s: %w", gameID, err)
	}
	events, err := l.reader.LoadEvents(ctx, gameID)
	if err != nil {
		return models.Roster{}, nil, fmt.Errorf("loading events of game %s: %w", gameID, err)
	}
	return roster, events, nil
}
