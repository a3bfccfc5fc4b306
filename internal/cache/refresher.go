// Package cache keeps Redis copies of the derived game views current.
package cache

import (
	"context"
	"log"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/ledger"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/livestate"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/summary"
)

// Refresher recomputes and caches a game's views after every ledger change
type Refresher struct {
	reader store.Reader
	writer *RedisWriter
}

// NewRefresher creates a refresher
func NewRefresher(reader store.Reader, writer *RedisWriter) *Refresher {
	return &Refresher{reader: reader, writer: writer}
}

// OnChange implements ledger.Listener
func (r *Refresher) OnChange(ctx context.Context, change ledger.Change) {
	gameID := change.Event.GameID
	if err := r.Refresh(ctx, gameID); err != nil {
		log.Printf("[cache] Error refreshing game %s: %v", gameID, err)
	}
}

// Refresh recomputes a game's views from the store and caches them. The
// revision is reserved before the store is read, so views read earlier never
// replace views read later. When the rebuild fails the cached views are
// dropped and readers fall back to the store.
func (r *Refresher) Refresh(ctx context.Context, gameID string) error {
	revision, err := r.writer.NextRevision(ctx, gameID)
	if err != nil {
		return err
	}

	if err := r.rebuild(ctx, gameID, revision); err != nil {
		if dropErr := r.writer.drop(ctx, gameID, revision); dropErr != nil {
			log.Printf("[cache] Error dropping views of game %s: %v", gameID, dropErr)
		}
		return err
	}
	return nil
}

func (r *Refresher) rebuild(ctx context.Context, gameID string, revision int64) error {
	roster, err := r.reader.LoadRoster(ctx, gameID)
	if err != nil {
		return err
	}
	events, err := r.reader.LoadEvents(ctx, gameID)
	if err != nil {
		return err
	}

	written, err := r.writer.WriteViews(ctx, revision, summary.Build(roster, events), livestate.Compute(roster, events))
	if err != nil {
		return err
	}
	if !written {
		log.Printf("[cache] game %s: revision %d superseded, views not written", gameID, revision)
	}
	return nil
}
