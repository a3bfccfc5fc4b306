// Package ledger records, undoes and patches play events. Every change to
// the event list is applied together with the roster change it implies.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/lineup"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/chrono"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/google/uuid"
)

// ChangeKind names what happened to an event
type ChangeKind string

const (
	ChangeRecorded ChangeKind = "recorded"
	ChangeUndone   ChangeKind = "undone"
	ChangePatched  ChangeKind = "patched"
)

// Change is emitted to listeners after a committed mutation
type Change struct {
	Kind  ChangeKind
	Event models.PlayEvent
}

// Listener is notified after every committed change. Listener failures are
// logged by the listener itself; they never undo the change.
type Listener interface {
	OnChange(ctx context.Context, change Change)
}

// Ledger is the write side of a game's event list
type Ledger struct {
	store     store.Store
	listeners []Listener
	now       func() time.Time
	newID     func() string
}

// New creates a ledger over a store
func New(s store.Store, listeners ...Listener) *Ledger {
	return &Ledger{
		store:     s,
		listeners: listeners,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
}

// Record validates and appends an event. A substitution is checked by
// replaying the lineup in game order with the new event in place, so one
// entered late with an earlier clock is judged where it happened.
func (l *Ledger) Record(ctx context.Context, event models.PlayEvent) (models.PlayEvent, error) {
	if event.ID == "" {
		event.ID = l.newID()
	}
	if event.WallClock.IsZero() {
		event.WallClock = l.now()
	}

	err := l.store.InTx(ctx, func(tx store.Tx) error {
		roster, err := tx.LoadRoster(ctx, event.GameID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return &InvalidEventError{EventType: string(event.EventType), Reason: "game has no roster"}
			}
			return fmt.Errorf("loading roster: %w", err)
		}

		if err := validateEvent(roster, event); err != nil {
			return err
		}

		if event.EventType == models.EventSubstitution {
			events, err := tx.LoadEvents(ctx, event.GameID)
			if err != nil {
				return fmt.Errorf("loading events: %w", err)
			}
			court, err := replayLineup(roster, append(events, event))
			if err != nil {
				return err
			}
			if err := syncOnCourt(ctx, tx, roster, court); err != nil {
				return err
			}
		}

		if err := tx.AppendEvent(ctx, &event); err != nil {
			return fmt.Errorf("appending event: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.PlayEvent{}, err
	}

	log.Printf("[game:%s] recorded %s (%s)", event.GameID, event.ID, event)
	l.notify(ctx, Change{Kind: ChangeRecorded, Event: event})
	return event, nil
}

// Undo removes an event by id, first reversing its roster side effect
func (l *Ledger) Undo(ctx context.Context, gameID, eventID string) (models.PlayEvent, error) {
	var removed models.PlayEvent

	err := l.store.InTx(ctx, func(tx store.Tx) error {
		event, err := tx.GetEvent(ctx, gameID, eventID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return &NotFoundError{GameID: gameID, EventID: eventID}
			}
			return fmt.Errorf("loading event: %w", err)
		}

		if err := remove(ctx, tx, event); err != nil {
			return err
		}
		removed = event
		return nil
	})
	if err != nil {
		return models.PlayEvent{}, err
	}

	log.Printf("[game:%s] undid %s (%s)", gameID, removed.ID, removed)
	l.notify(ctx, Change{Kind: ChangeUndone, Event: removed})
	return removed, nil
}

// UndoLast removes the most recently recorded event of a game
func (l *Ledger) UndoLast(ctx context.Context, gameID string) (models.PlayEvent, error) {
	var removed models.PlayEvent

	err := l.store.InTx(ctx, func(tx store.Tx) error {
		events, err := tx.LoadEvents(ctx, gameID)
		if err != nil {
			return fmt.Errorf("loading events: %w", err)
		}

		last, ok := chrono.LastCreated(events)
		if !ok {
			return &NotFoundError{GameID: gameID}
		}

		if err := remove(ctx, tx, last); err != nil {
			return err
		}
		removed = last
		return nil
	})
	if err != nil {
		return models.PlayEvent{}, err
	}

	log.Printf("[game:%s] undid last event %s (%s)", gameID, removed.ID, removed)
	l.notify(ctx, Change{Kind: ChangeUndone, Event: removed})
	return removed, nil
}

// Patch shallow-merges fields into an event's data
func (l *Ledger) Patch(ctx context.Context, gameID, eventID string, patch DataPatch) (models.PlayEvent, error) {
	var patched models.PlayEvent

	err := l.store.InTx(ctx, func(tx store.Tx) error {
		event, err := tx.GetEvent(ctx, gameID, eventID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return &NotFoundError{GameID: gameID, EventID: eventID}
			}
			return fmt.Errorf("loading event: %w", err)
		}

		merged, err := patch.apply(event)
		if err != nil {
			return err
		}

		roster, err := tx.LoadRoster(ctx, gameID)
		if err != nil {
			return fmt.Errorf("loading roster: %w", err)
		}
		if err := validatePayload(roster, merged); err != nil {
			return err
		}

		if err := tx.UpdateEventData(ctx, gameID, eventID, merged.EventData); err != nil {
			return fmt.Errorf("updating event: %w", err)
		}
		patched = merged
		return nil
	})
	if err != nil {
		return models.PlayEvent{}, err
	}

	log.Printf("[game:%s] patched %s", gameID, eventID)
	l.notify(ctx, Change{Kind: ChangePatched, Event: patched})
	return patched, nil
}

// remove deletes an event inside tx. Removing a substitution replays the
// remaining lineup and is refused when a later substitution depends on it.
func remove(ctx context.Context, tx store.Tx, event models.PlayEvent) error {
	if event.EventType == models.EventSubstitution {
		roster, err := tx.LoadRoster(ctx, event.GameID)
		if err != nil {
			return fmt.Errorf("loading roster: %w", err)
		}
		events, err := tx.LoadEvents(ctx, event.GameID)
		if err != nil {
			return fmt.Errorf("loading events: %w", err)
		}

		rest := make([]models.PlayEvent, 0, len(events))
		for _, e := range events {
			if e.ID != event.ID {
				rest = append(rest, e)
			}
		}
		court, err := replayLineup(roster, rest)
		if err != nil {
			var iv *InvariantViolation
			if errors.As(err, &iv) {
				iv.Reason = "cannot undo substitution: " + iv.Reason
			}
			return err
		}
		if err := syncOnCourt(ctx, tx, roster, court); err != nil {
			return err
		}
	}

	if err := tx.DeleteEvent(ctx, event.GameID, event.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &NotFoundError{GameID: event.GameID, EventID: event.ID}
		}
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// syncOnCourt writes the replayed lineup back to the roster flags
func syncOnCourt(ctx context.Context, tx store.Tx, roster models.Roster, court *lineup.Lineup) error {
	for _, p := range roster.Players() {
		want := court.IsOnCourt(p.ID)
		if p.IsOnCourt == want {
			continue
		}
		if err := tx.SetOnCourt(ctx, roster.GameID, p.ID, want); err != nil {
			return fmt.Errorf("setting %s on court=%t: %w", p.ID, want, err)
		}
	}
	return nil
}

// SetRoster creates or replaces a game's roster. The on-court flags are
// rebuilt from the starters and the substitutions already recorded, and the
// roster is refused when a recorded event no longer fits it.
func (l *Ledger) SetRoster(ctx context.Context, roster models.Roster) (models.Roster, error) {
	roster.HomePlayers = append([]models.Player(nil), roster.HomePlayers...)
	roster.AwayPlayers = append([]models.Player(nil), roster.AwayPlayers...)

	var recorded int
	err := l.store.InTx(ctx, func(tx store.Tx) error {
		events, err := tx.LoadEvents(ctx, roster.GameID)
		if err != nil {
			return fmt.Errorf("loading events: %w", err)
		}
		recorded = len(events)

		for _, e := range events {
			if err := validateEvent(roster, e); err != nil {
				return &InvariantViolation{
					TeamID: e.TeamID,
					Reason: fmt.Sprintf("recorded event %s does not fit the roster: %v", e.ID, err),
				}
			}
		}

		court, err := replayLineup(roster, events)
		if err != nil {
			return err
		}
		for _, players := range [][]models.Player{roster.HomePlayers, roster.AwayPlayers} {
			for i := range players {
				players[i].IsOnCourt = court.IsOnCourt(players[i].ID)
			}
		}

		if err := tx.SaveRoster(ctx, roster); err != nil {
			return fmt.Errorf("saving roster: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Roster{}, err
	}

	log.Printf("[game:%s] roster saved (%d recorded events)", roster.GameID, recorded)
	return roster, nil
}

func (l *Ledger) notify(ctx context.Context, change Change) {
	for _, listener := range l.listeners {
		listener.OnChange(ctx, change)
	}
}

// Update converts a change to the feed message sent to UI clients
func (c Change) Update(at time.Time) models.FeedUpdate {
	return models.FeedUpdate{
		Kind:      string(c.Kind),
		Event:     c.Event.Feed(),
		Timestamp: at,
	}
}
