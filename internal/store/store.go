// Package store defines the persistence collaborator of the ledger: the
// event store and the roster it mutates through substitutions.
package store

import (
	"context"
	"errors"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// ErrNotFound is returned when an event, roster or player does not exist
var ErrNotFound = errors.New("not found")

// Reader loads a game's events and roster
type Reader interface {
	LoadEvents(ctx context.Context, gameID string) ([]models.PlayEvent, error)
	LoadRoster(ctx context.Context, gameID string) (models.Roster, error)
}

// Tx is the write surface available inside a transaction. An event append
// and the roster change it causes always happen in the same Tx.
type Tx interface {
	Reader
	GetEvent(ctx context.Context, gameID, eventID string) (models.PlayEvent, error)
	AppendEvent(ctx context.Context, event *models.PlayEvent) error
	UpdateEventData(ctx context.Context, gameID, eventID string, data models.EventData) error
	DeleteEvent(ctx context.Context, gameID, eventID string) error
	SetOnCourt(ctx context.Context, gameID, playerID string, onCourt bool) error
	SaveRoster(ctx context.Context, roster models.Roster) error
}

// Store is implemented by the in-memory and PostgreSQL stores
type Store interface {
	Reader
	SaveRoster(ctx context.Context, roster models.Roster) error
	// InTx runs fn atomically. Any error returned by fn discards its writes.
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}
