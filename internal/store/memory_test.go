package store

import (
	"context"
	"errors"
	"testing"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	require.NoError(t, s.SaveRoster(context.Background(), testutil.Roster()))
	return s
}

func TestMemoryStore_RosterNotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.LoadRoster(context.Background(), "nope")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_RosterIsCopied(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	r, err := s.LoadRoster(ctx, testutil.GameID)
	require.NoError(t, err)
	r.HomePlayers[0].IsOnCourt = false

	again, err := s.LoadRoster(ctx, testutil.GameID)
	require.NoError(t, err)
	assert.True(t, again.HomePlayers[0].IsOnCourt)
}

func TestMemoryStore_CommitAssignsSequence(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	b := testutil.NewBuilder()

	for i := 0; i < 3; i++ {
		e := b.Foul(models.Q1, "09:00", testutil.Home, "h1")
		e.Sequence = 0
		require.NoError(t, s.InTx(ctx, func(tx Tx) error {
			return tx.AppendEvent(ctx, &e)
		}))
		assert.Equal(t, int64(i+1), e.Sequence)
	}

	events, err := s.LoadEvents(ctx, testutil.GameID)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestMemoryStore_RollbackOnError(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	b := testutil.NewBuilder()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx Tx) error {
		e := b.Foul(models.Q1, "09:00", testutil.Home, "h1")
		require.NoError(t, tx.AppendEvent(ctx, &e))
		require.NoError(t, tx.SetOnCourt(ctx, testutil.GameID, "h1", false))

		// writes are visible inside the transaction
		events, err := tx.LoadEvents(ctx, testutil.GameID)
		require.NoError(t, err)
		assert.Len(t, events, 1)
		return boom
	})

	assert.Equal(t, boom, err)
	events, err := s.LoadEvents(ctx, testutil.GameID)
	require.NoError(t, err)
	assert.Empty(t, events)
	r, err := s.LoadRoster(ctx, testutil.GameID)
	require.NoError(t, err)
	assert.True(t, r.HomePlayers[0].IsOnCourt)
}

func TestMemoryStore_EventLifecycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	b := testutil.NewBuilder()
	e := b.Made(models.Q1, "09:00", testutil.Home, "h1", 2)

	require.NoError(t, s.InTx(ctx, func(tx Tx) error {
		return tx.AppendEvent(ctx, &e)
	}))

	err := s.InTx(ctx, func(tx Tx) error {
		return tx.AppendEvent(ctx, &e)
	})
	assert.Error(t, err, "duplicate ids are rejected")

	require.NoError(t, s.InTx(ctx, func(tx Tx) error {
		got, err := tx.GetEvent(ctx, testutil.GameID, e.ID)
		require.NoError(t, err)
		assert.Equal(t, e, got)
		return tx.UpdateEventData(ctx, testutil.GameID, e.ID, models.EventData{Points: 3})
	}))

	events, err := s.LoadEvents(ctx, testutil.GameID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 3, events[0].EventData.Points)

	require.NoError(t, s.InTx(ctx, func(tx Tx) error {
		return tx.DeleteEvent(ctx, testutil.GameID, e.ID)
	}))

	err = s.InTx(ctx, func(tx Tx) error {
		return tx.DeleteEvent(ctx, testutil.GameID, e.ID)
	})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.InTx(ctx, func(tx Tx) error {
		return tx.SetOnCourt(ctx, testutil.GameID, "nobody", true)
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}
