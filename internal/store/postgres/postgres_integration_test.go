// +build integration

package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	s, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	_, err = s.db.ExecContext(ctx, `DELETE FROM games WHERE game_id = $1`, testutil.GameID)
	require.NoError(t, err)
	require.NoError(t, s.SaveRoster(ctx, testutil.Roster()))
	return s
}

func TestStore_RosterRoundTrip(t *testing.T) {
	s := getTestStore(t)

	r, err := s.LoadRoster(context.Background(), testutil.GameID)
	require.NoError(t, err)

	assert.Equal(t, testutil.Roster(), r)
}

func TestStore_EventsInTx(t *testing.T) {
	s := getTestStore(t)
	ctx := context.Background()
	b := testutil.NewBuilder()
	shot := b.Event(models.Q1, "09:00", testutil.Home, "h1", models.EventFieldGoalMade,
		models.EventData{Points: 3, AssistedBy: "h2", ShotZone: "corner_three"})
	marker := b.PeriodEnd(models.Q1)

	require.NoError(t, s.InTx(ctx, func(tx store.Tx) error {
		if err := tx.AppendEvent(ctx, &shot); err != nil {
			return err
		}
		if err := tx.AppendEvent(ctx, &marker); err != nil {
			return err
		}
		return tx.SetOnCourt(ctx, testutil.GameID, "h1", false)
	}))
	assert.Greater(t, marker.Sequence, shot.Sequence)

	events, err := s.LoadEvents(ctx, testutil.GameID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, shot.EventData, events[0].EventData)
	assert.True(t, shot.WallClock.Equal(events[0].WallClock))
	assert.Equal(t, "", events[1].TeamID)

	r, err := s.LoadRoster(ctx, testutil.GameID)
	require.NoError(t, err)
	assert.False(t, r.HomePlayers[0].IsOnCourt)
}

func TestStore_RollbackOnError(t *testing.T) {
	s := getTestStore(t)
	ctx := context.Background()
	b := testutil.NewBuilder()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.LoadRoster(ctx, testutil.GameID); err != nil {
			return err
		}
		e := b.Foul(models.Q1, "09:00", testutil.Home, "h1")
		if err := tx.AppendEvent(ctx, &e); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, err)

	events, err := s.LoadEvents(ctx, testutil.GameID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStore_NotFound(t *testing.T) {
	s := getTestStore(t)
	ctx := context.Background()

	_, err := s.LoadRoster(ctx, "missing-game")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	err = s.InTx(ctx, func(tx store.Tx) error {
		return tx.DeleteEvent(ctx, testutil.GameID, "missing")
	})
	assert.True(t, errors.Is(err, store.ErrNotFound))
}
