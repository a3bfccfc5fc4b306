package livestate

import (
	"context"
	"errors"
	"testing"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Snapshot(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.SaveRoster(ctx, testutil.Roster()))

	b := testutil.NewBuilder()
	late := b.Made(models.Q2, "09:00", testutil.Away, "a1", 3)
	early := b.Made(models.Q1, "07:00", testutil.Home, "h2", 2)
	require.NoError(t, s.InTx(ctx, func(tx store.Tx) error {
		for _, e := range []models.PlayEvent{late, early} {
			e := e
			if err := tx.AppendEvent(ctx, &e); err != nil {
				return err
			}
		}
		return nil
	}))

	loader := NewLoader(s)

	snapshot, err := loader.Snapshot(ctx, testutil.GameID)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.State.HomeScore)
	assert.Equal(t, 3, snapshot.State.AwayScore)
	require.Len(t, snapshot.Events, 2)
	assert.Equal(t, late.ID, snapshot.Events[0].ID)
	assert.Equal(t, early.ID, snapshot.Events[1].ID)

	state, err := loader.Load(ctx, testutil.GameID)
	require.NoError(t, err)
	assert.Equal(t, snapshot.State, state)
}

func TestLoader_UnknownGame(t *testing.T) {
	_, err := NewLoader(store.NewMemoryStore()).Snapshot(context.Background(), "nope")

	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
}
