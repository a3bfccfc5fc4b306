package lineup

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestNew_SeedsStarters(t *testing.T) {
	roster := testutil.Roster()
	// the live flag is ignored; only starters seed the replay
	roster.HomePlayers[6].IsOnCourt = true

	l := New(roster)

	assert.Equal(t, []string{"h1", "h2", "h3", "h4", "h5"}, l.Players(testutil.Home))
	assert.Equal(t, 5, l.Count(testutil.Away))
	assert.False(t, l.IsOnCourt("h7"))
}

func TestApply_Substitution(t *testing.T) {
	b := testutil.NewBuilder()
	l := New(testutil.Roster())

	out, in, changed := l.Apply(b.Sub(models.Q1, "05:00", testutil.Home, "h2", "h6"))

	assert.True(t, changed)
	assert.Equal(t, "h2", out)
	assert.Equal(t, "h6", in)
	assert.Equal(t, []string{"h1", "h3", "h4", "h5", "h6"}, l.Players(testutil.Home))
	assert.False(t, l.IsOnCourt("h2"))
	assert.True(t, l.IsOnCourt("h6"))
	assert.Equal(t, 5, l.Count(testutil.Home))
}

func TestApply_IgnoresOtherEvents(t *testing.T) {
	b := testutil.NewBuilder()
	l := New(testutil.Roster())

	_, _, changed := l.Apply(b.Made(models.Q1, "09:00", testutil.Home, "h1", 2))

	assert.False(t, changed)
	assert.Equal(t, []string{"h1", "h2", "h3", "h4", "h5"}, l.Players(testutil.Home))
}
