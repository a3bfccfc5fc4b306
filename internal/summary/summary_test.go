package summary

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	b := testutil.NewBuilder()
	events := []models.PlayEvent{
		b.Event(models.Q1, "10:00", "", "", models.EventPeriodStart, models.EventData{}),
		b.Made(models.Q1, "09:00", testutil.Home, "h1", 2),
		b.Made(models.Q1, "08:00", testutil.Away, "a1", 3),
		b.PeriodEnd(models.Q1),
		b.Made(models.Q2, "09:00", testutil.Home, "h2", 3),
		b.Foul(models.Q2, "08:00", testutil.Away, "a2"),
	}

	s := Build(testutil.Roster(), events)

	assert.Equal(t, testutil.GameID, s.GameID)
	assert.Equal(t, 5, s.HomeTeam.Points)
	assert.Equal(t, 3, s.AwayTeam.Points)
	assert.Len(t, s.HomePlayers, 7)
	assert.Len(t, s.AwayPlayers, 7)

	require.Len(t, s.PeriodScores, 2)
	assert.Equal(t, models.PeriodScore{Period: 1, Label: "Q1", HomeScore: 2, AwayScore: 3}, s.PeriodScores[0])
	assert.Equal(t, models.PeriodScore{Period: 2, Label: "Q2", HomeScore: 3, AwayScore: 0}, s.PeriodScores[1])

	assert.Equal(t, map[string]int{"Q1": 2, "Q2": 2}, s.PlaysByPeriod)
	assert.Equal(t, 4, s.TotalPlays)
	assert.Equal(t, 2, s.GameFlow.LeadChanges)
}

func TestBuild_Deterministic(t *testing.T) {
	b := testutil.NewBuilder()
	events := []models.PlayEvent{
		b.Made(models.Q1, "09:00", testutil.Home, "h1", 2),
		b.Sub(models.Q1, "07:00", testutil.Home, "h1", "h7"),
		b.Made(models.Q1, "06:00", testutil.Home, "h7", 3),
	}

	assert.Equal(t, Build(testutil.Roster(), events), Build(testutil.Roster(), events))
}

func TestBuild_Empty(t *testing.T) {
	s := Build(testutil.Roster(), nil)

	assert.Empty(t, s.PeriodScores)
	assert.NotNil(t, s.PeriodScores)
	assert.Equal(t, 0, s.TotalPlays)
	assert.Equal(t, "no significant run", s.GameFlow.LargestScoringRun.Display)
}
