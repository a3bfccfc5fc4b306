package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/summary"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() models.GameSummary {
	b := testutil.NewBuilder()
	return summary.Build(testutil.Roster(), []models.PlayEvent{
		b.Event(models.Q1, "09:00", testutil.Home, "h1", models.EventFieldGoalMade, models.EventData{Points: 3, AssistedBy: "h2"}),
		b.Missed(models.Q1, "08:00", testutil.Home, "h1", 2),
		b.FreeThrow(models.Q1, "07:00", testutil.Away, "a1", true),
	})
}

func TestJSONFormatter(t *testing.T) {
	f := NewJSONFormatter()
	s := sampleSummary()

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, s))

	assert.Equal(t, "application/json", f.ContentType())
	assert.Equal(t, "json", f.FileExtension())

	var decoded models.GameSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, s.HomeTeam.Points, decoded.HomeTeam.Points)
	assert.Equal(t, s.GameFlow.LargestScoringRun.Display, decoded.GameFlow.LargestScoringRun.Display)
	assert.Contains(t, buf.String(), "\n  \"game_id\"")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewJSONFormatter())

	f, err := r.Get("json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", f.ContentType())

	_, err = r.Get("pdf")
	assert.Error(t, err)
}

func TestDisplayStats(t *testing.T) {
	s := sampleSummary()
	var h1 models.PlayerBoxScore
	for _, p := range s.HomePlayers {
		if p.PlayerID == "h1" {
			h1 = p
		}
	}

	stats := DisplayStats(h1)
	byLabel := make(map[string]string, len(stats))
	for _, st := range stats {
		byLabel[st.Label] = st.Value
	}

	assert.Equal(t, "3", byLabel["PTS"])
	assert.Equal(t, "1-2", byLabel["FG"])
	assert.Equal(t, "1-1", byLabel["3PT"])
	assert.Equal(t, "0-1", byLabel["2PT"])
}

func TestPlayerStats_HomeFirst(t *testing.T) {
	rows := PlayerStats(sampleSummary())

	require.Len(t, rows, 14)
	assert.Equal(t, testutil.Home, rows[0].TeamID)
	assert.Equal(t, testutil.Away, rows[13].TeamID)
	assert.NotEmpty(t, rows[0].DisplayStats)
}
