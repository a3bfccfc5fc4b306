// Package summary assembles the game report handed to export formatters.
package summary

import (
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/boxscore"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/gameflow"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// Build derives the full GameSummary from a roster snapshot and events.
// The same inputs always produce the same summary.
func Build(roster models.Roster, events []models.PlayEvent) models.GameSummary {
	box := boxscore.Aggregate(roster, events)
	flow := gameflow.Analyze(box.HomeTeam, box.AwayTeam, events)

	s := models.GameSummary{
		GameID:        roster.GameID,
		HomeTeam:      box.HomeTeam,
		AwayTeam:      box.AwayTeam,
		HomePlayers:   box.HomePlayers,
		AwayPlayers:   box.AwayPlayers,
		GameFlow:      flow,
		PeriodScores:  []models.PeriodScore{},
		PlaysByPeriod: make(map[string]int),
	}

	for p := models.Q1; p <= box.LastPeriod; p++ {
		s.PeriodScores = append(s.PeriodScores, models.PeriodScore{
			Period:    int(p),
			Label:     p.Label(),
			HomeScore: box.HomeTeam.PointsByPeriod[p.Label()],
			AwayScore: box.AwayTeam.PointsByPeriod[p.Label()],
		})
	}

	for _, e := range events {
		if !e.EventType.IsPlay() || !e.Period.Valid() {
			continue
		}
		s.PlaysByPeriod[e.Period.Label()]++
		s.TotalPlays++
	}

	return s
}
