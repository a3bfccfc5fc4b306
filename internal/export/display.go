package export

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// DisplayStats converts a player's box score line to formatted display stats
func DisplayStats(p models.PlayerBoxScore) []models.DisplayStat {
	return []models.DisplayStat{
		{Label: "MIN", Value: p.Minutes, Category: "Game"},
		{Label: "PTS", Value: fmt.Sprintf("%d", p.Points), Category: "Scoring"},
		{Label: "FG", Value: madeAttempted(p.FieldGoals), Category: "Shooting"},
		{Label: "FG%", Value: fmt.Sprintf("%.1f", p.FieldGoals.Percentage), Category: "Shooting"},
		{Label: "2PT", Value: madeAttempted(p.TwoPointers), Category: "Shooting"},
		{Label: "3PT", Value: madeAttempted(p.ThreePointers), Category: "Shooting"},
		{Label: "FT", Value: madeAttempted(p.FreeThrows), Category: "Shooting"},
		{Label: "OREB", Value: fmt.Sprintf("%d", p.OffensiveRebounds), Category: "Rebounding"},
		{Label: "DREB", Value: fmt.Sprintf("%d", p.DefensiveRebounds), Category: "Rebounding"},
		{Label: "REB", Value: fmt.Sprintf("%d", p.TotalRebounds), Category: "Rebounding"},
		{Label: "AST", Value: fmt.Sprintf("%d", p.Assists), Category: "Playmaking"},
		{Label: "STL", Value: fmt.Sprintf("%d", p.Steals), Category: "Defense"},
		{Label: "BLK", Value: fmt.Sprintf("%d", p.Blocks), Category: "Defense"},
		{Label: "TO", Value: fmt.Sprintf("%d", p.Turnovers), Category: "Ball Control"},
		{Label: "PF", Value: fmt.Sprintf("%d", p.PersonalFouls), Category: "Fouls"},
		{Label: "FD", Value: fmt.Sprintf("%d", p.FoulsDrawn), Category: "Fouls"},
		{Label: "+/-", Value: fmt.Sprintf("%+d", p.PlusMinus), Category: "Impact"},
		{Label: "EFF", Value: fmt.Sprintf("%d", p.Efficiency), Category: "Impact"},
	}
}

// PlayerStats renders every player of a summary, home team first
func PlayerStats(s models.GameSummary) []models.PlayerStat {
	out := make([]models.PlayerStat, 0, len(s.HomePlayers)+len(s.AwayPlayers))
	for _, players := range [][]models.PlayerBoxScore{s.HomePlayers, s.AwayPlayers} {
		for _, p := range players {
			out = append(out, models.PlayerStat{
				PlayerName:   p.Name,
				Number:       p.Number,
				TeamID:       p.TeamID,
				Position:     p.Position,
				DisplayStats: DisplayStats(p),
			})
		}
	}
	return out
}

func madeAttempted(l models.ShootingLine) string {
	return fmt.Sprintf("%d-%d", l.Made, l.Attempted)
}
