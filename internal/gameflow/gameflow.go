// Package gameflow walks a game's scoring in chronological order to find
// lead changes, ties, largest leads and the largest scoring run.
package gameflow

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/chrono"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// SignificantRunThreshold is the run size a streak must exceed to be reported
const SignificantRunThreshold = 5

const (
	neverLed = "Never led"
	noRun    = "no significant run"
)

type run struct {
	teamID string
	points int
	start  models.PlayEvent
	end    models.PlayEvent
}

// Analyze computes flow stats for two teams. Any events may be passed;
// only scoring events of the two teams are considered, in game order.
func Analyze(home, away models.TeamBoxScore, events []models.PlayEvent) models.GameFlowStats {
	stats := models.GameFlowStats{
		HomeTeamLargestLead: models.LargestLead{TeamID: home.TeamID, Display: neverLed},
		AwayTeamLargestLead: models.LargestLead{TeamID: away.TeamID, Display: neverLed},
		LargestScoringRun:   models.ScoringRun{Display: noRun},
	}

	var homeScore, awayScore, leader int
	var current, best run

	for _, e := range chrono.Chronological(events) {
		pts := e.Points()
		if pts == 0 {
			continue
		}

		switch e.TeamID {
		case home.TeamID:
			homeScore += pts
		case away.TeamID:
			awayScore += pts
		default:
			continue
		}

		margin := homeScore - awayScore
		prevMargin := margin
		if e.TeamID == home.TeamID {
			prevMargin -= pts
		} else {
			prevMargin += pts
		}

		if margin == 0 && prevMargin != 0 {
			stats.ScoreTiedCount++
		}

		if s := sign(margin); s != 0 {
			if leader != 0 && s != leader {
				stats.LeadChanges++
			}
			leader = s
		}

		if margin > stats.HomeTeamLargestLead.Points {
			stats.HomeTeamLargestLead = lead(home.TeamID, margin, e)
		}
		if -margin > stats.AwayTeamLargestLead.Points {
			stats.AwayTeamLargestLead = lead(away.TeamID, -margin, e)
		}

		if current.teamID == e.TeamID {
			current.points += pts
			current.end = e
		} else {
			current = run{teamID: e.TeamID, points: pts, start: e, end: e}
		}
		if current.points > SignificantRunThreshold && current.points > best.points {
			best = current
		}
	}

	if best.points > 0 {
		name := home.Name
		if best.teamID == away.TeamID {
			name = away.Name
		}
		if name == "" {
			name = best.teamID
		}
		stats.LargestScoringRun = models.ScoringRun{
			TeamID:      best.teamID,
			Points:      best.points,
			StartPeriod: best.start.Period,
			StartTime:   best.start.GameTime,
			EndPeriod:   best.end.Period,
			EndTime:     best.end.GameTime,
			Display: fmt.Sprintf("%d-0 run by %s (%s %s - %s %s)", best.points, name,
				best.start.Period.Label(), best.start.GameTime, best.end.Period.Label(), best.end.GameTime),
		}
	}

	return stats
}

func lead(teamID string, points int, e models.PlayEvent) models.LargestLead {
	return models.LargestLead{
		TeamID:   teamID,
		Points:   points,
		Period:   e.Period,
		GameTime: e.GameTime,
		Display:  fmt.Sprintf("%d (%s %s)", points, e.Period.Label(), e.GameTime),
	}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
