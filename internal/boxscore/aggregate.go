// Package boxscore aggregates a game's events into per-player and per-team
// box scores following FIBA statistician conventions.
package boxscore

import (
	"math"
	"sort"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/lineup"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/chrono"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// Result is the full box score of one game
type Result struct {
	HomeTeam    models.TeamBoxScore     `json:"home_team"`
	AwayTeam    models.TeamBoxScore     `json:"away_team"`
	HomePlayers []models.PlayerBoxScore `json:"home_players"`
	AwayPlayers []models.PlayerBoxScore `json:"away_players"`
	LastPeriod  models.Period           `json:"last_period"`
}

// aggregator holds the accumulators of one Aggregate call
type aggregator struct {
	roster  models.Roster
	players map[string]*models.PlayerBoxScore
	teams   map[string]*models.TeamBoxScore
	court   *lineup.Lineup
	clock   *minutes

	// made shots already credited through a separate assist event
	assistedShots map[string]bool
}

// Aggregate computes the box score. It is a pure function of its inputs:
// event order does not matter and neither argument is modified.
func Aggregate(roster models.Roster, events []models.PlayEvent) Result {
	ordered := chrono.Chronological(events)

	a := &aggregator{
		roster:        roster,
		players:       make(map[string]*models.PlayerBoxScore),
		teams:         make(map[string]*models.TeamBoxScore),
		court:         lineup.New(roster),
		assistedShots: make(map[string]bool),
	}
	a.clock = newMinutes(a.court, roster)

	for _, team := range []models.Team{roster.HomeTeam, roster.AwayTeam} {
		a.teams[team.ID] = &models.TeamBoxScore{
			TeamID:         team.ID,
			Name:           team.Name,
			PointsByPeriod: make(map[string]int),
		}
	}
	for _, p := range roster.Players() {
		a.players[p.ID] = &models.PlayerBoxScore{
			PlayerID:  p.ID,
			TeamID:    p.TeamID,
			Number:    p.Number,
			Name:      p.Name,
			Position:  p.Position,
			IsStarter: p.IsStarter,
			IsCaptain: p.IsCaptain,
		}
	}

	for _, e := range ordered {
		if e.EventType == models.EventAssist && e.EventData.ShotEventID != "" {
			a.assistedShots[e.EventData.ShotEventID] = true
		}
	}

	var last models.Period
	for _, e := range ordered {
		if e.Period.Valid() && e.Period > last {
			last = e.Period
		}
		a.clock.advance(e)
		a.apply(e)
	}
	a.clock.finish(ordered)

	for p := models.Q1; p <= last; p++ {
		for _, t := range a.teams {
			if _, ok := t.PointsByPeriod[p.Label()]; !ok {
				t.PointsByPeriod[p.Label()] = 0
			}
		}
	}

	for id, pl := range a.players {
		pl.SecondsPlayed = a.clock.seconds[id]
		pl.Minutes = chrono.FormatClock(pl.SecondsPlayed)
		finishPlayer(pl)
	}
	for _, t := range a.teams {
		finishTeam(t)
	}

	return Result{
		HomeTeam:    *a.teams[roster.HomeTeam.ID],
		AwayTeam:    *a.teams[roster.AwayTeam.ID],
		HomePlayers: a.teamPlayers(roster.HomeTeam.ID),
		AwayPlayers: a.teamPlayers(roster.AwayTeam.ID),
		LastPeriod:  last,
	}
}

// apply accumulates one event in game order
func (a *aggregator) apply(e models.PlayEvent) {
	team := a.teams[e.TeamID]
	player := a.players[e.PlayerID]
	if player != nil && player.TeamID != e.TeamID {
		player = nil
	}

	switch e.EventType {
	case models.EventFieldGoalMade, models.EventFieldGoalMissed:
		made := e.EventType == models.EventFieldGoalMade
		three := e.IsThreePointAttempt()
		if team != nil {
			shoot(&team.FieldGoals, made)
			if three {
				shoot(&team.ThreePointers, made)
			} else {
				shoot(&team.TwoPointers, made)
			}
		}
		if player != nil {
			shoot(&player.FieldGoals, made)
			if three {
				shoot(&player.ThreePointers, made)
			} else {
				shoot(&player.TwoPointers, made)
			}
		}
		if made && e.EventData.AssistedBy != "" && !a.assistedShots[e.ID] {
			a.creditAssist(e.TeamID, e.EventData.AssistedBy)
		}

	case models.EventFreeThrowMade, models.EventFreeThrowMissed:
		made := e.EventType == models.EventFreeThrowMade
		if team != nil {
			shoot(&team.FreeThrows, made)
		}
		if player != nil {
			shoot(&player.FreeThrows, made)
		}

	case models.EventOffensiveRebound:
		if team != nil {
			team.OffensiveRebounds++
		}
		if player != nil {
			player.OffensiveRebounds++
		}

	case models.EventDefensiveRebound:
		if team != nil {
			team.DefensiveRebounds++
		}
		if player != nil {
			player.DefensiveRebounds++
		}

	case models.EventTeamRebound:
		if team != nil {
			team.TeamRebounds++
		}

	case models.EventAssist:
		a.creditAssist(e.TeamID, e.PlayerID)

	case models.EventSteal:
		if team != nil {
			team.Steals++
		}
		if player != nil {
			player.Steals++
		}

	case models.EventBlock:
		if team != nil {
			team.Blocks++
		}
		if player != nil {
			player.Blocks++
		}

	case models.EventTurnover:
		if team != nil {
			team.Turnovers++
			if e.PlayerID == "" {
				team.TeamTurnovers++
			}
		}
		if player != nil {
			player.Turnovers++
		}

	case models.EventFoul:
		if team != nil {
			team.PersonalFouls++
		}
		if player != nil {
			player.PersonalFouls++
		}
		if drawn := a.players[e.EventData.DrawnBy]; drawn != nil {
			drawn.FoulsDrawn++
		}

	case models.EventTimeout:
		if team != nil {
			team.Timeouts++
		}

	case models.EventSubstitution:
		a.court.Apply(e)
	}

	if pts := e.Points(); pts > 0 {
		a.score(e, team, player, pts)
	}
}

// score credits points and updates plus/minus from the simulated lineup
func (a *aggregator) score(e models.PlayEvent, team *models.TeamBoxScore, player *models.PlayerBoxScore, pts int) {
	if team != nil {
		team.Points += pts
		team.PointsByPeriod[e.Period.Label()] += pts

		if e.EventType == models.EventFieldGoalMade && e.EventData.ShotZone == models.ZonePaint {
			team.PointsInPaint += pts
		}
		if e.EventData.IsFastBreak {
			team.FastBreakPoints += pts
		}
		if e.EventData.IsSecondChance {
			team.SecondChancePoints += pts
		}
		if player != nil && !player.IsStarter {
			team.BenchPoints += pts
		}
	}
	if player != nil {
		player.Points += pts
	}

	if !a.roster.HasTeam(e.TeamID) {
		return
	}
	for _, id := range a.court.Players(e.TeamID) {
		if p := a.players[id]; p != nil {
			p.PlusMinus += pts
		}
	}
	for _, id := range a.court.Players(a.roster.Opponent(e.TeamID)) {
		if p := a.players[id]; p != nil {
			p.PlusMinus -= pts
		}
	}
}

func (a *aggregator) creditAssist(teamID, playerID string) {
	if team := a.teams[teamID]; team != nil {
		team.Assists++
	}
	if p := a.players[playerID]; p != nil && p.TeamID == teamID {
		p.Assists++
	}
}

// teamPlayers returns a team's lines: starters first, then by jersey number
func (a *aggregator) teamPlayers(teamID string) []models.PlayerBoxScore {
	out := []models.PlayerBoxScore{}
	for _, p := range a.players {
		if p.TeamID == teamID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsStarter != out[j].IsStarter {
			return out[i].IsStarter
		}
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

func shoot(line *models.ShootingLine, made bool) {
	line.Attempted++
	if made {
		line.Made++
	}
}

// Percentage returns made/attempted*100 rounded to one decimal, 0 when
// nothing was attempted
func Percentage(made, attempted int) float64 {
	if attempted <= 0 {
		return 0
	}
	return math.Round(float64(made)/float64(attempted)*1000) / 10
}

func finishLine(line *models.ShootingLine) {
	line.Percentage = Percentage(line.Made, line.Attempted)
}

func finishPlayer(p *models.PlayerBoxScore) {
	finishLine(&p.FieldGoals)
	finishLine(&p.TwoPointers)
	finishLine(&p.ThreePointers)
	finishLine(&p.FreeThrows)
	p.TotalRebounds = p.OffensiveRebounds + p.DefensiveRebounds
	p.Efficiency = efficiency(p.Points, p.TotalRebounds, p.Assists, p.Steals, p.Blocks,
		p.FieldGoals, p.FreeThrows, p.Turnovers)
}

func finishTeam(t *models.TeamBoxScore) {
	finishLine(&t.FieldGoals)
	finishLine(&t.TwoPointers)
	finishLine(&t.ThreePointers)
	finishLine(&t.FreeThrows)
	t.TotalRebounds = t.OffensiveRebounds + t.DefensiveRebounds + t.TeamRebounds
	t.Efficiency = efficiency(t.Points, t.TotalRebounds, t.Assists, t.Steals, t.Blocks,
		t.FieldGoals, t.FreeThrows, t.Turnovers)
}

// efficiency is the FIBA EFF rating
func efficiency(pts, reb, ast, stl, blk int, fg, ft models.ShootingLine, to int) int {
	missedFG := fg.Attempted - fg.Made
	missedFT := ft.Attempted - ft.Made
	return pts + reb + ast + stl + blk - missedFG - missedFT - to
}
