// Package testutil builds rosters and play events for tests.
package testutil

import (
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

const (
	GameID = "game-1"
	Home   = "home"
	Away   = "away"
)

// Roster returns a game with seven players per team. Players 1-5 of each
// team start and are flagged on court.
func Roster() models.Roster {
	r := models.Roster{
		GameID:   GameID,
		HomeTeam: models.Team{ID: Home, Name: "Home Team", Abbr: "HOM"},
		AwayTeam: models.Team{ID: Away, Name: "Away Team", Abbr: "AWY"},
	}
	for n := 1; n <= 7; n++ {
		r.HomePlayers = append(r.HomePlayers, player(Home, "h", n))
		r.AwayPlayers = append(r.AwayPlayers, player(Away, "a", n))
	}
	r.HomePlayers[0].IsCaptain = true
	r.AwayPlayers[0].IsCaptain = true
	return r
}

func player(teamID, prefix string, n int) models.Player {
	starter := n <= 5
	return models.Player{
		ID:        fmt.Sprintf("%s%d", prefix, n),
		TeamID:    teamID,
		Number:    n,
		Name:      fmt.Sprintf("%s Player %d", teamID, n),
		Position:  "G",
		IsStarter: starter,
		IsOnCourt: starter,
	}
}

// Builder creates events with increasing creation order
type Builder struct {
	n    int
	base time.Time
}

// NewBuilder creates a builder
func NewBuilder() *Builder {
	return &Builder{base: time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)}
}

// Event creates an event with id "e<n>"
func (b *Builder) Event(period models.Period, clock, teamID, playerID string, t models.EventType, data models.EventData) models.PlayEvent {
	b.n++
	return models.PlayEvent{
		ID:        fmt.Sprintf("e%d", b.n),
		GameID:    GameID,
		Period:    period,
		GameTime:  clock,
		WallClock: b.base.Add(time.Duration(b.n) * time.Second),
		Sequence:  int64(b.n),
		TeamID:    teamID,
		PlayerID:  playerID,
		EventType: t,
		EventData: data,
	}
}

// Made creates a made field goal worth pts
func (b *Builder) Made(period models.Period, clock, teamID, playerID string, pts int) models.PlayEvent {
	return b.Event(period, clock, teamID, playerID, models.EventFieldGoalMade, models.EventData{Points: pts})
}

// Missed creates a missed field goal attempt worth pts
func (b *Builder) Missed(period models.Period, clock, teamID, playerID string, pts int) models.PlayEvent {
	return b.Event(period, clock, teamID, playerID, models.EventFieldGoalMissed, models.EventData{Points: pts})
}

// FreeThrow creates a made or missed free throw
func (b *Builder) FreeThrow(period models.Period, clock, teamID, playerID string, made bool) models.PlayEvent {
	if made {
		return b.Event(period, clock, teamID, playerID, models.EventFreeThrowMade, models.EventData{Points: 1})
	}
	return b.Event(period, clock, teamID, playerID, models.EventFreeThrowMissed, models.EventData{})
}

// Foul creates a personal foul
func (b *Builder) Foul(period models.Period, clock, teamID, playerID string) models.PlayEvent {
	return b.Event(period, clock, teamID, playerID, models.EventFoul, models.EventData{FoulType: "personal"})
}

// Sub creates a substitution
func (b *Builder) Sub(period models.Period, clock, teamID, out, in string) models.PlayEvent {
	return b.Event(period, clock, teamID, "", models.EventSubstitution, models.EventData{PlayerOut: out, PlayerIn: in})
}

// PeriodEnd creates a period end marker at 00:00
func (b *Builder) PeriodEnd(period models.Period) models.PlayEvent {
	return b.Event(period, "00:00", "", "", models.EventPeriodEnd, models.EventData{})
}
