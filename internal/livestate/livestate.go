// Package livestate folds a game's events into the real-time scorer view.
package livestate

import (
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/lineup"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/chrono"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// FIBA foul limits
const (
	BonusTeamFouls  = 4
	FoulOutPersonal = 5
)

// Compute builds the live view from a roster snapshot and the full event list.
// Input order is irrelevant; neither argument is modified.
func Compute(roster models.Roster, events []models.PlayEvent) models.LiveState {
	home, away := roster.HomeTeam.ID, roster.AwayTeam.ID

	state := models.LiveState{
		GameID:            roster.GameID,
		Period:            models.Q1,
		GameTime:          chrono.FormatClock(chrono.QuarterSeconds),
		FoulsByPlayer:     make(map[string]int),
		TeamFoulsByPeriod: map[string]map[string]int{home: {}, away: {}},
		FouledOut:         []string{},
		TimeoutsByTeam:    map[string]int{home: 0, away: 0},
	}

	ordered := chrono.Chronological(events)
	court := lineup.New(roster)
	foulPeriodCount := map[string]map[models.Period]int{home: {}, away: {}}

	for _, e := range ordered {
		court.Apply(e)

		if e.Period.Valid() && e.Period >= state.Period {
			state.Period = e.Period
			state.GameTime = e.GameTime
		}

		switch e.TeamID {
		case home:
			state.HomeScore += e.Points()
		case away:
			state.AwayScore += e.Points()
		}

		switch e.EventType {
		case models.EventFoul:
			if e.PlayerID != "" {
				state.FoulsByPlayer[e.PlayerID]++
			}
			if byPeriod, ok := state.TeamFoulsByPeriod[e.TeamID]; ok {
				byPeriod[e.Period.Label()]++
				foulPeriodCount[e.TeamID][e.Period.FoulPeriod()]++
			}
		case models.EventTimeout:
			if _, ok := state.TimeoutsByTeam[e.TeamID]; ok {
				state.TimeoutsByTeam[e.TeamID]++
			}
		}

		if next, ok := possessionAfter(roster, e); ok {
			state.Possession = next
		}
	}

	current := state.Period.FoulPeriod()
	state.HomeInBonus = foulPeriodCount[home][current] >= BonusTeamFouls
	state.AwayInBonus = foulPeriodCount[away][current] >= BonusTeamFouls

	for _, p := range roster.Players() {
		if state.FoulsByPlayer[p.ID] >= FoulOutPersonal {
			state.FouledOut = append(state.FouledOut, p.ID)
		}
	}

	state.OnCourt = models.OnCourt{
		Home: court.Players(home),
		Away: court.Players(away),
	}

	if last, ok := chrono.LastCreated(events); ok {
		state.LastUndoableEvent = &last
	}

	return state
}

// possessionAfter returns the team holding the ball after e, if e decides it
func possessionAfter(roster models.Roster, e models.PlayEvent) (string, bool) {
	if !roster.HasTeam(e.TeamID) {
		return "", false
	}

	switch e.EventType {
	case models.EventFieldGoalMade, models.EventFreeThrowMade, models.EventTurnover:
		return roster.Opponent(e.TeamID), true
	case models.EventOffensiveRebound, models.EventDefensiveRebound,
		models.EventTeamRebound, models.EventSteal:
		return e.TeamID, true
	default:
		return "", false
	}
}
