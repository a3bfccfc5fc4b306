package ledger

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/lineup"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/chrono"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// PlayersOnCourt is the number of players each team fields
const PlayersOnCourt = 5

// playerRequired lists event types that must name the acting player
var playerRequired = map[models.EventType]bool{
	models.EventFieldGoalMade:    true,
	models.EventFieldGoalMissed:  true,
	models.EventFreeThrowMade:    true,
	models.EventFreeThrowMissed:  true,
	models.EventOffensiveRebound: true,
	models.EventDefensiveRebound: true,
	models.EventAssist:           true,
	models.EventSteal:            true,
	models.EventBlock:            true,
}

// validateEvent checks an event's shape against the roster
func validateEvent(roster models.Roster, e models.PlayEvent) error {
	t := e.EventType
	if !t.Valid() {
		return &InvalidEventError{EventType: string(t), Reason: "unknown event type"}
	}
	if e.GameID == "" {
		return invalid(t, "missing game id")
	}
	if !e.Period.Valid() {
		return invalid(t, "period %d out of range", e.Period)
	}
	if err := chrono.ValidateClock(e.Period, e.GameTime); err != nil {
		return invalid(t, "%v", err)
	}

	periodMarker := t == models.EventPeriodStart || t == models.EventPeriodEnd
	if !periodMarker && !roster.HasTeam(e.TeamID) {
		return invalid(t, "team %q is not playing this game", e.TeamID)
	}
	if periodMarker && e.TeamID != "" && !roster.HasTeam(e.TeamID) {
		return invalid(t, "team %q is not playing this game", e.TeamID)
	}

	if playerRequired[t] && e.PlayerID == "" {
		return invalid(t, "missing player")
	}
	if t == models.EventTeamRebound && e.PlayerID != "" {
		return invalid(t, "team rebounds are not credited to a player")
	}
	if e.PlayerID != "" {
		if err := requireTeammate(roster, t, e.TeamID, e.PlayerID, "player"); err != nil {
			return err
		}
	}

	return validatePayload(roster, e)
}

// validatePayload checks the event data fields that matter for the event type
func validatePayload(roster models.Roster, e models.PlayEvent) error {
	t, d := e.EventType, e.EventData

	switch t {
	case models.EventFieldGoalMade, models.EventFieldGoalMissed:
		if d.Points != 2 && d.Points != 3 {
			return invalid(t, "points must be 2 or 3, got %d", d.Points)
		}
		if d.AssistedBy != "" {
			if t == models.EventFieldGoalMissed {
				return invalid(t, "missed shots cannot be assisted")
			}
			if d.AssistedBy == e.PlayerID {
				return invalid(t, "shooter cannot assist own shot")
			}
			if err := requireTeammate(roster, t, e.TeamID, d.AssistedBy, "assisted_by"); err != nil {
				return err
			}
		}
	case models.EventFreeThrowMade, models.EventFreeThrowMissed:
		if d.Points != 0 && d.Points != 1 {
			return invalid(t, "free throws are worth 1 point, got %d", d.Points)
		}
	case models.EventFoul:
		if d.DrawnBy != "" {
			opponent := roster.Opponent(e.TeamID)
			if err := requireTeammate(roster, t, opponent, d.DrawnBy, "drawn_by"); err != nil {
				return err
			}
		}
	case models.EventSubstitution:
		if d.PlayerIn == "" || d.PlayerOut == "" {
			return invalid(t, "player_in and player_out are required")
		}
		if d.PlayerIn == d.PlayerOut {
			return invalid(t, "player_in and player_out must differ")
		}
		if err := requireTeammate(roster, t, e.TeamID, d.PlayerIn, "player_in"); err != nil {
			return err
		}
		if err := requireTeammate(roster, t, e.TeamID, d.PlayerOut, "player_out"); err != nil {
			return err
		}
	}

	return nil
}

func requireTeammate(roster models.Roster, t models.EventType, teamID, playerID, field string) error {
	p, ok := roster.Player(playerID)
	if !ok {
		return invalid(t, "%s %q is not on the roster", field, playerID)
	}
	if p.TeamID != teamID {
		return invalid(t, "%s %q does not play for team %q", field, playerID, teamID)
	}
	return nil
}

// replayLineup walks the substitutions in game order starting from the
// starters. It fails at the first point where a team would not have exactly
// five players on court, so the stored flags and every historical view agree.
func replayLineup(roster models.Roster, events []models.PlayEvent) (*lineup.Lineup, error) {
	court := lineup.New(roster)
	for _, teamID := range []string{roster.HomeTeam.ID, roster.AwayTeam.ID} {
		if n := court.Count(teamID); n != PlayersOnCourt {
			return nil, &InvariantViolation{TeamID: teamID, Reason: fmt.Sprintf("team starts with %d players on court", n)}
		}
	}

	for _, e := range chrono.Chronological(events) {
		if e.EventType != models.EventSubstitution {
			continue
		}
		out, in := e.EventData.PlayerOut, e.EventData.PlayerIn
		at := e.Period.Label() + " " + e.GameTime
		if !court.IsOnCourt(out) {
			return nil, &InvariantViolation{TeamID: e.TeamID, Reason: fmt.Sprintf("player %s is not on court at %s", out, at)}
		}
		if court.IsOnCourt(in) {
			return nil, &InvariantViolation{TeamID: e.TeamID, Reason: fmt.Sprintf("player %s is already on court at %s", in, at)}
		}
		court.Apply(e)
		if n := court.Count(e.TeamID); n != PlayersOnCourt {
			return nil, &InvariantViolation{TeamID: e.TeamID, Reason: fmt.Sprintf("team has %d players on court at %s", n, at)}
		}
	}
	return court, nil
}
