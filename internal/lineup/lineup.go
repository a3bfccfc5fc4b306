// Package lineup replays on-court membership in game order. Historical
// views read the simulated set, never the live roster flag.
package lineup

import (
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// Lineup is a simulated on-court set for both teams
type Lineup struct {
	order   map[string][]string        // team id -> roster order
	onCourt map[string]map[string]bool // team id -> player ids on court
	teamOf  map[string]string          // player id -> team id
}

// New seeds a lineup with each team's flagged starters
func New(roster models.Roster) *Lineup {
	l := &Lineup{
		order:   make(map[string][]string),
		onCourt: make(map[string]map[string]bool),
		teamOf:  make(map[string]string),
	}

	for _, team := range []models.Team{roster.HomeTeam, roster.AwayTeam} {
		l.onCourt[team.ID] = make(map[string]bool)
		for _, p := range roster.TeamPlayers(team.ID) {
			l.order[team.ID] = append(l.order[team.ID], p.ID)
			l.teamOf[p.ID] = team.ID
			if p.IsStarter {
				l.onCourt[team.ID][p.ID] = true
			}
		}
	}

	return l
}

// Apply advances the lineup past one event. Only substitutions change it.
// It returns the players that left and entered the court.
func (l *Lineup) Apply(e models.PlayEvent) (out, in string, changed bool) {
	if e.EventType != models.EventSubstitution {
		return "", "", false
	}

	teamID := e.TeamID
	set, ok := l.onCourt[teamID]
	if !ok {
		set = make(map[string]bool)
		l.onCourt[teamID] = set
	}

	out, in = e.EventData.PlayerOut, e.EventData.PlayerIn
	if out != "" {
		delete(set, out)
	}
	if in != "" {
		set[in] = true
		if _, known := l.teamOf[in]; !known {
			l.teamOf[in] = teamID
			l.order[teamID] = append(l.order[teamID], in)
		}
	}

	return out, in, true
}

// IsOnCourt reports whether a player is currently on court
func (l *Lineup) IsOnCourt(playerID string) bool {
	teamID, ok := l.teamOf[playerID]
	if !ok {
		return false
	}
	return l.onCourt[teamID][playerID]
}

// Players returns the team's on-court player ids in roster order
func (l *Lineup) Players(teamID string) []string {
	players := []string{}
	for _, id := range l.order[teamID] {
		if l.onCourt[teamID][id] {
			players = append(players, id)
		}
	}
	return players
}

// Count returns how many players a team has on court
func (l *Lineup) Count(teamID string) int {
	return len(l.onCourt[teamID])
}
