package models

// Player is a rostered player for one game
type Player struct {
	ID        string `json:"id"`
	TeamID    string `json:"team_id"`
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Position  string `json:"position,omitempty"`
	IsCaptain bool   `json:"is_captain"`
	IsStarter bool   `json:"is_starter"`
	IsOnCourt bool   `json:"is_on_court"`
}

// Team identifies one side of a game
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Abbr string `json:"abbr,omitempty"`
}

// Roster is the snapshot of both teams for one game
type Roster struct {
	GameID      string   `json:"game_id"`
	HomeTeam    Team     `json:"home_team"`
	AwayTeam    Team     `json:"away_team"`
	HomePlayers []Player `json:"home_players"`
	AwayPlayers []Player `json:"away_players"`
}

// Players returns home then away players
func (r Roster) Players() []Player {
	all := make([]Player, 0, len(r.HomePlayers)+len(r.AwayPlayers))
	all = append(all, r.HomePlayers...)
	all = append(all, r.AwayPlayers...)
	return all
}

// Player looks a player up by id
func (r Roster) Player(id string) (Player, bool) {
	for _, p := range r.HomePlayers {
		if p.ID == id {
			return p, true
		}
	}
	for _, p := range r.AwayPlayers {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// TeamPlayers returns the players of the given team id
func (r Roster) TeamPlayers(teamID string) []Player {
	switch teamID {
	case r.HomeTeam.ID:
		return r.HomePlayers
	case r.AwayTeam.ID:
		return r.AwayPlayers
	default:
		return nil
	}
}

// HasTeam reports whether teamID plays in this game
func (r Roster) HasTeam(teamID string) bool {
	return teamID != "" && (teamID == r.HomeTeam.ID || teamID == r.AwayTeam.ID)
}

// Opponent returns the other team's id
func (r Roster) Opponent(teamID string) string {
	switch teamID {
	case r.HomeTeam.ID:
		return r.AwayTeam.ID
	case r.AwayTeam.ID:
		return r.HomeTeam.ID
	default:
		return ""
	}
}

// OnCourtCount counts players flagged on court for a team
func (r Roster) OnCourtCount(teamID string) int {
	n := 0
	for _, p := range r.TeamPlayers(teamID) {
		if p.IsOnCourt {
			n++
		}
	}
	return n
}
