package models

// OnCourt holds the player ids on court for both teams
type OnCourt struct {
	Home []string `json:"home"`
	Away []string `json:"away"`
}

// LiveState is the real-time view of a game in progress
type LiveState struct {
	GameID    string `json:"game_id"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Period    Period `json:"period"`
	GameTime  string `json:"game_time"`

	OnCourt    OnCourt `json:"on_court"`
	Possession string  `json:"possession,omitempty"` // team id

	FoulsByPlayer     map[string]int            `json:"fouls_by_player"`
	TeamFoulsByPeriod map[string]map[string]int `json:"team_fouls_by_period"` // team id -> period label -> fouls
	HomeInBonus       bool                      `json:"home_in_bonus"`
	AwayInBonus       bool                      `json:"away_in_bonus"`
	FouledOut         []string                  `json:"fouled_out"`
	TimeoutsByTeam    map[string]int            `json:"timeouts_by_team"`

	LastUndoableEvent *PlayEvent `json:"last_undoable_event,omitempty"`
}
