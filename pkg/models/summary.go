package models

// GameSummary is the self-contained report handed to export formatters
type GameSummary struct {
	GameID        string           `json:"game_id"`
	HomeTeam      TeamBoxScore     `json:"home_team"`
	AwayTeam      TeamBoxScore     `json:"away_team"`
	HomePlayers   []PlayerBoxScore `json:"home_players"`
	AwayPlayers   []PlayerBoxScore `json:"away_players"`
	GameFlow      GameFlowStats    `json:"game_flow"`
	PeriodScores  []PeriodScore    `json:"period_scores"`
	PlaysByPeriod map[string]int   `json:"plays_by_period"`
	TotalPlays    int              `json:"total_plays"`
}
