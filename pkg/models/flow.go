package models

// LargestLead is the biggest margin a team held and when it first reached it
type LargestLead struct {
	TeamID   string `json:"team_id"`
	Points   int    `json:"points"`
	Period   Period `json:"period,omitempty"`
	GameTime string `json:"game_time,omitempty"`
	Display  string `json:"display"` // "Never led" when Points is 0
}

// ScoringRun is a streak of unanswered points by one team
type ScoringRun struct {
	TeamID      string `json:"team_id,omitempty"`
	Points      int    `json:"points"`
	StartPeriod Period `json:"start_period,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndPeriod   Period `json:"end_period,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	Display     string `json:"display"` // "no significant run" when Points is 0
}

// GameFlowStats summarises how the score developed over the game
type GameFlowStats struct {
	LeadChanges         int         `json:"lead_changes"`
	ScoreTiedCount      int         `json:"score_tied_count"`
	HomeTeamLargestLead LargestLead `json:"home_team_largest_lead"`
	AwayTeamLargestLead LargestLead `json:"away_team_largest_lead"`
	LargestScoringRun   ScoringRun  `json:"largest_scoring_run"`
}
