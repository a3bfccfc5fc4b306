package models

// ShootingLine holds made/attempted counts and the derived percentage
type ShootingLine struct {
	Made       int     `json:"made"`
	Attempted  int     `json:"attempted"`
	Percentage float64 `json:"percentage"`
}

// PlayerBoxScore is one player's line in the box score
type PlayerBoxScore struct {
	PlayerID  string `json:"player_id"`
	TeamID    string `json:"team_id"`
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Position  string `json:"position,omitempty"`
	IsStarter bool   `json:"is_starter"`
	IsCaptain bool   `json:"is_captain"`

	SecondsPlayed int    `json:"seconds_played"`
	Minutes       string `json:"minutes"` // "mm:ss"

	Points        int          `json:"points"`
	FieldGoals    ShootingLine `json:"field_goals"`
	TwoPointers   ShootingLine `json:"two_pointers"`
	ThreePointers ShootingLine `json:"three_pointers"`
	FreeThrows    ShootingLine `json:"free_throws"`

	OffensiveRebounds int `json:"offensive_rebounds"`
	DefensiveRebounds int `json:"defensive_rebounds"`
	TotalRebounds     int `json:"total_rebounds"`

	Assists       int `json:"assists"`
	Steals        int `json:"steals"`
	Blocks        int `json:"blocks"`
	Turnovers     int `json:"turnovers"`
	PersonalFouls int `json:"personal_fouls"`
	FoulsDrawn    int `json:"fouls_drawn"`
	PlusMinus     int `json:"plus_minus"`
	Efficiency    int `json:"efficiency"`
}

// TeamBoxScore is the team totals line plus FIBA Appendix C extras
type TeamBoxScore struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`

	Points        int          `json:"points"`
	FieldGoals    ShootingLine `json:"field_goals"`
	TwoPointers   ShootingLine `json:"two_pointers"`
	ThreePointers ShootingLine `json:"three_pointers"`
	FreeThrows    ShootingLine `json:"free_throws"`

	OffensiveRebounds int `json:"offensive_rebounds"`
	DefensiveRebounds int `json:"defensive_rebounds"`
	TeamRebounds      int `json:"team_rebounds"`
	TotalRebounds     int `json:"total_rebounds"`

	Assists       int `json:"assists"`
	Steals        int `json:"steals"`
	Blocks        int `json:"blocks"`
	Turnovers     int `json:"turnovers"`
	TeamTurnovers int `json:"team_turnovers"`
	PersonalFouls int `json:"personal_fouls"`
	Timeouts      int `json:"timeouts"`
	Efficiency    int `json:"efficiency"`

	PointsInPaint      int `json:"points_in_paint"`
	FastBreakPoints    int `json:"fast_break_points"`
	SecondChancePoints int `json:"second_chance_points"`
	BenchPoints        int `json:"bench_points"`

	PointsByPeriod map[string]int `json:"points_by_period"`
}

// PeriodScore represents scoring by period
type PeriodScore struct {
	Period    int    `json:"period"`
	Label     string `json:"label"` // "Q1", "OT1"
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}
