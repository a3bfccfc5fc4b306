package models

// PlayerStat is a player's formatted line for UI and export rendering
type PlayerStat struct {
	PlayerName   string        `json:"player_name"`
	Number       int           `json:"number"`
	TeamID       string        `json:"team_id"`
	Position     string        `json:"position,omitempty"`
	DisplayStats []DisplayStat `json:"display_stats"`
}

// DisplayStat provides formatted stat display info
// Frontend uses this to render stats without knowing basketball semantics
type DisplayStat struct {
	Label    string `json:"label"`    // "PTS", "REB", "+/-"
	Value    string `json:"value"`    // "28", "10/18", "+7"
	Category string `json:"category"` // "Scoring", "Rebounding"
}
