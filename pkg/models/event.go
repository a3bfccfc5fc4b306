package models

import (
	"fmt"
	"time"
)

// EventType is the closed set of play events a scorer can record
type EventType string

const (
	EventFieldGoalMade    EventType = "field_goal_made"
	EventFieldGoalMissed  EventType = "field_goal_missed"
	EventFreeThrowMade    EventType = "free_throw_made"
	EventFreeThrowMissed  EventType = "free_throw_missed"
	EventOffensiveRebound EventType = "offensive_rebound"
	EventDefensiveRebound EventType = "defensive_rebound"
	EventTeamRebound      EventType = "team_rebound"
	EventAssist           EventType = "assist"
	EventTurnover         EventType = "turnover"
	EventSteal            EventType = "steal"
	EventBlock            EventType = "block"
	EventFoul             EventType = "foul"
	EventSubstitution     EventType = "substitution"
	EventTimeout          EventType = "timeout"
	EventPeriodStart      EventType = "period_start"
	EventPeriodEnd        EventType = "period_end"
)

var knownEventTypes = map[EventType]bool{
	EventFieldGoalMade:    true,
	EventFieldGoalMissed:  true,
	EventFreeThrowMade:    true,
	EventFreeThrowMissed:  true,
	EventOffensiveRebound: true,
	EventDefensiveRebound: true,
	EventTeamRebound:      true,
	EventAssist:           true,
	EventTurnover:         true,
	EventSteal:            true,
	EventBlock:            true,
	EventFoul:             true,
	EventSubstitution:     true,
	EventTimeout:          true,
	EventPeriodStart:      true,
	EventPeriodEnd:        true,
}

// Valid reports whether t belongs to the closed event type set
func (t EventType) Valid() bool {
	return knownEventTypes[t]
}

func (t EventType) String() string {
	return string(t)
}

// IsScoring reports whether the event type can change the score
func (t EventType) IsScoring() bool {
	return t == EventFieldGoalMade || t == EventFreeThrowMade
}

// IsPlay reports whether the event counts as a play in the summary.
// Period markers are bookkeeping, not plays.
func (t EventType) IsPlay() bool {
	return t != EventPeriodStart && t != EventPeriodEnd
}

// Shot zones
const (
	ZonePaint     = "paint"
	ZoneMidRange  = "mid_range"
	ZoneCorner3   = "corner_three"
	ZoneAboveArc3 = "above_break_three"
)

// EventData is the payload of a PlayEvent. Which fields are meaningful
// depends on the event type.
type EventData struct {
	// Shots
	Points         int      `json:"points,omitempty"`
	ShotType       string   `json:"shot_type,omitempty"` // "jump_shot", "layup", "dunk", ...
	ShotZone       string   `json:"shot_zone,omitempty"`
	ShotX          *float64 `json:"shot_x,omitempty"`
	ShotY          *float64 `json:"shot_y,omitempty"`
	IsFastBreak    bool     `json:"is_fast_break,omitempty"`
	IsSecondChance bool     `json:"is_second_chance,omitempty"`
	AssistedBy     string   `json:"assisted_by,omitempty"`

	// Assists point back at the made shot they belong to
	ShotEventID string `json:"shot_event_id,omitempty"`

	TurnoverType string `json:"turnover_type,omitempty"`

	// Fouls
	FoulType string `json:"foul_type,omitempty"` // "personal", "technical", "unsportsmanlike", ...
	DrawnBy  string `json:"drawn_by,omitempty"`

	// Substitutions
	PlayerIn  string `json:"player_in,omitempty"`
	PlayerOut string `json:"player_out,omitempty"`

	TimeoutType string `json:"timeout_type,omitempty"`
}

// PlayEvent is one recorded play of a game
type PlayEvent struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	Period    Period    `json:"period"`
	GameTime  string    `json:"game_time"` // "mm:ss" remaining in the period
	WallClock time.Time `json:"wall_clock_timestamp"`
	Sequence  int64     `json:"sequence"` // assigned by the store on append
	TeamID    string    `json:"team_id"`
	PlayerID  string    `json:"player_id,omitempty"`
	EventType EventType `json:"event_type"`
	EventData EventData `json:"event_data"`
}

// Points returns the points the event adds to its team's score
func (e PlayEvent) Points() int {
	switch e.EventType {
	case EventFieldGoalMade:
		if p := e.EventData.Points; p == 2 || p == 3 {
			return p
		}
		return 0
	case EventFreeThrowMade:
		return 1
	default:
		return 0
	}
}

// IsThreePointAttempt reports whether a field goal event was a three
func (e PlayEvent) IsThreePointAttempt() bool {
	return (e.EventType == EventFieldGoalMade || e.EventType == EventFieldGoalMissed) &&
		e.EventData.Points == 3
}

// String renders the event for log lines
func (e PlayEvent) String() string {
	return fmt.Sprintf("%s %s %s team=%s player=%s", e.Period.Label(), e.GameTime, e.EventType, e.TeamID, e.PlayerID)
}

// FeedItem is the projection of an event handed to the UI layer
type FeedItem struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	EventType EventType `json:"event_type"`
	TeamID    string    `json:"team_id"`
	PlayerID  string    `json:"player_id,omitempty"`
	EventData EventData `json:"event_data"`
}

// Feed projects an event to its UI feed item
func (e PlayEvent) Feed() FeedItem {
	return FeedItem{
		ID:        e.ID,
		GameID:    e.GameID,
		EventType: e.EventType,
		TeamID:    e.TeamID,
		PlayerID:  e.PlayerID,
		EventData: e.EventData,
	}
}
