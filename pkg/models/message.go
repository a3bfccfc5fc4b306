package models

import "time"

// Message types for WebSocket communication
const (
	MessageTypeFeedUpdate  = "feed_update"
	MessageTypeSnapshot    = "snapshot"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeHeartbeat   = "heartbeat"
	MessageTypeError       = "error"
)

// ClientMessage represents a message from client to server.
// subscribe and unsubscribe carry {"game_id": "..."}.
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// FeedUpdate tells the scorer UI that an event was recorded, undone or patched
type FeedUpdate struct {
	Kind      string     `json:"kind"`
	Event     FeedItem   `json:"event"`
	State     *LiveState `json:"state,omitempty"` // live state after the change
	Timestamp time.Time  `json:"timestamp"`
}

// GameSnapshot brings a client that just subscribed up to date with a game
type GameSnapshot struct {
	State  LiveState  `json:"state"`
	Events []FeedItem `json:"events"` // latest game moment first
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	Games             []string  `json:"games"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization"` // Percentage
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
