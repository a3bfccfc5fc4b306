package client

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Buffer size for outbound messages
	sendBufferSize = 256

	// Time allowed to build a game snapshot for a new subscription
	snapshotWait = 5 * time.Second
)

// Client represents a scorer or viewer WebSocket connection. It receives
// feed updates only for the games it follows.
type Client struct {
	ID               string
	conn             *websocket.Conn
	Send             chan models.ServerMessage // Exported for hub access
	hub              Hub
	games            map[string]bool
	gamesMu          sync.RWMutex
	connectedAt      time.Time
	messagesSent     int64
	messagesReceived int64
	lastMessageAt    time.Time
	mu               sync.Mutex
}

// Hub is the part of the broadcast hub a client talks to
type Hub interface {
	Unregister(client *Client)
	Snapshot(ctx context.Context, gameID string) (models.GameSnapshot, error)
}

// NewClient creates a new client instance
func NewClient(id string, conn *websocket.Conn, hub Hub) *Client {
	return &Client{
		ID:          id,
		conn:        conn,
		Send:        make(chan models.ServerMessage, sendBufferSize),
		hub:         hub,
		games:       make(map[string]bool),
		connectedAt: time.Now(),
	}
}

// ReadPump pumps messages from the WebSocket connection to the client
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg models.ClientMessage
			if err := c.conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[client %s] unexpected close: %v", c.ID, err)
				}
				return
			}

			c.updateReceived()
			c.HandleMessage(ctx, msg)
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				log.Printf("[client %s] write error: %v", c.ID, err)
				return
			}

			c.updateSent()

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend sends a message to the client (non-blocking)
// Returns true if sent, false if buffer is full
func (c *Client) TrySend(msg models.ServerMessage) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// Follow adds a game to the client's subscriptions
func (c *Client) Follow(gameID string) {
	c.gamesMu.Lock()
	defer c.gamesMu.Unlock()
	c.games[gameID] = true
}

// Unfollow drops one game, or every game when gameID is empty
func (c *Client) Unfollow(gameID string) {
	c.gamesMu.Lock()
	defer c.gamesMu.Unlock()
	if gameID == "" {
		c.games = make(map[string]bool)
		return
	}
	delete(c.games, gameID)
}

// Follows reports whether the client subscribed to a game
func (c *Client) Follows(gameID string) bool {
	c.gamesMu.RLock()
	defer c.gamesMu.RUnlock()
	return c.games[gameID]
}

// Games returns the followed game ids, sorted
func (c *Client) Games() []string {
	c.gamesMu.RLock()
	defer c.gamesMu.RUnlock()

	games := make([]string, 0, len(c.games))
	for id := range c.games {
		games = append(games, id)
	}
	sort.Strings(games)
	return games
}

// GetStats returns connection statistics
func (c *Client) GetStats() models.ConnectionStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	bufferUtilization := float64(len(c.Send)) / float64(sendBufferSize) * 100.0

	return models.ConnectionStats{
		ClientID:          c.ID,
		Games:             c.Games(),
		ConnectedAt:       c.connectedAt,
		MessagesSent:      c.messagesSent,
		MessagesReceived:  c.messagesReceived,
		LastMessageAt:     c.lastMessageAt,
		BufferSize:        sendBufferSize,
		BufferUtilization: bufferUtilization,
	}
}

// HandleMessage processes one message from the client
func (c *Client) HandleMessage(ctx context.Context, msg models.ClientMessage) {
	switch msg.Type {
	case models.MessageTypeSubscribe:
		c.handleSubscribe(ctx, gameIDOf(msg.Payload))
	case models.MessageTypeUnsubscribe:
		gameID := gameIDOf(msg.Payload)
		c.Unfollow(gameID)
		log.Printf("[client %s] unsubscribed from %q", c.ID, gameID)
	case models.MessageTypeHeartbeat:
		c.sendHeartbeat()
	default:
		c.sendError("unknown_message_type", "unknown message type: "+msg.Type)
	}
}

// handleSubscribe follows a game and sends its current snapshot. Updates
// racing the snapshot carry their own live state, so order does not matter.
func (c *Client) handleSubscribe(ctx context.Context, gameID string) {
	if gameID == "" {
		c.sendError("invalid_subscription", "game_id is required")
		return
	}

	c.Follow(gameID)
	log.Printf("[client %s] subscribed to game %s", c.ID, gameID)

	ctx, cancel := context.WithTimeout(ctx, snapshotWait)
	defer cancel()

	snapshot, err := c.hub.Snapshot(ctx, gameID)
	if err != nil {
		log.Printf("[client %s] snapshot of game %s failed: %v", c.ID, gameID, err)
		c.sendError("snapshot_unavailable", fmt.Sprintf("no snapshot for game %s", gameID))
		return
	}

	c.TrySend(models.ServerMessage{
		Type:      models.MessageTypeSnapshot,
		Payload:   snapshot,
		Timestamp: time.Now(),
	})
}

// sendHeartbeat sends a heartbeat response
func (c *Client) sendHeartbeat() {
	c.TrySend(models.ServerMessage{
		Type:      models.MessageTypeHeartbeat,
		Payload:   c.GetStats(),
		Timestamp: time.Now(),
	})
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.TrySend(models.ServerMessage{
		Type: models.MessageTypeError,
		Payload: models.ErrorMessage{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now(),
	})
}

func (c *Client) updateSent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesSent++
	c.lastMessageAt = time.Now()
}

func (c *Client) updateReceived() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesReceived++
	c.lastMessageAt = time.Now()
}

func gameIDOf(payload map[string]interface{}) string {
	id, _ := payload["game_id"].(string)
	return id
}
