package hub

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/client"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/ledger"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
)

// StateSource loads the live views handed to clients
type StateSource interface {
	Load(ctx context.Context, gameID string) (models.LiveState, error)
	Snapshot(ctx context.Context, gameID string) (models.GameSnapshot, error)
}

// ErrNoStateSource is returned for snapshots of a hub built without a source
var ErrNoStateSource = errors.New("hub has no state source")

// Hub maintains the set of active clients and fans ledger changes out to
// the clients following the changed game
type Hub struct {
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	states StateSource

	broadcast  chan models.FeedUpdate
	register   chan *client.Client
	unregister chan *client.Client

	totalConnections int64
	totalMessages    int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub instance. states may be nil, in which case
// updates carry no live state and subscriptions get no snapshot.
func NewHub(states StateSource) *Hub {
	return &Hub{
		clients:    make(map[*client.Client]bool),
		states:     states,
		broadcast:  make(chan models.FeedUpdate, 1000),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	log.Println("[hub] started")

	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case update := <-h.broadcast:
			h.broadcastUpdate(update)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *client.Client) {
	h.register <- c
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	h.unregister <- c
}

// OnChange implements ledger.Listener. The game's live state after the
// change is attached when anyone follows the game.
func (h *Hub) OnChange(ctx context.Context, change ledger.Change) {
	update := change.Update(time.Now().UTC())
	gameID := change.Event.GameID

	if h.states != nil && h.followed(gameID) {
		state, err := h.states.Load(ctx, gameID)
		if err != nil {
			log.Printf("[hub] Error loading state of game %s: %v", gameID, err)
		} else {
			update.State = &state
		}
	}

	h.Broadcast(update)
}

// Snapshot implements client.Hub
func (h *Hub) Snapshot(ctx context.Context, gameID string) (models.GameSnapshot, error) {
	if h.states == nil {
		return models.GameSnapshot{}, ErrNoStateSource
	}
	return h.states.Snapshot(ctx, gameID)
}

// Broadcast queues a feed update for the clients following its game
func (h *Hub) Broadcast(update models.FeedUpdate) {
	select {
	case h.broadcast <- update:
	default:
		log.Println("[hub] broadcast buffer full, dropping update")
	}
}

func (h *Hub) registerClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.incrementTotalConnections()

	log.Printf("[hub] client %s connected (total: %d)", c.ID, len(h.clients))
}

func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		log.Printf("[hub] client %s disconnected (total: %d)", c.ID, len(h.clients))
	}
}

// broadcastUpdate sends an update to every client following its game
func (h *Hub) broadcastUpdate(update models.FeedUpdate) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	message := models.ServerMessage{
		Type:      models.MessageTypeFeedUpdate,
		Payload:   update,
		Timestamp: time.Now(),
	}

	sent := 0
	dropped := 0

	for _, c := range clients {
		if !c.Follows(update.Event.GameID) {
			continue
		}

		if c.TrySend(message) {
			sent++
		} else {
			dropped++
			// Client buffer full - too slow, disconnect
			log.Printf("[hub] client %s buffer full, disconnecting", c.ID)
			go h.Unregister(c)
		}
	}

	if sent > 0 {
		h.incrementTotalMessages()
	}
	if dropped > 0 {
		log.Printf("[hub] dropped %d messages (slow clients)", dropped)
	}
}

// followed reports whether any client follows a game
func (h *Hub) followed(gameID string) bool {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for c := range h.clients {
		if c.Follows(gameID) {
			return true
		}
	}
	return false
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	h.clientsMu.RLock()
	activeClients := len(h.clients)
	games := make(map[string]bool)
	for c := range h.clients {
		for _, id := range c.Games() {
			games[id] = true
		}
	}
	h.clientsMu.RUnlock()

	h.metricsMu.Lock()
	totalConnections := h.totalConnections
	totalMessages := h.totalMessages
	h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     activeClients,
		"followed_games":     len(games),
		"total_connections":  totalConnections,
		"total_messages":     totalMessages,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	log.Printf("[hub] shutting down (%d active clients)", len(h.clients))

	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}

func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics := h.GetMetrics()
			log.Printf("[hub] clients=%d total_connections=%d messages=%d",
				metrics["active_clients"],
				metrics["total_connections"],
				metrics["total_messages"])
		}
	}
}

func (h *Hub) incrementTotalConnections() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalConnections++
}

func (h *Hub) incrementTotalMessages() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalMessages++
}
