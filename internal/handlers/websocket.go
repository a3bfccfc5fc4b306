package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/client"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/hub"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FeedHandler serves the live event feed over WebSocket
type FeedHandler struct {
	hub *hub.Hub
	ctx context.Context
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(h *hub.Hub, ctx context.Context) *FeedHandler {
	return &FeedHandler{
		hub: h,
		ctx: ctx,
	}
}

// HandleWebSocket upgrades HTTP connections to WebSocket
func (h *FeedHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("⚠️  WebSocket upgrade error: %v\n", err)
		return
	}

	clientID := uuid.New().String()
	c := client.NewClient(clientID, conn, h.hub)

	h.hub.Register(c)

	// Pumps use the handler context, not the request context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)

	fmt.Printf("✓ WebSocket connection established: %s\n", clientID)
}

// HandleMetrics returns hub metrics
func (h *FeedHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.hub.GetMetrics())
}
