package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/ledger"
	"github.com/redis/go-redis/v9"
)

// DefaultStream receives every ledger change
const DefaultStream = "games.ledger.basketball"

// StreamPublisher publishes ledger changes to a Redis stream
type StreamPublisher struct {
	client *redis.Client
	stream string
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{
		client: client,
		stream: stream,
	}
}

// OnChange implements ledger.Listener
func (p *StreamPublisher) OnChange(ctx context.Context, change ledger.Change) {
	if err := p.Publish(ctx, change); err != nil {
		log.Printf("[publisher] Error publishing %s %s: %v", change.Kind, change.Event.ID, err)
	}
}

// Publish adds one change to the stream
func (p *StreamPublisher) Publish(ctx context.Context, change ledger.Change) error {
	data, err := json.Marshal(change.Update(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("marshaling feed update: %w", err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: StreamValues(change, data),
	}).Err()
}

// StreamValues builds the stream entry fields for a change
func StreamValues(change ledger.Change, data []byte) map[string]interface{} {
	return map[string]interface{}{
		"data":       string(data),
		"game_id":    change.Event.GameID,
		"event_id":   change.Event.ID,
		"event_type": string(change.Event.EventType),
		"type":       string(change.Kind),
	}
}
