package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Default TTLs
const (
	DefaultSummaryTTL = 6 * time.Hour
	DefaultLiveTTL    = 2 * time.Hour
)

// RedisWriter handles writing derived game views to Redis
type RedisWriter struct {
	client     *redis.Client
	summaryTTL time.Duration
	liveTTL    time.Duration
}

// NewRedisWriter creates a new Redis writer
func NewRedisWriter(client *redis.Client, summaryTTL, liveTTL time.Duration) *RedisWriter {
	if summaryTTL <= 0 {
		summaryTTL = DefaultSummaryTTL
	}
	if liveTTL <= 0 {
		liveTTL = DefaultLiveTTL
	}
	return &RedisWriter{
		client:     client,
		summaryTTL: summaryTTL,
		liveTTL:    liveTTL,
	}
}

// SummaryKey is where a game's summary is cached
func SummaryKey(gameID string) string {
	return fmt.Sprintf("game:%s:summary", gameID)
}

// LiveStateKey is where a game's live state is cached
func LiveStateKey(gameID string) string {
	return fmt.Sprintf("game:%s:live", gameID)
}

// RevisionKey counts refreshes of a game. Each refresh takes the next value
// before it reads the store.
func RevisionKey(gameID string) string {
	return fmt.Sprintf("game:%s:revision", gameID)
}

// WrittenKey holds the revision of the views currently cached
func WrittenKey(gameID string) string {
	return fmt.Sprintf("game:%s:written", gameID)
}

// writeViews sets both views unless a newer revision is already cached.
// KEYS: summary, live, written. ARGV: revision, summary, summary ttl ms, live, live ttl ms.
var writeViews = redis.NewScript(`
local written = tonumber(redis.call('GET', KEYS[3]) or '0')
local revision = tonumber(ARGV[1])
if written >= revision then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
redis.call('SET', KEYS[2], ARGV[4], 'PX', ARGV[5])
redis.call('SET', KEYS[3], ARGV[1], 'PX', ARGV[3])
return 1
`)

// NextRevision reserves the revision for a refresh of a game
func (w *RedisWriter) NextRevision(ctx context.Context, gameID string) (int64, error) {
	pipe := w.client.TxPipeline()
	incr := pipe.Incr(ctx, RevisionKey(gameID))
	pipe.Expire(ctx, RevisionKey(gameID), w.summaryTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to reserve revision: %w", err)
	}
	return incr.Val(), nil
}

// WriteViews stores the summary and live state of a game computed at
// revision. It reports false when views of a later revision are already
// cached and nothing was written.
func (w *RedisWriter) WriteViews(ctx context.Context, revision int64, summary models.GameSummary, state models.LiveState) (bool, error) {
	summaryData, err := json.Marshal(summary)
	if err != nil {
		return false, fmt.Errorf("marshaling summary: %w", err)
	}
	stateData, err := json.Marshal(state)
	if err != nil {
		return false, fmt.Errorf("marshaling live state: %w", err)
	}

	gameID := summary.GameID
	keys := []string{SummaryKey(gameID), LiveStateKey(gameID), WrittenKey(gameID)}
	written, err := writeViews.Run(ctx, w.client, keys,
		revision,
		summaryData, w.summaryTTL.Milliseconds(),
		stateData, w.liveTTL.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to write views: %w", err)
	}
	return written == 1, nil
}

// ReadSummary retrieves a cached summary
func (w *RedisWriter) ReadSummary(ctx context.Context, gameID string) (*models.GameSummary, error) {
	data, err := w.client.Get(ctx, SummaryKey(gameID)).Result()
	if err != nil {
		return nil, err
	}

	var summary models.GameSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, fmt.Errorf("unmarshaling summary: %w", err)
	}

	return &summary, nil
}

// ReadLiveState retrieves a cached live state
func (w *RedisWriter) ReadLiveState(ctx context.Context, gameID string) (*models.LiveState, error) {
	data, err := w.client.Get(ctx, LiveStateKey(gameID)).Result()
	if err != nil {
		return nil, err
	}

	var state models.LiveState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("unmarshaling live state: %w", err)
	}

	return &state, nil
}

// dropViews deletes both views and records revision as written so no
// refresh that started earlier can store its views afterwards.
// KEYS: summary, live, written. ARGV: revision, ttl ms.
var dropViews = redis.NewScript(`
local written = tonumber(redis.call('GET', KEYS[3]) or '0')
if tonumber(ARGV[1]) > written then
	redis.call('SET', KEYS[3], ARGV[1], 'PX', ARGV[2])
end
redis.call('DEL', KEYS[1], KEYS[2])
return 1
`)

// Invalidate drops both cached views of a game. Refreshes that began
// before the call cannot restore them.
func (w *RedisWriter) Invalidate(ctx context.Context, gameID string) error {
	revision, err := w.NextRevision(ctx, gameID)
	if err != nil {
		return err
	}
	return w.drop(ctx, gameID, revision)
}

func (w *RedisWriter) drop(ctx context.Context, gameID string, revision int64) error {
	keys := []string{SummaryKey(gameID), LiveStateKey(gameID), WrittenKey(gameID)}
	if err := dropViews.Run(ctx, w.client, keys, revision, w.summaryTTL.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("failed to drop views: %w", err)
	}
	return nil
}
