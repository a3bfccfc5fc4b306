package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "game:g1:summary", SummaryKey("g1"))
	assert.Equal(t, "game:g1:live", LiveStateKey("g1"))
	assert.Equal(t, "game:g1:revision", RevisionKey("g1"))
	assert.Equal(t, "game:g1:written", WrittenKey("g1"))
}

func TestNewRedisWriter_DefaultTTLs(t *testing.T) {
	w := NewRedisWriter(nil, 0, 0)
	assert.Equal(t, DefaultSummaryTTL, w.summaryTTL)
	assert.Equal(t, DefaultLiveTTL, w.liveTTL)

	w = NewRedisWriter(nil, time.Minute, 2*time.Minute)
	assert.Equal(t, time.Minute, w.summaryTTL)
	assert.Equal(t, 2*time.Minute, w.liveTTL)
}
