package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_ADDR", "REDIS_URL", "DATABASE_URL", "CORS_ORIGINS", "SUMMARY_TTL_MINUTES", "LIVE_TTL_MINUTES", "LEDGER_STREAM"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, ":8086", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.Server.CORSOrigins)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, "games.ledger.basketball", cfg.Redis.Stream)
	assert.Equal(t, 6*time.Hour, cfg.Redis.SummaryTTL)
	assert.Equal(t, 2*time.Hour, cfg.Redis.LiveTTL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("REDIS_URL", "redis://localhost:6380")
	t.Setenv("DATABASE_URL", "postgres://localhost/ledger")
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("SUMMARY_TTL_MINUTES", "30")
	t.Setenv("LIVE_TTL_MINUTES", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "redis://localhost:6380", cfg.Redis.URL)
	assert.Equal(t, "postgres://localhost/ledger", cfg.Database.DSN)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Redis.SummaryTTL)
	assert.Equal(t, 2*time.Hour, cfg.Redis.LiveTTL)
}
