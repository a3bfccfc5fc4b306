package postgres

// schema is applied by Migrate. Statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id        TEXT PRIMARY KEY,
	home_team_id   TEXT NOT NULL,
	home_team_name TEXT NOT NULL DEFAULT '',
	home_team_abbr TEXT NOT NULL DEFAULT '',
	away_team_id   TEXT NOT NULL,
	away_team_name TEXT NOT NULL DEFAULT '',
	away_team_abbr TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS game_players (
	game_id      TEXT NOT NULL REFERENCES games(game_id) ON DELETE CASCADE,
	player_id    TEXT NOT NULL,
	team_id      TEXT NOT NULL,
	number       INT NOT NULL,
	name         TEXT NOT NULL,
	position     TEXT NOT NULL DEFAULT '',
	is_captain   BOOLEAN NOT NULL DEFAULT FALSE,
	is_starter   BOOLEAN NOT NULL DEFAULT FALSE,
	is_on_court  BOOLEAN NOT NULL DEFAULT FALSE,
	roster_order INT NOT NULL,
	PRIMARY KEY (game_id, player_id)
);

CREATE TABLE IF NOT EXISTS play_events (
	id         TEXT PRIMARY KEY,
	game_id    TEXT NOT NULL REFERENCES games(game_id) ON DELETE CASCADE,
	sequence   BIGSERIAL,
	period     INT NOT NULL,
	game_time  TEXT NOT NULL,
	wall_clock TIMESTAMPTZ NOT NULL,
	team_id    TEXT,
	player_id  TEXT,
	event_type TEXT NOT NULL,
	event_data JSONB NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_play_events_game ON play_events (game_id, sequence);
`
