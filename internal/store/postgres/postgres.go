// Package postgres stores play events and rosters in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	_ "github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store implements store.Store for PostgreSQL
type Store struct {
	db    *sql.DB
	retry retryPolicy
}

var _ store.Store = (*Store)(nil)

// New opens a connection pool
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db, retry: defaultRetryPolicy()}, nil
}

// Migrate creates the tables if they do not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the pool
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadEvents returns a game's events in insertion order
func (s *Store) LoadEvents(ctx context.Context, gameID string) ([]models.PlayEvent, error) {
	return loadEvents(ctx, s.db, gameID)
}

// LoadRoster returns a game's teams and players
func (s *Store) LoadRoster(ctx context.Context, gameID string) (models.Roster, error) {
	return loadRoster(ctx, s.db, gameID, false)
}

// SaveRoster upserts the game row and replaces its players
func (s *Store) SaveRoster(ctx context.Context, roster models.Roster) error {
	if roster.GameID == "" {
		return fmt.Errorf("roster without game id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveRoster(ctx, tx, roster); err != nil {
		return err
	}
	return tx.Commit()
}

func saveRoster(ctx context.Context, q querier, roster models.Roster) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO games (
			game_id, home_team_id, home_team_name, home_team_abbr,
			away_team_id, away_team_name, away_team_abbr
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (game_id) DO UPDATE SET
			home_team_id = EXCLUDED.home_team_id,
			home_team_name = EXCLUDED.home_team_name,
			home_team_abbr = EXCLUDED.home_team_abbr,
			away_team_id = EXCLUDED.away_team_id,
			away_team_name = EXCLUDED.away_team_name,
			away_team_abbr = EXCLUDED.away_team_abbr`,
		roster.GameID,
		roster.HomeTeam.ID, roster.HomeTeam.Name, roster.HomeTeam.Abbr,
		roster.AwayTeam.ID, roster.AwayTeam.Name, roster.AwayTeam.Abbr,
	)
	if err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM game_players WHERE game_id = $1`, roster.GameID); err != nil {
		return fmt.Errorf("clear players: %w", err)
	}

	for i, p := range roster.Players() {
		_, err := q.ExecContext(ctx, `
			INSERT INTO game_players (
				game_id, player_id, team_id, number, name, position,
				is_captain, is_starter, is_on_court, roster_order
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			roster.GameID, p.ID, p.TeamID, p.Number, p.Name, p.Position,
			p.IsCaptain, p.IsStarter, p.IsOnCourt, i,
		)
		if err != nil {
			return fmt.Errorf("insert player %s: %w", p.ID, err)
		}
	}
	return nil
}

// InTx runs fn in a serializable transaction. The game row is locked by
// the first read so concurrent writers of one game queue up. A transaction
// aborted by a serialization failure is replayed, so fn may run more than once.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.retry.execute(ctx, func() error {
		return s.runTx(ctx, fn)
	})
}

func (s *Store) runTx(ctx context.Context, fn func(tx store.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&pgTx{tx: sqlTx, locked: make(map[string]bool)}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// pgTx implements store.Tx
type pgTx struct {
	tx     *sql.Tx
	locked map[string]bool
}

func (t *pgTx) lock(ctx context.Context, gameID string) error {
	if t.locked[gameID] {
		return nil
	}
	var id string
	err := t.tx.QueryRowContext(ctx, `SELECT game_id FROM games WHERE game_id = $1 FOR UPDATE`, gameID).Scan(&id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("game %s: %w", gameID, store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock game: %w", err)
	}
	t.locked[gameID] = true
	return nil
}

func (t *pgTx) LoadEvents(ctx context.Context, gameID string) ([]models.PlayEvent, error) {
	if err := t.lock(ctx, gameID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []models.PlayEvent{}, nil
		}
		return nil, err
	}
	return loadEvents(ctx, t.tx, gameID)
}

func (t *pgTx) LoadRoster(ctx context.Context, gameID string) (models.Roster, error) {
	if err := t.lock(ctx, gameID); err != nil {
		return models.Roster{}, err
	}
	return loadRoster(ctx, t.tx, gameID, true)
}

func (t *pgTx) GetEvent(ctx context.Context, gameID, eventID string) (models.PlayEvent, error) {
	if err := t.lock(ctx, gameID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.PlayEvent{}, fmt.Errorf("event %s: %w", eventID, store.ErrNotFound)
		}
		return models.PlayEvent{}, err
	}

	row := t.tx.QueryRowContext(ctx, selectEvents+` WHERE game_id = $1 AND id = $2`, gameID, eventID)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return models.PlayEvent{}, fmt.Errorf("event %s: %w", eventID, store.ErrNotFound)
	}
	return e, err
}

func (t *pgTx) AppendEvent(ctx context.Context, event *models.PlayEvent) error {
	data, err := json.Marshal(event.EventData)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	err = t.tx.QueryRowContext(ctx, `
		INSERT INTO play_events (
			id, game_id, period, game_time, wall_clock,
			team_id, player_id, event_type, event_data
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9)
		RETURNING sequence`,
		event.ID, event.GameID, int(event.Period), event.GameTime, event.WallClock,
		event.TeamID, event.PlayerID, string(event.EventType), string(data),
	).Scan(&event.Sequence)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (t *pgTx) UpdateEventData(ctx context.Context, gameID, eventID string, data models.EventData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	res, err := t.tx.ExecContext(ctx,
		`UPDATE play_events SET event_data = $3 WHERE game_id = $1 AND id = $2`,
		gameID, eventID, string(raw))
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return expectOne(res, "event "+eventID)
}

func (t *pgTx) DeleteEvent(ctx context.Context, gameID, eventID string) error {
	res, err := t.tx.ExecContext(ctx,
		`DELETE FROM play_events WHERE game_id = $1 AND id = $2`, gameID, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return expectOne(res, "event "+eventID)
}

func (t *pgTx) SetOnCourt(ctx context.Context, gameID, playerID string, onCourt bool) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE game_players SET is_on_court = $3 WHERE game_id = $1 AND player_id = $2`,
		gameID, playerID, onCourt)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	return expectOne(res, "player "+playerID)
}

// SaveRoster replaces the roster inside the transaction. The upsert holds
// the game row lock for the rest of the transaction.
func (t *pgTx) SaveRoster(ctx context.Context, roster models.Roster) error {
	if roster.GameID == "" {
		return fmt.Errorf("roster without game id")
	}
	if err := saveRoster(ctx, t.tx, roster); err != nil {
		return err
	}
	t.locked[roster.GameID] = true
	return nil
}

const selectEvents = `
	SELECT id, game_id, sequence, period, game_time, wall_clock,
		COALESCE(team_id, ''), COALESCE(player_id, ''), event_type, event_data
	FROM play_events`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (models.PlayEvent, error) {
	var (
		e      models.PlayEvent
		period int
		kind   string
		data   []byte
	)
	err := row.Scan(&e.ID, &e.GameID, &e.Sequence, &period, &e.GameTime, &e.WallClock,
		&e.TeamID, &e.PlayerID, &kind, &data)
	if err != nil {
		return models.PlayEvent{}, err
	}
	e.Period = models.Period(period)
	e.EventType = models.EventType(kind)
	e.WallClock = e.WallClock.UTC()
	if err := json.Unmarshal(data, &e.EventData); err != nil {
		return models.PlayEvent{}, fmt.Errorf("event %s data: %w", e.ID, err)
	}
	return e, nil
}

func loadEvents(ctx context.Context, q querier, gameID string) ([]models.PlayEvent, error) {
	rows, err := q.QueryContext(ctx, selectEvents+` WHERE game_id = $1 ORDER BY sequence`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []models.PlayEvent{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func loadRoster(ctx context.Context, q querier, gameID string, forUpdate bool) (models.Roster, error) {
	r := models.Roster{GameID: gameID}
	err := q.QueryRowContext(ctx, `
		SELECT home_team_id, home_team_name, home_team_abbr,
			away_team_id, away_team_name, away_team_abbr
		FROM games WHERE game_id = $1`, gameID,
	).Scan(&r.HomeTeam.ID, &r.HomeTeam.Name, &r.HomeTeam.Abbr,
		&r.AwayTeam.ID, &r.AwayTeam.Name, &r.AwayTeam.Abbr)
	if err == sql.ErrNoRows {
		return models.Roster{}, fmt.Errorf("roster for game %s: %w", gameID, store.ErrNotFound)
	}
	if err != nil {
		return models.Roster{}, fmt.Errorf("query game: %w", err)
	}

	query := `
		SELECT player_id, team_id, number, name, position, is_captain, is_starter, is_on_court
		FROM game_players WHERE game_id = $1 ORDER BY roster_order`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := q.QueryContext(ctx, query, gameID)
	if err != nil {
		return models.Roster{}, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Number, &p.Name, &p.Position,
			&p.IsCaptain, &p.IsStarter, &p.IsOnCourt); err != nil {
			return models.Roster{}, fmt.Errorf("scan player: %w", err)
		}
		switch p.TeamID {
		case r.HomeTeam.ID:
			r.HomePlayers = append(r.HomePlayers, p)
		case r.AwayTeam.ID:
			r.AwayPlayers = append(r.AwayPlayers, p)
		}
	}
	return r, rows.Err()
}

func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return nil
}
