package results

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS jitsu_duels (
	game_id       TEXT PRIMARY KEY,
	room          TEXT NOT NULL DEFAULT '',
	player_a_id   TEXT NOT NULL,
	player_a_name TEXT NOT NULL DEFAULT '',
	player_b_id   TEXT NOT NULL,
	player_b_name TEXT NOT NULL DEFAULT '',
	winner_id     TEXT NOT NULL DEFAULT '',
	method        TEXT NOT NULL,
	turns         INTEGER NOT NULL DEFAULT 0,
	started_at    TIMESTAMPTZ NOT NULL,
	ended_at      TIMESTAMPTZ NOT NULL,
	duration_ms   BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS jitsu_duels_player_a_idx ON jitsu_duels (player_a_id, ended_at DESC);
CREATE INDEX IF NOT EXISTS jitsu_duels_player_b_idx ON jitsu_duels (player_b_id, ended_at DESC);`

// PostgresRepository stores duel results in the jitsu_duels table.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(databaseURL string) (*PostgresRepository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure jitsu schema: %w", err)
	}
	return nil
}

// SaveResult upserts a finished duel keyed by game id.
func (r *PostgresRepository) SaveResult(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	const q = `INSERT INTO jitsu_duels (
		game_id, room, player_a_id, player_a_name, player_b_id, player_b_name,
		winner_id, method, turns, started_at, ended_at, duration_ms
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	ON CONFLICT (game_id) DO UPDATE SET
		room=EXCLUDED.room,
		player_a_name=EXCLUDED.player_a_name,
		player_b_name=EXCLUDED.player_b_name,
		winner_id=EXCLUDED.winner_id,
		method=EXCLUDED.method,
		turns=EXCLUDED.turns,
		ended_at=EXCLUDED.ended_at,
		duration_ms=EXCLUDED.duration_ms`
	_, err := r.db.ExecContext(ctx, q,
		rec.GameID, rec.Room,
		rec.PlayerAID, rec.PlayerAName,
		rec.PlayerBID, rec.PlayerBName,
		rec.WinnerID, string(rec.Method), rec.Turns,
		rec.StartedAt, rec.EndedAt, rec.Duration().Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("upsert jitsu duel: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Recent(ctx context.Context, userID string, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `SELECT game_id, room, player_a_id, player_a_name, player_b_id, player_b_name,
		winner_id, method, turns, started_at, ended_at
	FROM jitsu_duels
	WHERE player_a_id = $1 OR player_b_id = $1
	ORDER BY ended_at DESC, game_id DESC
	LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select jitsu duels: %w", err)
	}
	defer rows.Close()

	out := make([]*Record, 0, limit)
	for rows.Next() {
		var (
			rec    Record
			method string
		)
		if err := rows.Scan(
			&rec.GameID, &rec.Room,
			&rec.PlayerAID, &rec.PlayerAName,
			&rec.PlayerBID, &rec.PlayerBName,
			&rec.WinnerID, &method, &rec.Turns,
			&rec.StartedAt, &rec.EndedAt,
		); err != nil {
			return nil, fmt.Errorf("scan jitsu duel: %w", err)
		}
		rec.Method = Method(method)
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Profile(ctx context.Context, userID string) (*Profile, error) {
	const q = `SELECT
		COUNT(*) FILTER (WHERE winner_id = $1),
		COUNT(*) FILTER (WHERE winner_id <> '' AND winner_id <> $1),
		COUNT(*) FILTER (WHERE winner_id = ''),
		MAX(ended_at)
	FROM jitsu_duels
	WHERE player_a_id = $1 OR player_b_id = $1`
	var (
		p    = Profile{UserID: userID}
		last sql.NullTime
	)
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&p.Wins, &p.Losses, &p.Draws, &last); err != nil {
		return nil, fmt.Errorf("select jitsu profile: %w", err)
	}
	if p.Played() == 0 {
		return nil, nil
	}
	p.LastPlayedAt = last.Time

	const nameQ = `SELECT CASE WHEN player_a_id = $1 THEN player_a_name ELSE player_b_name END
	FROM jitsu_duels
	WHERE player_a_id = $1 OR player_b_id = $1
	ORDER BY ended_at DESC
	LIMIT 1`
	if err := r.db.QueryRowContext(ctx, nameQ, userID).Scan(&p.Name); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("select jitsu profile name: %w", err)
	}
	return &p, nil
}
