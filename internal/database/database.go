// internal/database/database.go

// Package database persists completed-match history and per-player
// aggregate stats in Postgres. In-progress match state is never stored;
// a process restart forfeits live matches.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/SuriyaDcruze/UnoBlitz/internal/models"
)

// DB is the shared connection pool. Nil when DATABASE_URL is not set;
// all callers must check before use.
var DB *pgxpool.Pool

// Init connects the shared pool using DATABASE_URL and ensures the
// schema exists. Leaves DB nil when the variable is unset, which
// disables persistence.
func Init(ctx context.Context) error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Info("DATABASE_URL not set, match persistence disabled")
		return nil
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("database ping: %w", err)
	}

	DB = pool
	if err := migrate(ctx); err != nil {
		return err
	}
	log.Info("connected to postgres")
	return nil
}

// Close releases the shared pool.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}

// migrate creates the two tables on startup if they are missing.
func migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS match_history (
	id          BIGSERIAL PRIMARY KEY,
	room_id     TEXT        NOT NULL,
	players     JSONB       NOT NULL,
	winner_id   UUID        NOT NULL,
	winner_name TEXT        NOT NULL,
	duration_ms BIGINT      NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS player_stats (
	player_name        TEXT PRIMARY KEY,
	games_played       INT         NOT NULL DEFAULT 0,
	games_won          INT         NOT NULL DEFAULT 0,
	total_cards_played INT         NOT NULL DEFAULT 0,
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	if _, err := DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SaveMatchResult stores a completed match and folds the outcome into
// every participant's aggregate stats. Errors are logged, not returned;
// callers fire this asynchronously and cannot act on failure.
func SaveMatchResult(ctx context.Context, result models.MatchResult) {
	if DB == nil {
		return
	}
	players, err := json.Marshal(result.Players)
	if err != nil {
		log.Errorf("room %s: failed encoding participants: %v", result.RoomID, err)
		return
	}
	_, err = DB.Exec(ctx,
		`INSERT INTO match_history (room_id, players, winner_id, winner_name, duration_ms)
		 VALUES ($1, $2, $3, $4, $5)`,
		result.RoomID, players, result.WinnerID, result.WinnerName, result.DurationMS)
	if err != nil {
		log.Errorf("room %s: failed saving match history: %v", result.RoomID, err)
		return
	}

	for _, p := range result.Players {
		won := 0
		if p.ID == result.WinnerID {
			won = 1
		}
		_, err := DB.Exec(ctx,
			`INSERT INTO player_stats (player_name, games_played, games_won)
			 VALUES ($1, 1, $2)
			 ON CONFLICT (player_name) DO UPDATE SET
				games_played = player_stats.games_played + 1,
				games_won    = player_stats.games_won + $2,
				updated_at   = now()`,
			p.Name, won)
		if err != nil {
			log.Errorf("room %s: failed updating stats for %s: %v", result.RoomID, p.Name, err)
		}
	}
	log.Infof("room %s: match result saved", result.RoomID)
}

// RecordCardsPlayed increments a player's lifetime cards-played counter.
// No-op for names with no stats row yet; the row appears on their first
// completed match.
func RecordCardsPlayed(playerName string, count int) {
	if DB == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := DB.Exec(ctx,
		`UPDATE player_stats SET
			total_cards_played = total_cards_played + $2,
			updated_at         = now()
		 WHERE player_name = $1`,
		playerName, count)
	if err != nil {
		log.Errorf("failed updating cards played for %s: %v", playerName, err)
	}
}

// PlayerStats is one row of the aggregate leaderboard.
type PlayerStats struct {
	PlayerName       string    `json:"playerName"`
	GamesPlayed      int       `json:"gamesPlayed"`
	GamesWon         int       `json:"gamesWon"`
	TotalCardsPlayed int       `json:"totalCardsPlayed"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// FetchLeaderboard returns the top players ordered by wins.
func FetchLeaderboard(ctx context.Context, limit int) ([]PlayerStats, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	rows, err := DB.Query(ctx,
		`SELECT player_name, games_played, games_won, total_cards_played, updated_at
		 FROM player_stats
		 ORDER BY games_won DESC, games_played ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []PlayerStats
	for rows.Next() {
		var s PlayerStats
		if err := rows.Scan(&s.PlayerName, &s.GamesPlayed, &s.GamesWon, &s.TotalCardsPlayed, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
