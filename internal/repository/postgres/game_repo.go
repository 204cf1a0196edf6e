package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iamasit07/gomoku/backend/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

const gameColumns = `game_id, player_id, player_name, board_size, ai_first, difficulty,
	winner, reason, total_moves, duration_seconds, created_at, finished_at, moves`

// SaveGame upserts a finished game. The upsert keeps a late duplicate save
// from failing.
func (r *GameRepo) SaveGame(ctx context.Context, rec domain.GameRecord) error {
	movesJSON, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}

	query := `
	INSERT INTO games (` + gameColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at,
		moves = EXCLUDED.moves;
	`

	_, err = r.DB.ExecContext(ctx, query,
		rec.GameID, rec.PlayerID, rec.PlayerName, rec.BoardSize, rec.AIFirst, rec.Difficulty,
		rec.Winner, rec.Reason, rec.TotalMoves, rec.DurationSeconds, rec.CreatedAt, rec.FinishedAt, movesJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*domain.GameRecord, error) {
	var rec domain.GameRecord
	var movesJSON []byte

	err := row.Scan(
		&rec.GameID,
		&rec.PlayerID,
		&rec.PlayerName,
		&rec.BoardSize,
		&rec.AIFirst,
		&rec.Difficulty,
		&rec.Winner,
		&rec.Reason,
		&rec.TotalMoves,
		&rec.DurationSeconds,
		&rec.CreatedAt,
		&rec.FinishedAt,
		&movesJSON,
	)
	if err != nil {
		return nil, err
	}

	if len(movesJSON) > 0 {
		if err := json.Unmarshal(movesJSON, &rec.Moves); err != nil {
			return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
		}
	}
	return &rec, nil
}

// GetGameByID returns nil, nil when the game does not exist.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_id = $1;`

	rec, err := scanGame(r.DB.QueryRowContext(ctx, query, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return rec, nil
}

// GetPlayerHistory lists a player's finished games, newest first.
func (r *GameRepo) GetPlayerHistory(ctx context.Context, playerID string, limit int) ([]domain.GameRecord, error) {
	query := `
	SELECT ` + gameColumns + `
	FROM games
	WHERE player_id = $1
	ORDER BY finished_at DESC
	LIMIT $2;
	`

	rows, err := r.DB.QueryContext(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := []domain.GameRecord{}
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game history: %w", err)
	}
	return games, nil
}

// CleanupOldGames deletes games finished more than days ago.
func (r *GameRepo) CleanupOldGames(ctx context.Context, days int) (int64, error) {
	query := `DELETE FROM games WHERE finished_at < NOW() - make_interval(days => $1);`

	result, err := r.DB.ExecContext(ctx, query, days)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old games: %w", err)
	}
	return result.RowsAffected()
}
