package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"rosterdle/internal/database"
	"rosterdle/internal/models"
)

// DailyRepository persists per-player daily progress: one meta row carrying
// the tracked game date, plus one row per mode with the guess list stored as
// a JSON array so the count and the list change in a single statement.
type DailyRepository struct {
	db *database.DB
}

// NewDailyRepository creates a new daily progress repository
func NewDailyRepository(db *database.DB) *DailyRepository {
	return &DailyRepository{db: db}
}

// GetState loads a player's full daily state, or nil if the player has none.
func (r *DailyRepository) GetState(playerID int64) (*models.DailyGameState, error) {
	var gameDate, lastFetch string
	err := r.db.QueryRow(
		"SELECT game_date, last_fetch_date FROM daily_meta WHERE player_id = ?",
		playerID,
	).Scan(&gameDate, &lastFetch)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := models.NewDailyGameState(playerID, gameDate)
	state.LastFetchDate = lastFetch

	rows, err := r.db.Query(`
		SELECT mode, target_name, guess_count, is_completed, last_completed_date, guesses
		FROM daily_progress
		WHERE player_id = ?
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var mode string
		var ms models.DailyModeState
		var guessesJSON string
		if err := rows.Scan(&mode, &ms.TargetName, &ms.GuessCount, &ms.IsCompleted, &ms.LastCompletedDate, &guessesJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(guessesJSON), &ms.Guesses); err != nil {
			return nil, fmt.Errorf("corrupt guesses for player %d mode %s: %w", playerID, mode, err)
		}
		state.Modes[models.GameMode(mode)] = &ms
	}

	return state, rows.Err()
}

// SaveMeta writes the tracked date and fetch guard for a player.
func (r *DailyRepository) SaveMeta(playerID int64, gameDate, lastFetchDate string) error {
	result, err := r.db.Exec(
		"UPDATE daily_meta SET game_date = ?, last_fetch_date = ? WHERE player_id = ?",
		gameDate, lastFetchDate, playerID,
	)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = r.db.Exec(
		"INSERT INTO daily_meta (player_id, game_date, last_fetch_date) VALUES (?, ?, ?)",
		playerID, gameDate, lastFetchDate,
	)
	return err
}

// SaveModeState writes one mode's progress in a single statement, keeping the
// guess count and guess list consistent by construction.
func (r *DailyRepository) SaveModeState(playerID int64, mode models.GameMode, ms *models.DailyModeState) error {
	guesses := ms.Guesses
	if guesses == nil {
		guesses = []string{}
	}
	guessesJSON, err := json.Marshal(guesses)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(`
		UPDATE daily_progress
		SET target_name = ?, guess_count = ?, is_completed = ?, last_completed_date = ?, guesses = ?
		WHERE player_id = ? AND mode = ?
	`, ms.TargetName, ms.GuessCount, ms.IsCompleted, ms.LastCompletedDate, string(guessesJSON), playerID, string(mode))
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = r.db.Exec(`
		INSERT INTO daily_progress (player_id, mode, target_name, guess_count, is_completed, last_completed_date, guesses)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, playerID, string(mode), ms.TargetName, ms.GuessCount, ms.IsCompleted, ms.LastCompletedDate, string(guessesJSON))
	return err
}

// WipeProgress deletes all of a player's mode rows; used on date rollover.
func (r *DailyRepository) WipeProgress(playerID int64) error {
	_, err := r.db.Exec("DELETE FROM daily_progress WHERE player_id = ?", playerID)
	return err
}
