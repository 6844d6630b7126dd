package repository

import (
	"database/sql"

	"rosterdle/internal/database"
	"rosterdle/internal/models"
)

// StreakRepository persists the local streak copy. Registered players also
// carry a remote copy on their account row (see PlayerRepository); the two
// are reconciled by the streak service.
type StreakRepository struct {
	db *database.DB
}

// NewStreakRepository creates a new streak repository
func NewStreakRepository(db *database.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// Get retrieves a player's streak; a missing row reads as a zero streak.
func (r *StreakRepository) Get(playerID int64) (models.Streak, error) {
	streak := models.Streak{PlayerID: playerID}
	err := r.db.QueryRow(
		"SELECT count, last_completed_date FROM streaks WHERE player_id = ?",
		playerID,
	).Scan(&streak.Count, &streak.LastCompletedDate)
	if err == sql.ErrNoRows {
		return streak, nil
	}
	return streak, err
}

// Save writes a player's streak.
func (r *StreakRepository) Save(streak models.Streak) error {
	result, err := r.db.Exec(
		"UPDATE streaks SET count = ?, last_completed_date = ? WHERE player_id = ?",
		streak.Count, streak.LastCompletedDate, streak.PlayerID,
	)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = r.db.Exec(
		"INSERT INTO streaks (player_id, count, last_completed_date) VALUES (?, ?, ?)",
		streak.PlayerID, streak.Count, streak.LastCompletedDate,
	)
	return err
}
