package repository

import (
	"database/sql"

	"rosterdle/internal/database"
	"rosterdle/internal/models"
)

// ChallengeRepository stores the shared daily answer per mode per game date.
type ChallengeRepository struct {
	db *database.DB
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *database.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Get retrieves the challenge for a mode and date, or nil if none is stored.
func (r *ChallengeRepository) Get(mode models.GameMode, date string) (*models.DailyChallenge, error) {
	query := `
		SELECT id, mode, challenge_date, target_name, mode_payload
		FROM daily_challenges
		WHERE mode = ? AND challenge_date = ?
	`

	var c models.DailyChallenge
	err := r.db.QueryRow(query, string(mode), date).Scan(&c.ID, &c.Mode, &c.ChallengeDate, &c.TargetName, &c.ModePayload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a challenge row. The (mode, challenge_date) unique constraint
// makes concurrent creation race-safe: the loser gets an error and re-reads.
func (r *ChallengeRepository) Create(c models.DailyChallenge) error {
	query := `
		INSERT INTO daily_challenges (mode, challenge_date, target_name, mode_payload)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, string(c.Mode), c.ChallengeDate, c.TargetName, c.ModePayload)
	return err
}
