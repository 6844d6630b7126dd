package repository

import (
	"database/sql"

	"rosterdle/internal/database"
	"rosterdle/internal/models"
)

// PlayerRepository handles player account database operations.
type PlayerRepository struct {
	db *database.DB
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = "id, device_token, COALESCE(email, ''), password_hash, name, oauth_provider, oauth_subject, created_at"

func scanPlayer(row *sql.Row) (*models.Player, error) {
	var p models.Player
	err := row.Scan(&p.ID, &p.DeviceToken, &p.Email, &p.PasswordHash, &p.Name, &p.OAuthProvider, &p.OAuthSubject, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateAnonymous creates a device-token-only player.
func (r *PlayerRepository) CreateAnonymous(deviceToken string) (*models.Player, error) {
	id, err := r.db.ExecReturningID(
		"INSERT INTO players (device_token) VALUES (?)",
		deviceToken,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// CreateRegistered creates a player with an email credential.
func (r *PlayerRepository) CreateRegistered(deviceToken, email, passwordHash, name string) (*models.Player, error) {
	id, err := r.db.ExecReturningID(
		"INSERT INTO players (device_token, email, password_hash, name) VALUES (?, ?, ?, ?)",
		deviceToken, email, passwordHash, name,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// CreateOAuth creates a player backed by an OAuth identity.
func (r *PlayerRepository) CreateOAuth(deviceToken, email, name, provider, subject string) (*models.Player, error) {
	id, err := r.db.ExecReturningID(
		"INSERT INTO players (device_token, email, name, oauth_provider, oauth_subject) VALUES (?, ?, ?, ?, ?)",
		deviceToken, email, name, provider, subject,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// GetByID retrieves a player by id, or nil if not found.
func (r *PlayerRepository) GetByID(id int64) (*models.Player, error) {
	return scanPlayer(r.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE id = ?", id))
}

// GetByDeviceToken retrieves a player by device token, or nil if not found.
func (r *PlayerRepository) GetByDeviceToken(token string) (*models.Player, error) {
	return scanPlayer(r.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE device_token = ?", token))
}

// GetByEmail retrieves a player by email, or nil if not found.
func (r *PlayerRepository) GetByEmail(email string) (*models.Player, error) {
	return scanPlayer(r.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE email = ?", email))
}

// GetByOAuth retrieves a player by OAuth identity, or nil if not found.
func (r *PlayerRepository) GetByOAuth(provider, subject string) (*models.Player, error) {
	return scanPlayer(r.db.QueryRow(
		"SELECT "+playerColumns+" FROM players WHERE oauth_provider = ? AND oauth_subject = ?",
		provider, subject,
	))
}

// GetProfileStreak reads the remote streak copy stored on the account.
func (r *PlayerRepository) GetProfileStreak(playerID int64) (models.Streak, error) {
	streak := models.Streak{PlayerID: playerID}
	err := r.db.QueryRow(
		"SELECT streak_count, streak_last_completed FROM players WHERE id = ?",
		playerID,
	).Scan(&streak.Count, &streak.LastCompletedDate)
	return streak, err
}

// UpdateProfileStreak writes the remote streak copy on the account.
func (r *PlayerRepository) UpdateProfileStreak(playerID int64, count int, lastCompletedDate string) error {
	_, err := r.db.Exec(
		"UPDATE players SET streak_count = ?, streak_last_completed = ? WHERE id = ?",
		count, lastCompletedDate, playerID,
	)
	return err
}
