package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"rosterdle/internal/database"
	"rosterdle/internal/models"
)

// SurvivalRepository persists survival runs. The in-progress game is one row
// per player with the settings, active round and cooldown window stored as
// JSON blobs; completed runs are appended to survival_runs for stats.
type SurvivalRepository struct {
	db *database.DB
}

// NewSurvivalRepository creates a new survival repository
func NewSurvivalRepository(db *database.DB) *SurvivalRepository {
	return &SurvivalRepository{db: db}
}

// GetGame loads a player's persisted survival game, or nil if none exists.
func (r *SurvivalRepository) GetGame(playerID int64) (*models.SurvivalGameState, error) {
	var status, settingsJSON, roundJSON, recentJSON, prevMode string
	var currentRound int

	err := r.db.QueryRow(`
		SELECT status, current_round, settings, active_round, recently_used, previous_mode
		FROM survival_games
		WHERE player_id = ?
	`, playerID).Scan(&status, &currentRound, &settingsJSON, &roundJSON, &recentJSON, &prevMode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &models.SurvivalGameState{
		PlayerID:     playerID,
		Status:       status,
		CurrentRound: currentRound,
		PreviousMode: models.GameMode(prevMode),
	}

	if settingsJSON != "" {
		state.Settings = &models.SurvivalSettings{}
		if err := json.Unmarshal([]byte(settingsJSON), state.Settings); err != nil {
			return nil, fmt.Errorf("corrupt survival settings for player %d: %w", playerID, err)
		}
	}
	if roundJSON != "" {
		state.ActiveRound = &models.SurvivalRoundState{}
		if err := json.Unmarshal([]byte(roundJSON), state.ActiveRound); err != nil {
			return nil, fmt.Errorf("corrupt survival round for player %d: %w", playerID, err)
		}
	}
	if err := json.Unmarshal([]byte(recentJSON), &state.RecentlyUsed); err != nil {
		return nil, fmt.Errorf("corrupt cooldown window for player %d: %w", playerID, err)
	}

	return state, nil
}

// SaveGame writes the full in-progress state, replacing any previous row.
func (r *SurvivalRepository) SaveGame(state *models.SurvivalGameState) error {
	settingsJSON := ""
	if state.Settings != nil {
		b, err := json.Marshal(state.Settings)
		if err != nil {
			return err
		}
		settingsJSON = string(b)
	}

	roundJSON := ""
	if state.ActiveRound != nil {
		b, err := json.Marshal(state.ActiveRound)
		if err != nil {
			return err
		}
		roundJSON = string(b)
	}

	recent := state.RecentlyUsed
	if recent == nil {
		recent = []int64{}
	}
	recentJSON, err := json.Marshal(recent)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(`
		UPDATE survival_games
		SET status = ?, current_round = ?, settings = ?, active_round = ?, recently_used = ?, previous_mode = ?
		WHERE player_id = ?
	`, state.Status, state.CurrentRound, settingsJSON, roundJSON, string(recentJSON), string(state.PreviousMode), state.PlayerID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = r.db.Exec(`
		INSERT INTO survival_games (player_id, status, current_round, settings, active_round, recently_used, previous_mode)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, state.PlayerID, state.Status, state.CurrentRound, settingsJSON, roundJSON, string(recentJSON), string(state.PreviousMode))
	return err
}

// GetDefaultSettings returns the player's last-used settings, or nil.
func (r *SurvivalRepository) GetDefaultSettings(playerID int64) (*models.SurvivalSettings, error) {
	var settingsJSON string
	err := r.db.QueryRow("SELECT settings FROM survival_settings WHERE player_id = ?", playerID).Scan(&settingsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	settings := &models.SurvivalSettings{}
	if err := json.Unmarshal([]byte(settingsJSON), settings); err != nil {
		return nil, fmt.Errorf("corrupt default settings for player %d: %w", playerID, err)
	}
	return settings, nil
}

// SaveDefaultSettings stores settings as the defaults for the next run.
func (r *SurvivalRepository) SaveDefaultSettings(playerID int64, settings *models.SurvivalSettings) error {
	b, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	result, err := r.db.Exec("UPDATE survival_settings SET settings = ? WHERE player_id = ?", string(b), playerID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = r.db.Exec("INSERT INTO survival_settings (player_id, settings) VALUES (?, ?)", playerID, string(b))
	return err
}

// RecordRun appends a completed run's result.
func (r *SurvivalRepository) RecordRun(playerID int64, roundsSurvived, totalScore int) error {
	_, err := r.db.Exec(
		"INSERT INTO survival_runs (player_id, rounds_survived, total_score) VALUES (?, ?, ?)",
		playerID, roundsSurvived, totalScore,
	)
	return err
}

// GetBestRun returns the player's highest-scoring run, or nil if they have
// not finished a run yet.
func (r *SurvivalRepository) GetBestRun(playerID int64) (*models.SurvivalRun, error) {
	query := `
		SELECT id, player_id, rounds_survived, total_score
		FROM survival_runs
		WHERE player_id = ?
		ORDER BY total_score DESC, rounds_survived DESC
		LIMIT 1
	`

	var run models.SurvivalRun
	err := r.db.QueryRow(query, playerID).Scan(&run.ID, &run.PlayerID, &run.RoundsSurvived, &run.TotalScore)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
