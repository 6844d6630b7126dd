package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"rosterdle/internal/database"
)

// BackupData represents the complete progression backup structure
type BackupData struct {
	Version      string            `json:"version"`
	ExportedAt   time.Time         `json:"exported_at"`
	Characters   []CharacterBackup `json:"characters"`
	Players      []PlayerBackup    `json:"players"`
	Challenges   []ChallengeBackup `json:"challenges"`
	DailyStates  []DailyBackup     `json:"daily_states"`
	Streaks      []StreakBackup    `json:"streaks"`
	SurvivalRuns []RunBackup       `json:"survival_runs"`
}

// CharacterBackup represents a roster entry for backup
type CharacterBackup struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	Class       string `json:"class"`
	Range       string `json:"range"`
	Gadget      string `json:"gadget"`
	StarPower   string `json:"star_power"`
	ReleaseYear int    `json:"release_year"`
}

// PlayerBackup represents a player record for backup
type PlayerBackup struct {
	ID            int64  `json:"id"`
	DeviceToken   string `json:"device_token"`
	Email         string `json:"email"`
	PasswordHash  string `json:"password_hash"`
	Name          string `json:"name"`
	OAuthProvider string `json:"oauth_provider"`
	OAuthSubject  string `json:"oauth_subject"`
	StreakCount   int    `json:"streak_count"`
	StreakDate    string `json:"streak_last_completed"`
}

// ChallengeBackup represents a daily challenge record for backup
type ChallengeBackup struct {
	ID            int64  `json:"id"`
	Mode          string `json:"mode"`
	ChallengeDate string `json:"challenge_date"`
	TargetName    string `json:"target_name"`
	ModePayload   string `json:"mode_payload"`
}

// DailyBackup represents one player's per-mode daily progress for backup
type DailyBackup struct {
	PlayerID    int64  `json:"player_id"`
	Mode        string `json:"mode"`
	TargetName  string `json:"target_name"`
	GuessCount  int    `json:"guess_count"`
	IsCompleted bool   `json:"is_completed"`
	Guesses     string `json:"guesses"`
}

// StreakBackup represents a streak record for backup
type StreakBackup struct {
	PlayerID          int64  `json:"player_id"`
	Count             int    `json:"count"`
	LastCompletedDate string `json:"last_completed_date"`
}

// RunBackup represents a finished survival run for backup
type RunBackup struct {
	PlayerID   int64     `json:"player_id"`
	Rounds     int       `json:"rounds"`
	TotalScore int       `json:"total_score"`
	EndedAt    time.Time `json:"ended_at"`
}

// BackupService handles progression export and restore
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the progression data to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting progression export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportCharacters(backup); err != nil {
		return fmt.Errorf("failed to export characters: %w", err)
	}
	if err := s.exportPlayers(backup); err != nil {
		return fmt.Errorf("failed to export players: %w", err)
	}
	if err := s.exportChallenges(backup); err != nil {
		return fmt.Errorf("failed to export challenges: %w", err)
	}
	if err := s.exportDailyStates(backup); err != nil {
		return fmt.Errorf("failed to export daily states: %w", err)
	}
	if err := s.exportStreaks(backup); err != nil {
		return fmt.Errorf("failed to export streaks: %w", err)
	}
	if err := s.exportRuns(backup); err != nil {
		return fmt.Errorf("failed to export survival runs: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Progression exported successfully to %s", outputPath)
	log.Printf("Exported: %d characters, %d players, %d challenges, %d daily states, %d streaks, %d runs",
		len(backup.Characters), len(backup.Players), len(backup.Challenges),
		len(backup.DailyStates), len(backup.Streaks), len(backup.SurvivalRuns))

	return nil
}

// Import restores progression data from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting progression import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var backup BackupData
	if err := json.NewDecoder(file).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	if err := s.importCharacters(backup.Characters); err != nil {
		return fmt.Errorf("failed to import characters: %w", err)
	}
	if err := s.importPlayers(backup.Players); err != nil {
		return fmt.Errorf("failed to import players: %w", err)
	}
	if err := s.importChallenges(backup.Challenges); err != nil {
		return fmt.Errorf("failed to import challenges: %w", err)
	}
	if err := s.importDailyStates(backup.DailyStates); err != nil {
		return fmt.Errorf("failed to import daily states: %w", err)
	}
	if err := s.importStreaks(backup.Streaks); err != nil {
		return fmt.Errorf("failed to import streaks: %w", err)
	}
	if err := s.importRuns(backup.SurvivalRuns); err != nil {
		return fmt.Errorf("failed to import survival runs: %w", err)
	}

	log.Println("Progression imported successfully")
	return nil
}

func (s *BackupService) exportCharacters(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT id, name, rarity, class, attack_range, gadget, star_power, release_year FROM characters ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c CharacterBackup
		if err := rows.Scan(&c.ID, &c.Name, &c.Rarity, &c.Class, &c.Range, &c.Gadget, &c.StarPower, &c.ReleaseYear); err != nil {
			return err
		}
		backup.Characters = append(backup.Characters, c)
	}
	return rows.Err()
}

func (s *BackupService) exportPlayers(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT id, device_token, COALESCE(email, ''), COALESCE(password_hash, ''),
		COALESCE(name, ''), COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''),
		streak_count, COALESCE(streak_last_completed, '') FROM players ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p PlayerBackup
		if err := rows.Scan(&p.ID, &p.DeviceToken, &p.Email, &p.PasswordHash, &p.Name,
			&p.OAuthProvider, &p.OAuthSubject, &p.StreakCount, &p.StreakDate); err != nil {
			return err
		}
		backup.Players = append(backup.Players, p)
	}
	return rows.Err()
}

func (s *BackupService) exportChallenges(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT id, mode, challenge_date, target_name, mode_payload FROM daily_challenges ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c ChallengeBackup
		if err := rows.Scan(&c.ID, &c.Mode, &c.ChallengeDate, &c.TargetName, &c.ModePayload); err != nil {
			return err
		}
		backup.Challenges = append(backup.Challenges, c)
	}
	return rows.Err()
}

func (s *BackupService) exportDailyStates(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT player_id, mode, target_name, guess_count, is_completed, guesses FROM daily_progress ORDER BY player_id, mode`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var d DailyBackup
		if err := rows.Scan(&d.PlayerID, &d.Mode, &d.TargetName, &d.GuessCount, &d.IsCompleted, &d.Guesses); err != nil {
			return err
		}
		backup.DailyStates = append(backup.DailyStates, d)
	}
	return rows.Err()
}

func (s *BackupService) exportStreaks(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT player_id, count, last_completed_date FROM streaks ORDER BY player_id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var st StreakBackup
		if err := rows.Scan(&st.PlayerID, &st.Count, &st.LastCompletedDate); err != nil {
			return err
		}
		backup.Streaks = append(backup.Streaks, st)
	}
	return rows.Err()
}

func (s *BackupService) exportRuns(backup *BackupData) error {
	rows, err := s.db.Query(`SELECT player_id, rounds_survived, total_score, created_at FROM survival_runs ORDER BY created_at`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r RunBackup
		if err := rows.Scan(&r.PlayerID, &r.Rounds, &r.TotalScore, &r.EndedAt); err != nil {
			return err
		}
		backup.SurvivalRuns = append(backup.SurvivalRuns, r)
	}
	return rows.Err()
}

func (s *BackupService) importCharacters(characters []CharacterBackup) error {
	for _, c := range characters {
		var existing int64
		err := s.db.QueryRow(`SELECT id FROM characters WHERE LOWER(name) = LOWER(?)`, c.Name).Scan(&existing)
		if err == nil {
			continue
		}
		_, err = s.db.Exec(`INSERT INTO characters (name, rarity, class, attack_range, gadget, star_power, release_year)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.Name, c.Rarity, c.Class, c.Range, c.Gadget, c.StarPower, c.ReleaseYear)
		if err != nil {
			return err
		}
	}
	log.Printf("Imported %d characters", len(characters))
	return nil
}

func (s *BackupService) importPlayers(players []PlayerBackup) error {
	for _, p := range players {
		var existing int64
		err := s.db.QueryRow(`SELECT id FROM players WHERE device_token = ?`, p.DeviceToken).Scan(&existing)
		if err == nil {
			continue
		}
		_, err = s.db.Exec(`INSERT INTO players (device_token, email, password_hash, name, oauth_provider, oauth_subject, streak_count, streak_last_completed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.DeviceToken, nullable(p.Email), nullable(p.PasswordHash), nullable(p.Name),
			nullable(p.OAuthProvider), nullable(p.OAuthSubject), p.StreakCount, nullable(p.StreakDate))
		if err != nil {
			return err
		}
	}
	log.Printf("Imported %d players", len(players))
	return nil
}

func (s *BackupService) importChallenges(challenges []ChallengeBackup) error {
	for _, c := range challenges {
		var existing int64
		err := s.db.QueryRow(`SELECT id FROM daily_challenges WHERE mode = ? AND challenge_date = ?`, c.Mode, c.ChallengeDate).Scan(&existing)
		if err == nil {
			continue
		}
		_, err = s.db.Exec(`INSERT INTO daily_challenges (mode, challenge_date, target_name, mode_payload)
			VALUES (?, ?, ?, ?)`, c.Mode, c.ChallengeDate, c.TargetName, c.ModePayload)
		if err != nil {
			return err
		}
	}
	log.Printf("Imported %d challenges", len(challenges))
	return nil
}

func (s *BackupService) importDailyStates(states []DailyBackup) error {
	for _, d := range states {
		result, err := s.db.Exec(`UPDATE daily_progress SET target_name = ?, guess_count = ?, is_completed = ?, guesses = ?
			WHERE player_id = ? AND mode = ?`,
			d.TargetName, d.GuessCount, d.IsCompleted, d.Guesses, d.PlayerID, d.Mode)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			_, err = s.db.Exec(`INSERT INTO daily_progress (player_id, mode, target_name, guess_count, is_completed, guesses)
				VALUES (?, ?, ?, ?, ?, ?)`,
				d.PlayerID, d.Mode, d.TargetName, d.GuessCount, d.IsCompleted, d.Guesses)
			if err != nil {
				return err
			}
		}
	}
	log.Printf("Imported %d daily states", len(states))
	return nil
}

func (s *BackupService) importStreaks(streaks []StreakBackup) error {
	for _, st := range streaks {
		result, err := s.db.Exec(`UPDATE streaks SET count = ?, last_completed_date = ? WHERE player_id = ?`,
			st.Count, st.LastCompletedDate, st.PlayerID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			_, err = s.db.Exec(`INSERT INTO streaks (player_id, count, last_completed_date) VALUES (?, ?, ?)`,
				st.PlayerID, st.Count, st.LastCompletedDate)
			if err != nil {
				return err
			}
		}
	}
	log.Printf("Imported %d streaks", len(streaks))
	return nil
}

func (s *BackupService) importRuns(runs []RunBackup) error {
	for _, r := range runs {
		_, err := s.db.Exec(`INSERT INTO survival_runs (player_id, rounds_survived, total_score, created_at) VALUES (?, ?, ?, ?)`,
			r.PlayerID, r.Rounds, r.TotalScore, r.EndedAt)
		if err != nil {
			return err
		}
	}
	log.Printf("Imported %d survival runs", len(runs))
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
