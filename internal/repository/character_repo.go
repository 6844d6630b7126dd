package repository

import (
	"database/sql"

	"rosterdle/internal/database"
	"rosterdle/internal/models"
)

// CharacterRepository handles roster database operations. The roster is
// seeded at startup and read-only afterwards.
type CharacterRepository struct {
	db *database.DB
}

// NewCharacterRepository creates a new character repository
func NewCharacterRepository(db *database.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = "id, name, rarity, class, attack_range, gadget, star_power, release_year"

// ListCharacters retrieves the full roster ordered by id
func (r *CharacterRepository) ListCharacters() ([]models.Character, error) {
	rows, err := r.db.Query("SELECT " + characterColumns + " FROM characters ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chars []models.Character
	for rows.Next() {
		var c models.Character
		if err := rows.Scan(&c.ID, &c.Name, &c.Rarity, &c.Class, &c.Range, &c.Gadget, &c.StarPower, &c.ReleaseYear); err != nil {
			return nil, err
		}
		chars = append(chars, c)
	}

	return chars, rows.Err()
}

// GetByName retrieves a character by its case-insensitive name, or nil if no
// such character exists.
func (r *CharacterRepository) GetByName(name string) (*models.Character, error) {
	query := "SELECT " + characterColumns + " FROM characters WHERE LOWER(name) = LOWER(?)"

	var c models.Character
	err := r.db.QueryRow(query, name).Scan(&c.ID, &c.Name, &c.Rarity, &c.Class, &c.Range, &c.Gadget, &c.StarPower, &c.ReleaseYear)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a character by id, or nil if no such character exists.
func (r *CharacterRepository) GetByID(id int64) (*models.Character, error) {
	query := "SELECT " + characterColumns + " FROM characters WHERE id = ?"

	var c models.Character
	err := r.db.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Rarity, &c.Class, &c.Range, &c.Gadget, &c.StarPower, &c.ReleaseYear)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Count returns how many characters are seeded
func (r *CharacterRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM characters").Scan(&count)
	return count, err
}

// Create inserts a roster entry; used only by the seeder
func (r *CharacterRepository) Create(c models.Character) (int64, error) {
	query := `
		INSERT INTO characters (name, rarity, class, attack_range, gadget, star_power, release_year)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(query, c.Name, c.Rarity, c.Class, c.Range, c.Gadget, c.StarPower, c.ReleaseYear)
}
