package service

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"rosterdle/internal/models"
	"rosterdle/internal/repository"
)

// RosterService seeds and serves the character roster.
type RosterService struct {
	characters *repository.CharacterRepository
}

// NewRosterService creates a new roster service
func NewRosterService(characters *repository.CharacterRepository) *RosterService {
	return &RosterService{characters: characters}
}

type seedCharacter struct {
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	Class       string `json:"class"`
	Range       string `json:"range"`
	Gadget      string `json:"gadget"`
	StarPower   string `json:"starPower"`
	ReleaseYear int    `json:"releaseYear"`
}

// SeedFromFile loads the roster JSON and inserts any characters not yet in
// the table. Safe to run on every startup.
func (s *RosterService) SeedFromFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read roster seed %s: %w", path, err)
	}

	var seeds []seedCharacter
	if err := json.Unmarshal(content, &seeds); err != nil {
		return fmt.Errorf("failed to parse roster seed: %w", err)
	}

	inserted := 0
	for _, seed := range seeds {
		if seed.Name == "" {
			continue
		}
		existing, err := s.characters.GetByName(seed.Name)
		if err != nil {
			return fmt.Errorf("failed to check character %s: %w", seed.Name, err)
		}
		if existing != nil {
			continue
		}

		_, err = s.characters.Create(models.Character{
			Name:        seed.Name,
			Rarity:      seed.Rarity,
			Class:       seed.Class,
			Range:       seed.Range,
			Gadget:      seed.Gadget,
			StarPower:   seed.StarPower,
			ReleaseYear: seed.ReleaseYear,
		})
		if err != nil {
			return fmt.Errorf("failed to insert character %s: %w", seed.Name, err)
		}
		inserted++
	}

	if inserted > 0 {
		log.Printf("Seeded %d roster characters from %s", inserted, path)
	}
	return nil
}

// ListCharacters returns the full roster.
func (s *RosterService) ListCharacters() ([]models.Character, error) {
	return s.characters.ListCharacters()
}
