package service

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log"

	"rosterdle/internal/clock"
	"rosterdle/internal/models"
)

var ErrNoCharacters = errors.New("character roster is empty")

// ChallengeStore persists the shared daily answers.
type ChallengeStore interface {
	Get(mode models.GameMode, date string) (*models.DailyChallenge, error)
	Create(c models.DailyChallenge) error
}

// RosterReader supplies the immutable character roster.
type RosterReader interface {
	ListCharacters() ([]models.Character, error)
}

// ChallengeService computes and memoizes the daily target for each mode. The
// pick is a deterministic hash of date and mode over the roster, stored in the
// daily_challenges table so every player shares one answer per mode per
// UTC+2 day.
type ChallengeService struct {
	challenges ChallengeStore
	roster     RosterReader
	clk        clock.Clock
}

// NewChallengeService creates a new challenge service
func NewChallengeService(challenges ChallengeStore, roster RosterReader, clk clock.Clock) *ChallengeService {
	return &ChallengeService{
		challenges: challenges,
		roster:     roster,
		clk:        clk,
	}
}

// TodayChallenge returns the challenge for a mode on the current game date,
// creating it if this is the first request of the day.
func (s *ChallengeService) TodayChallenge(mode models.GameMode) (*models.DailyChallenge, error) {
	return s.ChallengeFor(mode, clock.GameDate(s.clk.Now()))
}

// YesterdayChallenge returns yesterday's challenge for display, or nil if it
// was never generated. Best-effort: it does not create missing rows.
func (s *ChallengeService) YesterdayChallenge(mode models.GameMode) (*models.DailyChallenge, error) {
	return s.challenges.Get(mode, clock.PreviousGameDate(s.clk.Now()))
}

// ChallengeFor returns the challenge for a mode and date, generating and
// storing it on first access.
func (s *ChallengeService) ChallengeFor(mode models.GameMode, date string) (*models.DailyChallenge, error) {
	existing, err := s.challenges.Get(mode, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	chars, err := s.roster.ListCharacters()
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	if len(chars) == 0 {
		return nil, ErrNoCharacters
	}

	target := chars[dateModeIndex(date, mode, len(chars))]
	challenge := models.DailyChallenge{
		Mode:          mode,
		ChallengeDate: date,
		TargetName:    target.Name,
		ModePayload:   modePayload(mode, target),
	}

	if err := s.challenges.Create(challenge); err != nil {
		// Unique constraint race: another request generated the same
		// challenge first. Re-read and use theirs.
		stored, readErr := s.challenges.Get(mode, date)
		if readErr == nil && stored != nil {
			return stored, nil
		}
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}

	log.Printf("Generated daily challenge: mode=%s date=%s target=%s", mode, date, target.Name)
	return &challenge, nil
}

// modePayload returns the mode-specific hint payload drawn from the target.
func modePayload(mode models.GameMode, c models.Character) string {
	switch mode {
	case models.ModeGadget:
		return c.Gadget
	case models.ModeStarPower:
		return c.StarPower
	}
	return ""
}

// dateModeIndex hashes date and mode to a stable roster index so the daily
// pick is reproducible without storing any randomness.
func dateModeIndex(date string, mode models.GameMode, rosterSize int) int {
	h := fnv.New64a()
	h.Write([]byte(date))
	h.Write([]byte{'|'})
	h.Write([]byte(mode))
	return int(h.Sum64() % uint64(rosterSize))
}
