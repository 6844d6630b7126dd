package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"rosterdle/internal/clock"
	"rosterdle/internal/models"
)

var (
	ErrUnknownMode      = errors.New("unknown game mode")
	ErrUnknownCharacter = errors.New("unknown character name")
	ErrModeCompleted    = errors.New("mode already completed today")
)

// DailyStore persists per-player daily progress.
type DailyStore interface {
	GetState(playerID int64) (*models.DailyGameState, error)
	SaveMeta(playerID int64, gameDate, lastFetchDate string) error
	SaveModeState(playerID int64, mode models.GameMode, ms *models.DailyModeState) error
	WipeProgress(playerID int64) error
}

// ChallengeProvider supplies the shared daily answers.
type ChallengeProvider interface {
	TodayChallenge(mode models.GameMode) (*models.DailyChallenge, error)
	YesterdayChallenge(mode models.GameMode) (*models.DailyChallenge, error)
}

// CharacterFinder resolves guessed names against the roster.
type CharacterFinder interface {
	GetByName(name string) (*models.Character, error)
}

// StreakRecorder is notified when a player completes all modes for a date.
type StreakRecorder interface {
	RecordCompletion(playerID int64, date string)
}

// GuessOutcome is the result of a daily guess submission.
type GuessOutcome struct {
	Correct   bool
	Duplicate bool
	Character *models.Character
	State     *models.DailyGameState
}

// DailyService is the daily progress tracker: it owns per-mode completion
// state keyed by the UTC+2 game date, wipes it on rollover, and derives the
// all-modes-completed signal the streak tracker consumes.
type DailyService struct {
	store      DailyStore
	challenges ChallengeProvider
	characters CharacterFinder
	streaks    StreakRecorder
	clk        clock.Clock
}

// NewDailyService creates a new daily progress service
func NewDailyService(store DailyStore, challenges ChallengeProvider, characters CharacterFinder, streaks StreakRecorder, clk clock.Clock) *DailyService {
	return &DailyService{
		store:      store,
		challenges: challenges,
		characters: characters,
		streaks:    streaks,
		clk:        clk,
	}
}

// Initialize loads a player's daily state, wiping it if the tracked date has
// rolled over and fetching today's targets if they have not been fetched yet.
// A fetch failure for one mode leaves that mode's target empty and never
// blocks the others.
func (s *DailyService) Initialize(playerID int64) (*models.DailyGameState, error) {
	today := clock.GameDate(s.clk.Now())

	state, err := s.store.GetState(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily state: %w", err)
	}

	if state == nil || state.CurrentDate != today {
		if state != nil {
			log.Printf("Daily rollover for player %d: %s -> %s", playerID, state.CurrentDate, today)
		}
		if err := s.store.WipeProgress(playerID); err != nil {
			return nil, fmt.Errorf("failed to wipe daily progress: %w", err)
		}
		state = models.NewDailyGameState(playerID, today)
		if err := s.store.SaveMeta(playerID, today, ""); err != nil {
			return nil, fmt.Errorf("failed to save daily meta: %w", err)
		}
	}

	if state.LastFetchDate != today {
		for _, mode := range models.AllModes() {
			challenge, err := s.challenges.TodayChallenge(mode)
			if err != nil {
				// Leave the target empty; the guess path treats an
				// empty target as unsolvable rather than crashing.
				log.Printf("Warning: failed to fetch %s challenge for player %d: %v", mode, playerID, err)
				continue
			}
			ms := state.Modes[mode]
			ms.TargetName = challenge.TargetName
			if err := s.store.SaveModeState(playerID, mode, ms); err != nil {
				return nil, fmt.Errorf("failed to save %s state: %w", mode, err)
			}
		}
		state.LastFetchDate = today
		if err := s.store.SaveMeta(playerID, today, today); err != nil {
			return nil, fmt.Errorf("failed to save daily meta: %w", err)
		}
	}

	state.SecondsToNext = clock.SecondsToNextReset(s.clk.Now())
	return state, nil
}

// SubmitGuess records a guess for a mode. Duplicate names (case-insensitive)
// are rejected without changing state; the guess list and count are written
// together in one statement so they cannot drift apart. A correct guess
// completes the mode.
func (s *DailyService) SubmitGuess(playerID int64, mode models.GameMode, guessName string) (*GuessOutcome, error) {
	if !mode.IsValid() {
		return nil, ErrUnknownMode
	}

	state, err := s.Initialize(playerID)
	if err != nil {
		return nil, err
	}

	ms := state.Modes[mode]
	if ms.IsCompleted {
		return nil, ErrModeCompleted
	}

	character, err := s.characters.GetByName(guessName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up character: %w", err)
	}
	if character == nil {
		return nil, ErrUnknownCharacter
	}

	if ms.HasGuessed(character.Name) {
		return &GuessOutcome{Duplicate: true, Character: character, State: state}, nil
	}

	ms.Guesses = append(ms.Guesses, character.Name)
	ms.GuessCount++
	if err := s.store.SaveModeState(playerID, mode, ms); err != nil {
		return nil, fmt.Errorf("failed to save guess: %w", err)
	}

	outcome := &GuessOutcome{Character: character, State: state}
	if ms.TargetName != "" && strings.EqualFold(character.Name, ms.TargetName) {
		outcome.Correct = true
		if err := s.CompleteMode(playerID, mode, state); err != nil {
			return nil, err
		}
	}

	return outcome, nil
}

// CompleteMode marks a mode solved for today. Calling it again is a no-op, so
// a completion can never count twice toward the streak.
func (s *DailyService) CompleteMode(playerID int64, mode models.GameMode, state *models.DailyGameState) error {
	if !mode.IsValid() {
		return ErrUnknownMode
	}

	if state == nil {
		var err error
		state, err = s.Initialize(playerID)
		if err != nil {
			return err
		}
	}

	ms := state.Modes[mode]
	if ms.IsCompleted {
		return nil
	}

	today := clock.GameDate(s.clk.Now())
	ms.IsCompleted = true
	ms.LastCompletedDate = today
	if err := s.store.SaveModeState(playerID, mode, ms); err != nil {
		return fmt.Errorf("failed to save completion: %w", err)
	}

	if state.AllModesCompleted() {
		s.streaks.RecordCompletion(playerID, today)
	}
	return nil
}

// ResetMode clears a mode's guesses and completion flag for retry flows. The
// target is untouched.
func (s *DailyService) ResetMode(playerID int64, mode models.GameMode) (*models.DailyGameState, error) {
	if !mode.IsValid() {
		return nil, ErrUnknownMode
	}

	state, err := s.Initialize(playerID)
	if err != nil {
		return nil, err
	}

	ms := state.Modes[mode]
	ms.GuessCount = 0
	ms.Guesses = nil
	ms.IsCompleted = false
	if err := s.store.SaveModeState(playerID, mode, ms); err != nil {
		return nil, fmt.Errorf("failed to reset mode: %w", err)
	}
	return state, nil
}

// YesterdayTargets returns yesterday's answer per mode for the reveal screen.
// Missing or failed lookups are skipped; this surface is display-only.
func (s *DailyService) YesterdayTargets() map[models.GameMode]string {
	targets := make(map[models.GameMode]string)
	for _, mode := range models.AllModes() {
		challenge, err := s.challenges.YesterdayChallenge(mode)
		if err != nil {
			log.Printf("Warning: failed to fetch yesterday's %s challenge: %v", mode, err)
			continue
		}
		if challenge != nil {
			targets[mode] = challenge.TargetName
		}
	}
	return targets
}
