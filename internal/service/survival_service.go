package service

import (
	"errors"
	"fmt"
	"log"

	"rosterdle/internal/models"
	"rosterdle/internal/selection"
)

// DefaultRoundTimerSeconds is the fixed per-round countdown.
const DefaultRoundTimerSeconds = 150

var (
	ErrNoActiveGame  = errors.New("no survival game in progress")
	ErrGameNotSetup  = errors.New("survival game has not been configured")
	ErrInvalidConfig = errors.New("invalid survival settings")
)

// SurvivalStore persists the in-progress game, default settings and run
// history.
type SurvivalStore interface {
	GetGame(playerID int64) (*models.SurvivalGameState, error)
	SaveGame(state *models.SurvivalGameState) error
	GetDefaultSettings(playerID int64) (*models.SurvivalSettings, error)
	SaveDefaultSettings(playerID int64, settings *models.SurvivalSettings) error
	RecordRun(playerID int64, roundsSurvived, totalScore int) error
	GetBestRun(playerID int64) (*models.SurvivalRun, error)
}

// SurvivalGuessOutcome is the result of a survival guess.
type SurvivalGuessOutcome struct {
	Correct     bool
	Score       int
	GuessesLeft int
	State       *models.SurvivalGameState
}

// SurvivalService is the survival round state machine: it owns the persisted
// game lifecycle (setup -> playing <-> paused, playing -> gameover), advances
// rounds through the selection engine, and tracks the two-round character
// cooldown window.
type SurvivalService struct {
	store  SurvivalStore
	roster RosterReader
}

// NewSurvivalService creates a new survival service
func NewSurvivalService(store SurvivalStore, roster RosterReader) *SurvivalService {
	return &SurvivalService{store: store, roster: roster}
}

// DefaultSettings returns the player's last-used settings, or the stock
// defaults for a first run.
func (s *SurvivalService) DefaultSettings(playerID int64) (*models.SurvivalSettings, error) {
	stored, err := s.store.GetDefaultSettings(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load default settings: %w", err)
	}
	if stored != nil {
		return stored, nil
	}
	return &models.SurvivalSettings{
		EnabledModes:      models.AllModes(),
		RotationPolicy:    models.RotationRandom,
		RoundTimerSeconds: DefaultRoundTimerSeconds,
	}, nil
}

// InitializeGame validates the settings, resets all round and cooldown state
// and moves the game to playing. Round 1 starts with the next StartNextRound
// call. The settings are also stored as the player's defaults.
func (s *SurvivalService) InitializeGame(playerID int64, settings models.SurvivalSettings) (*models.SurvivalGameState, error) {
	if len(settings.EnabledModes) == 0 {
		return nil, fmt.Errorf("%w: no modes enabled", ErrInvalidConfig)
	}
	for _, m := range settings.EnabledModes {
		if !m.IsValid() {
			return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, m)
		}
	}
	if settings.RotationPolicy != models.RotationCycle && settings.RotationPolicy != models.RotationRandom {
		settings.RotationPolicy = models.RotationRandom
	}
	if settings.RoundTimerSeconds <= 0 {
		settings.RoundTimerSeconds = DefaultRoundTimerSeconds
	}

	state := models.NewSurvivalGameState(playerID)
	state.Settings = &settings
	state.Status = models.SurvivalPlaying

	if err := s.store.SaveGame(state); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}
	if err := s.store.SaveDefaultSettings(playerID, &settings); err != nil {
		log.Printf("Warning: failed to save default settings for player %d: %v", playerID, err)
	}
	return state, nil
}

// StartNextRound advances to the next round: it bumps the round counter,
// computes the shrinking guess quota, asks the selection engine for the next
// character and mode, and replaces the active round wholesale. An explicit
// mode bypasses mode rotation but still honors the character cooldown.
// Selection failures degrade to the first available character and mode with a
// logged warning instead of killing the round loop.
func (s *SurvivalService) StartNextRound(playerID int64, explicitMode models.GameMode) (*models.SurvivalGameState, error) {
	state, err := s.loadPlaying(playerID)
	if err != nil {
		return nil, err
	}

	chars, err := s.roster.ListCharacters()
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	state.CurrentRound++
	quota := selection.NextGuessQuota(state.CurrentRound)

	settings := *state.Settings
	if explicitMode != "" && explicitMode.IsValid() {
		settings.EnabledModes = []models.GameMode{explicitMode}
	}

	sel, err := selection.SelectNext(chars, settings, state.RecentlyUsed, state.PreviousMode)
	if err != nil {
		if len(chars) == 0 {
			return nil, selection.ErrEmptyRoster
		}
		// Fall back to the first character and first enabled mode
		// rather than failing the round.
		log.Printf("Warning: selection failed for player %d round %d, using fallback: %v", playerID, state.CurrentRound, err)
		sel = selection.Selection{
			CharacterID: chars[0].ID,
			Mode:        state.Settings.EnabledModes[0],
			Degraded:    true,
			Reason:      err.Error(),
		}
	}
	if sel.Degraded {
		log.Printf("Degraded selection for player %d round %d: %s", playerID, state.CurrentRound, sel.Reason)
	}

	state.PushRecentlyUsed(sel.CharacterID)
	state.PreviousMode = sel.Mode
	state.ActiveRound = &models.SurvivalRoundState{
		RoundNumber:        state.CurrentRound,
		CurrentCharacterID: sel.CharacterID,
		CurrentMode:        sel.Mode,
		GuessQuota:         quota,
		GuessesLeft:        quota,
		TimerLeft:          state.Settings.RoundTimerSeconds,
		IsActive:           true,
	}

	if err := s.store.SaveGame(state); err != nil {
		return nil, fmt.Errorf("failed to save round: %w", err)
	}
	return state, nil
}

// Guess checks a guessed character against the active round. A correct guess
// scores the round; a wrong guess burns one from the quota. Reaching zero
// guesses is the caller's loss condition, handled via GameOver.
func (s *SurvivalService) Guess(playerID, characterID int64) (*SurvivalGuessOutcome, error) {
	state, err := s.loadPlaying(playerID)
	if err != nil {
		return nil, err
	}
	round := state.ActiveRound
	if round == nil || !round.IsActive || round.GuessesLeft <= 0 {
		return &SurvivalGuessOutcome{State: state}, nil
	}

	if characterID == round.CurrentCharacterID {
		guessesUsed := round.GuessQuota - round.GuessesLeft + 1
		elapsed := state.Settings.RoundTimerSeconds - round.TimerLeft
		score := selection.RoundScore(guessesUsed, elapsed)

		round.IsActive = false
		if err := s.store.SaveGame(state); err != nil {
			return nil, fmt.Errorf("failed to save round result: %w", err)
		}
		return &SurvivalGuessOutcome{Correct: true, Score: score, GuessesLeft: round.GuessesLeft, State: state}, nil
	}

	round.GuessesLeft--
	if err := s.store.SaveGame(state); err != nil {
		return nil, fmt.Errorf("failed to save guess: %w", err)
	}
	return &SurvivalGuessOutcome{GuessesLeft: round.GuessesLeft, State: state}, nil
}

// SetTimerLeft records a timer tick. Ticks for a round other than the current
// one are stale callbacks from a replaced round and are dropped.
func (s *SurvivalService) SetTimerLeft(playerID int64, roundNumber, secondsLeft int) error {
	state, err := s.store.GetGame(playerID)
	if err != nil {
		return fmt.Errorf("failed to load game: %w", err)
	}
	if state == nil || state.ActiveRound == nil || state.ActiveRound.RoundNumber != roundNumber {
		return nil
	}
	if secondsLeft < 0 {
		secondsLeft = 0
	}
	state.ActiveRound.TimerLeft = secondsLeft
	return s.store.SaveGame(state)
}

// PauseGame moves a playing game to paused. Round counters are untouched.
func (s *SurvivalService) PauseGame(playerID int64) (*models.SurvivalGameState, error) {
	return s.setStatus(playerID, models.SurvivalPlaying, models.SurvivalPaused)
}

// ResumeGame moves a paused game back to playing.
func (s *SurvivalService) ResumeGame(playerID int64) (*models.SurvivalGameState, error) {
	return s.setStatus(playerID, models.SurvivalPaused, models.SurvivalPlaying)
}

// GameOver ends the run, records it for best-run stats and deactivates the
// round.
func (s *SurvivalService) GameOver(playerID int64, totalScore int) (*models.SurvivalGameState, error) {
	state, err := s.store.GetGame(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if state == nil {
		return nil, ErrNoActiveGame
	}

	state.Status = models.SurvivalGameOver
	if state.ActiveRound != nil {
		state.ActiveRound.IsActive = false
	}
	if err := s.store.SaveGame(state); err != nil {
		return nil, fmt.Errorf("failed to save game over: %w", err)
	}

	if err := s.store.RecordRun(playerID, state.CurrentRound, totalScore); err != nil {
		log.Printf("Warning: failed to record run for player %d: %v", playerID, err)
	}
	return state, nil
}

// QuitGame resets to the setup state, clearing rounds and cooldown memory but
// keeping the settings for a quick restart.
func (s *SurvivalService) QuitGame(playerID int64) (*models.SurvivalGameState, error) {
	state, err := s.store.GetGame(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if state == nil {
		return nil, ErrNoActiveGame
	}

	settings := state.Settings
	state = models.NewSurvivalGameState(playerID)
	state.Settings = settings

	if err := s.store.SaveGame(state); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}
	return state, nil
}

// GameState returns the persisted game so a page refresh can resume, or nil
// if the player has never started one.
func (s *SurvivalService) GameState(playerID int64) (*models.SurvivalGameState, error) {
	return s.store.GetGame(playerID)
}

// BestRun returns the player's best completed run, or nil.
func (s *SurvivalService) BestRun(playerID int64) (*models.SurvivalRun, error) {
	return s.store.GetBestRun(playerID)
}

func (s *SurvivalService) loadPlaying(playerID int64) (*models.SurvivalGameState, error) {
	state, err := s.store.GetGame(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if state == nil || state.Settings == nil {
		return nil, ErrGameNotSetup
	}
	if state.Status != models.SurvivalPlaying {
		return nil, ErrNoActiveGame
	}
	return state, nil
}

func (s *SurvivalService) setStatus(playerID int64, from, to string) (*models.SurvivalGameState, error) {
	state, err := s.store.GetGame(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	if state == nil || state.Status != from {
		return nil, ErrNoActiveGame
	}
	state.Status = to
	if err := s.store.SaveGame(state); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}
	return state, nil
}
