package models

import "strings"

// DailyModeState tracks one player's progress in a single mode for the
// current game date.
type DailyModeState struct {
	TargetName        string
	GuessCount        int
	IsCompleted       bool
	LastCompletedDate string
	Guesses           []string
}

// HasGuessed reports whether the name has already been guessed in this mode.
// Comparison is case-insensitive because names are the player-facing key.
func (s *DailyModeState) HasGuessed(name string) bool {
	for _, g := range s.Guesses {
		if strings.EqualFold(g, name) {
			return true
		}
	}
	return false
}

// DailyGameState aggregates a player's per-mode progress for one game date.
// The state is wiped wholesale when CurrentDate no longer matches today under
// the fixed UTC+2 boundary.
type DailyGameState struct {
	PlayerID      int64
	CurrentDate   string
	LastFetchDate string
	Modes         map[GameMode]*DailyModeState
	SecondsToNext int64
}

// NewDailyGameState creates an empty state for the given date with all five
// modes initialized.
func NewDailyGameState(playerID int64, date string) *DailyGameState {
	modes := make(map[GameMode]*DailyModeState, len(AllModes()))
	for _, m := range AllModes() {
		modes[m] = &DailyModeState{}
	}
	return &DailyGameState{
		PlayerID:    playerID,
		CurrentDate: date,
		Modes:       modes,
	}
}

// AllModesCompleted reports whether every mode has been solved today.
func (s *DailyGameState) AllModesCompleted() bool {
	for _, m := range AllModes() {
		ms, ok := s.Modes[m]
		if !ok || !ms.IsCompleted {
			return false
		}
	}
	return true
}

// CompletionProgress returns how many of the five modes are solved.
func (s *DailyGameState) CompletionProgress() (completed, total int) {
	total = len(AllModes())
	for _, m := range AllModes() {
		if ms, ok := s.Modes[m]; ok && ms.IsCompleted {
			completed++
		}
	}
	return completed, total
}

// DailyChallenge is the shared answer for one mode on one game date.
type DailyChallenge struct {
	ID            int64
	Mode          GameMode
	ChallengeDate string
	TargetName    string
	ModePayload   string
}
