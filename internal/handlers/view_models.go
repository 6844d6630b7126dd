package handlers

import "rosterdle/internal/models"

// CharacterView is the JSON shape of a roster entry.
type CharacterView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	Class       string `json:"class"`
	Range       string `json:"range"`
	ReleaseYear int    `json:"releaseYear"`
}

func toCharacterView(c models.Character) CharacterView {
	return CharacterView{
		ID:          c.ID,
		Name:        c.Name,
		Rarity:      c.Rarity,
		Class:       c.Class,
		Range:       c.Range,
		ReleaseYear: c.ReleaseYear,
	}
}

// DailyModeView is per-mode progress. The target is never exposed; the client
// learns it only by guessing correctly.
type DailyModeView struct {
	GuessCount  int      `json:"guessCount"`
	IsCompleted bool     `json:"isCompleted"`
	Guesses     []string `json:"guesses"`
}

// DailyStateView is the player's full daily progress.
type DailyStateView struct {
	Date           string                   `json:"date"`
	SecondsToReset int64                    `json:"secondsToReset"`
	Modes          map[string]DailyModeView `json:"modes"`
	CompletedCount int                      `json:"completedCount"`
	TotalModes     int                      `json:"totalModes"`
	AllCompleted   bool                     `json:"allCompleted"`
}

func toDailyStateView(state *models.DailyGameState) DailyStateView {
	view := DailyStateView{
		Date:           state.CurrentDate,
		SecondsToReset: state.SecondsToNext,
		Modes:          make(map[string]DailyModeView, len(state.Modes)),
	}
	for mode, ms := range state.Modes {
		guesses := ms.Guesses
		if guesses == nil {
			guesses = []string{}
		}
		view.Modes[string(mode)] = DailyModeView{
			GuessCount:  ms.GuessCount,
			IsCompleted: ms.IsCompleted,
			Guesses:     guesses,
		}
	}
	view.CompletedCount, view.TotalModes = state.CompletionProgress()
	view.AllCompleted = state.AllModesCompleted()
	return view
}

// SurvivalRoundView is the active round. The character id stays server-side;
// the client sees only the mode and remaining budget.
type SurvivalRoundView struct {
	RoundNumber int    `json:"roundNumber"`
	Mode        string `json:"mode"`
	GuessQuota  int    `json:"guessQuota"`
	GuessesLeft int    `json:"guessesLeft"`
	TimerLeft   int    `json:"timerLeft"`
	IsActive    bool   `json:"isActive"`
}

// SurvivalStateView is the persisted survival game.
type SurvivalStateView struct {
	Status       string                   `json:"status"`
	CurrentRound int                      `json:"currentRound"`
	Settings     *models.SurvivalSettings `json:"settings,omitempty"`
	ActiveRound  *SurvivalRoundView       `json:"activeRound,omitempty"`
}

func toSurvivalStateView(state *models.SurvivalGameState) SurvivalStateView {
	view := SurvivalStateView{
		Status:       state.Status,
		CurrentRound: state.CurrentRound,
		Settings:     state.Settings,
	}
	if state.ActiveRound != nil {
		view.ActiveRound = &SurvivalRoundView{
			RoundNumber: state.ActiveRound.RoundNumber,
			Mode:        string(state.ActiveRound.CurrentMode),
			GuessQuota:  state.ActiveRound.GuessQuota,
			GuessesLeft: state.ActiveRound.GuessesLeft,
			TimerLeft:   state.ActiveRound.TimerLeft,
			IsActive:    state.ActiveRound.IsActive,
		}
	}
	return view
}

// StreakView is the player's streak.
type StreakView struct {
	Count             int    `json:"count"`
	LastCompletedDate string `json:"lastCompletedDate,omitempty"`
}
