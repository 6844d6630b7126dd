package models

// Rotation policies for survival mode selection
const (
	RotationCycle  = "cycle"
	RotationRandom = "repeat-random"
)

// Survival game lifecycle states
const (
	SurvivalSetup    = "setup"
	SurvivalPlaying  = "playing"
	SurvivalPaused   = "paused"
	SurvivalGameOver = "gameover"
)

// RecentlyUsedLimit is the size of the character cooldown window: a character
// cannot be selected again for this many rounds after being picked, unless the
// roster is too small to honor the exclusion.
const RecentlyUsedLimit = 2

// SurvivalSettings is chosen by the player at setup and kept as defaults for
// the next run.
type SurvivalSettings struct {
	EnabledModes      []GameMode
	RotationPolicy    string
	RoundTimerSeconds int
}

// SurvivalRoundState is the round in progress. It is replaced wholesale each
// time a new round starts, never merged.
type SurvivalRoundState struct {
	RoundNumber        int
	CurrentCharacterID int64
	CurrentMode        GameMode
	GuessQuota         int
	GuessesLeft        int
	TimerLeft          int
	IsActive           bool
}

// SurvivalGameState is a player's persisted survival run, durable so a page
// refresh mid-game can resume.
type SurvivalGameState struct {
	PlayerID     int64
	Settings     *SurvivalSettings
	CurrentRound int
	Status       string
	ActiveRound  *SurvivalRoundState
	RecentlyUsed []int64
	PreviousMode GameMode
}

// NewSurvivalGameState returns the initial setup-phase state.
func NewSurvivalGameState(playerID int64) *SurvivalGameState {
	return &SurvivalGameState{
		PlayerID: playerID,
		Status:   SurvivalSetup,
	}
}

// PushRecentlyUsed records a selected character id at the front of the
// cooldown window, truncating to the most recent entries.
func (s *SurvivalGameState) PushRecentlyUsed(id int64) {
	s.RecentlyUsed = append([]int64{id}, s.RecentlyUsed...)
	if len(s.RecentlyUsed) > RecentlyUsedLimit {
		s.RecentlyUsed = s.RecentlyUsed[:RecentlyUsedLimit]
	}
}

// SurvivalRun is a completed run's result, kept for best-run stats.
type SurvivalRun struct {
	ID             int64
	PlayerID       int64
	RoundsSurvived int
	TotalScore     int
}
