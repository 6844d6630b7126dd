package models

// GameMode identifies one of the daily guessing variants
type GameMode string

const (
	ModeClassic   GameMode = "classic"
	ModeGadget    GameMode = "gadget"
	ModeStarPower GameMode = "starpower"
	ModeAudio     GameMode = "audio"
	ModePixels    GameMode = "pixels"
)

// AllModes returns every guessing variant in canonical order
func AllModes() []GameMode {
	return []GameMode{ModeClassic, ModeGadget, ModeStarPower, ModeAudio, ModePixels}
}

// IsValid reports whether the mode is one of the known variants
func (m GameMode) IsValid() bool {
	switch m {
	case ModeClassic, ModeGadget, ModeStarPower, ModeAudio, ModePixels:
		return true
	}
	return false
}

// Character represents a playable roster entry. Characters are seeded at
// startup and never created or modified by the game itself.
type Character struct {
	ID          int64
	Name        string
	Rarity      string
	Class       string
	Range       string
	Gadget      string
	StarPower   string
	ReleaseYear int
}
