// Package selection contains the pure decision functions for survival mode:
// guess quota per round, and the next character/mode pick under rotation and
// cooldown constraints. The engine keeps no internal state; the previously
// chosen mode is passed in and returned explicitly so concurrent games and
// tests cannot interfere with each other.
package selection

import (
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	mathrand "math/rand"

	"rosterdle/internal/models"
)

var (
	ErrNoModesEnabled = errors.New("no survival modes enabled")
	ErrEmptyRoster    = errors.New("character roster is empty")
)

// Selection is the outcome of a pick. Degraded is set when the engine had to
// relax a constraint (e.g. the cooldown exclusion would have emptied the
// candidate pool) instead of failing the round.
type Selection struct {
	CharacterID int64
	Mode        models.GameMode
	Degraded    bool
	Reason      string
}

// NextGuessQuota returns the guess allowance for a round. The quota shrinks by
// one every three rounds, from 9 down to a floor of 3.
//
// An earlier revision used a linear 10-down-to-1 table; the stepped table is
// canonical and locked in by TestNextGuessQuotaTable.
func NextGuessQuota(round int) int {
	if round < 1 {
		round = 1
	}
	quota := 9 - (round-1)/3
	if quota < 3 {
		return 3
	}
	return quota
}

// SelectNext picks the next character and mode for a survival round.
//
// Mode choice: when more than one mode is enabled, the previously chosen mode
// is excluded so a mode never repeats back-to-back. Character choice: ids in
// recentlyUsed are excluded unless that would leave no candidates, in which
// case the exclusion is dropped and the result is flagged Degraded rather
// than deadlocking on a small roster.
func SelectNext(chars []models.Character, settings models.SurvivalSettings, recentlyUsed []int64, prevMode models.GameMode) (Selection, error) {
	if len(settings.EnabledModes) == 0 {
		return Selection{}, ErrNoModesEnabled
	}
	if len(chars) == 0 {
		return Selection{}, ErrEmptyRoster
	}

	mode := pickMode(settings, prevMode)

	candidates := chars
	degraded := false
	reason := ""
	if len(recentlyUsed) > 0 {
		filtered := make([]models.Character, 0, len(chars))
		for _, c := range chars {
			if !containsID(recentlyUsed, c.ID) {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		} else {
			degraded = true
			reason = "cooldown exclusion emptied candidate pool, using full roster"
		}
	}

	pick := candidates[randomIndex(len(candidates))]
	return Selection{
		CharacterID: pick.ID,
		Mode:        mode,
		Degraded:    degraded,
		Reason:      reason,
	}, nil
}

// pickMode chooses uniformly among the enabled modes, excluding the previous
// mode when an alternative exists. The cycle policy walks the enabled list in
// order instead of picking at random.
func pickMode(settings models.SurvivalSettings, prevMode models.GameMode) models.GameMode {
	enabled := settings.EnabledModes
	if len(enabled) == 1 {
		return enabled[0]
	}

	if settings.RotationPolicy == models.RotationCycle {
		for i, m := range enabled {
			if m == prevMode {
				return enabled[(i+1)%len(enabled)]
			}
		}
		return enabled[0]
	}

	candidates := make([]models.GameMode, 0, len(enabled))
	for _, m := range enabled {
		if m != prevMode {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		candidates = enabled
	}
	return candidates[randomIndex(len(candidates))]
}

// randomIndex returns a uniform index in [0, n) from crypto/rand, falling
// back to math/rand if the system entropy source fails.
func randomIndex(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		log.Printf("Warning: crypto/rand failed, falling back to math/rand: %v", err)
		return mathrand.Intn(n)
	}
	return int(v.Int64())
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
