package selection

// Score constants for a correct survival guess.
const (
	baseScore       = 100
	guessBonusMax   = 55
	guessBonusStep  = 5
	timeBonusMax    = 30
	timeBonusWindow = 5
)

// RoundScore computes the points for a correct guess: a base value plus a
// bonus that shrinks with guesses used and a bonus that shrinks with elapsed
// time. Neither bonus goes below zero.
func RoundScore(guessesUsed, elapsedSeconds int) int {
	guessBonus := guessBonusMax - guessesUsed*guessBonusStep
	if guessBonus < 0 {
		guessBonus = 0
	}
	timeBonus := timeBonusMax - elapsedSeconds/timeBonusWindow
	if timeBonus < 0 {
		timeBonus = 0
	}
	return baseScore + guessBonus + timeBonus
}
