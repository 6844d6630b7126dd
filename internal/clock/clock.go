// Package clock provides the fixed-offset game calendar. All daily resets
// happen at midnight UTC+2 regardless of the player's local timezone, so every
// player sees the daily targets change at the same absolute instant.
package clock

import "time"

// gameZone is the fixed UTC+2 offset used for all date boundaries.
var gameZone = time.FixedZone("UTC+2", 2*60*60)

// DateLayout is the wire format for game dates.
const DateLayout = "2006-01-02"

// Clock supplies the current time. Production code uses SystemClock; tests
// inject a fixed clock to simulate rollovers.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock pinned to a single instant.
type Fixed struct {
	Time time.Time
}

func (f Fixed) Now() time.Time {
	return f.Time
}

// GameDate formats an instant as a YYYY-MM-DD game date in UTC+2.
func GameDate(t time.Time) string {
	return t.In(gameZone).Format(DateLayout)
}

// PreviousGameDate returns the game date one day before the given instant.
func PreviousGameDate(t time.Time) string {
	return t.In(gameZone).AddDate(0, 0, -1).Format(DateLayout)
}

// SecondsToNextReset returns the number of seconds until the next UTC+2
// midnight, when daily progress resets.
func SecondsToNextReset(t time.Time) int64 {
	local := t.In(gameZone)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, gameZone)
	return int64(next.Sub(local).Seconds())
}

// IsYesterday reports whether date is exactly one game day before reference.
// Both arguments are YYYY-MM-DD strings; malformed input returns false.
func IsYesterday(date, reference string) bool {
	ref, err := time.ParseInLocation(DateLayout, reference, gameZone)
	if err != nil {
		return false
	}
	return ref.AddDate(0, 0, -1).Format(DateLayout) == date
}
