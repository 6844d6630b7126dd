package models

import "time"

// Player is a game participant. Anonymous players are identified only by a
// server-issued device token; registered players also carry an email and
// password hash (or an OAuth identity) and get cross-device streak sync.
type Player struct {
	ID            int64
	DeviceToken   string
	Email         string
	PasswordHash  string
	Name          string
	OAuthProvider string
	OAuthSubject  string
	CreatedAt     time.Time
}

// IsRegistered reports whether this player has a persistent account, which
// enables remote streak reconciliation.
func (p *Player) IsRegistered() bool {
	return p.Email != "" || p.OAuthSubject != ""
}
