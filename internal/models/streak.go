package models

// Streak counts consecutive game dates on which a player completed all five
// daily modes. Dates are YYYY-MM-DD strings under the fixed UTC+2 boundary.
type Streak struct {
	PlayerID          int64
	Count             int
	LastCompletedDate string
}

// Reconcile picks the authoritative copy between a local and a remote streak:
// the strictly greater count wins, with ties broken by the later completion
// date. Returns the winner and whether the remote side needs updating.
func Reconcile(local, remote Streak) (winner Streak, remoteStale bool) {
	if local.Count > remote.Count {
		return local, true
	}
	if remote.Count > local.Count {
		return remote, false
	}
	if local.LastCompletedDate > remote.LastCompletedDate {
		return local, true
	}
	return remote, false
}
