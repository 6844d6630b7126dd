package service

import (
	"fmt"
	"log"

	"rosterdle/internal/clock"
	"rosterdle/internal/models"
)

// Streak milestones that trigger a congratulations email.
var streakMilestones = map[int]bool{7: true, 30: true, 100: true}

// StreakStore persists the local streak copy.
type StreakStore interface {
	Get(playerID int64) (models.Streak, error)
	Save(streak models.Streak) error
}

// ProfileStore is the remote streak copy kept on registered accounts.
type ProfileStore interface {
	GetByID(id int64) (*models.Player, error)
	GetProfileStreak(playerID int64) (models.Streak, error)
	UpdateProfileStreak(playerID int64, count int, lastCompletedDate string) error
}

// MilestoneNotifier sends streak milestone congratulations.
type MilestoneNotifier interface {
	SendStreakMilestone(toEmail, name string, days int) error
}

// StreakService derives the consecutive-day completion streak from the daily
// tracker's all-modes-completed signal. Registered players carry a second
// copy on their account; the copy with the greater count (ties broken by the
// later date) wins and overwrites the other.
type StreakService struct {
	streaks  StreakStore
	profiles ProfileStore
	notifier MilestoneNotifier
	clk      clock.Clock
}

// NewStreakService creates a new streak service
func NewStreakService(streaks StreakStore, profiles ProfileStore, notifier MilestoneNotifier, clk clock.Clock) *StreakService {
	return &StreakService{
		streaks:  streaks,
		profiles: profiles,
		notifier: notifier,
		clk:      clk,
	}
}

// InitializeSession returns the player's effective streak at session start:
// the grace window is applied (a streak survives exactly one missed day), and
// for registered players the local and remote copies are reconciled with the
// loser overwritten.
func (s *StreakService) InitializeSession(player *models.Player) (models.Streak, error) {
	local, err := s.streaks.Get(player.ID)
	if err != nil {
		return models.Streak{}, fmt.Errorf("failed to load streak: %w", err)
	}

	today := clock.GameDate(s.clk.Now())
	if expireStale(&local, today) {
		log.Printf("Streak expired for player %d", player.ID)
		if err := s.streaks.Save(local); err != nil {
			return models.Streak{}, fmt.Errorf("failed to save expired streak: %w", err)
		}
	}

	if !player.IsRegistered() {
		return local, nil
	}

	remote, err := s.profiles.GetProfileStreak(player.ID)
	if err != nil {
		// The remote copy is an enhancement; the local streak still works.
		log.Printf("Warning: failed to load remote streak for player %d: %v", player.ID, err)
		return local, nil
	}

	// The remote copy expires under the same rule, so a stale count can never
	// win reconciliation and resurrect an expired streak.
	remoteExpired := expireStale(&remote, today)

	winner, remoteStale := models.Reconcile(local, remote)
	winner.PlayerID = player.ID
	if remoteStale || remoteExpired {
		if err := s.profiles.UpdateProfileStreak(player.ID, winner.Count, winner.LastCompletedDate); err != nil {
			log.Printf("Warning: failed to push streak to profile for player %d: %v", player.ID, err)
		}
	}
	if winner.Count != local.Count || winner.LastCompletedDate != local.LastCompletedDate {
		if err := s.streaks.Save(winner); err != nil {
			return models.Streak{}, fmt.Errorf("failed to save reconciled streak: %w", err)
		}
	}

	return winner, nil
}

// expireStale zeroes a streak whose last completion is neither today nor
// yesterday. Reports whether the streak was reset.
func expireStale(s *models.Streak, today string) bool {
	if s.LastCompletedDate == "" || s.LastCompletedDate == today || clock.IsYesterday(s.LastCompletedDate, today) {
		return false
	}
	s.Count = 0
	s.LastCompletedDate = ""
	return true
}

// RecordCompletion handles the all-modes-completed signal for a date. The
// count grows by one when the previous completion was exactly yesterday and
// restarts at one otherwise; a repeat signal for the same date is ignored.
// The remote push is fire-and-forget: failure is logged, never rolled back.
func (s *StreakService) RecordCompletion(playerID int64, date string) {
	streak, err := s.streaks.Get(playerID)
	if err != nil {
		log.Printf("Warning: failed to load streak for player %d: %v", playerID, err)
		return
	}

	if streak.LastCompletedDate == date {
		return
	}

	if clock.IsYesterday(streak.LastCompletedDate, date) {
		streak.Count++
	} else {
		streak.Count = 1
	}
	streak.LastCompletedDate = date

	if err := s.streaks.Save(streak); err != nil {
		log.Printf("Warning: failed to save streak for player %d: %v", playerID, err)
		return
	}
	log.Printf("Streak for player %d is now %d (completed %s)", playerID, streak.Count, date)

	player, err := s.profiles.GetByID(playerID)
	if err != nil || player == nil {
		if err != nil {
			log.Printf("Warning: failed to load player %d for streak sync: %v", playerID, err)
		}
		return
	}

	if player.IsRegistered() {
		if err := s.profiles.UpdateProfileStreak(playerID, streak.Count, streak.LastCompletedDate); err != nil {
			log.Printf("Warning: failed to push streak to profile for player %d: %v", playerID, err)
		}
	}

	if streakMilestones[streak.Count] && player.Email != "" && s.notifier != nil {
		if err := s.notifier.SendStreakMilestone(player.Email, player.Name, streak.Count); err != nil {
			log.Printf("Warning: failed to send milestone email to player %d: %v", playerID, err)
		}
	}
}

// Current returns the player's streak after grace-window and reconciliation
// handling.
func (s *StreakService) Current(player *models.Player) (models.Streak, error) {
	return s.InitializeSession(player)
}
