package service

import (
	"testing"
	"time"

	"rosterdle/internal/clock"
	"rosterdle/internal/models"
)

type fakeStreakStore struct {
	streak models.Streak
}

func (f *fakeStreakStore) Get(playerID int64) (models.Streak, error) {
	s := f.streak
	s.PlayerID = playerID
	return s, nil
}

func (f *fakeStreakStore) Save(streak models.Streak) error {
	f.streak = streak
	return nil
}

type fakeProfileStore struct {
	player *models.Player
	remote models.Streak
	pushes []models.Streak
}

func (f *fakeProfileStore) GetByID(id int64) (*models.Player, error) {
	return f.player, nil
}

func (f *fakeProfileStore) GetProfileStreak(playerID int64) (models.Streak, error) {
	return f.remote, nil
}

func (f *fakeProfileStore) UpdateProfileStreak(playerID int64, count int, lastCompletedDate string) error {
	f.remote = models.Streak{PlayerID: playerID, Count: count, LastCompletedDate: lastCompletedDate}
	f.pushes = append(f.pushes, f.remote)
	return nil
}

type fakeNotifier struct {
	sent []int
}

func (f *fakeNotifier) SendStreakMilestone(toEmail, name string, days int) error {
	f.sent = append(f.sent, days)
	return nil
}

// Fixed at 2024-01-05 in game time.
func streakFixture() (*StreakService, *fakeStreakStore, *fakeProfileStore, *fakeNotifier) {
	streaks := &fakeStreakStore{}
	profiles := &fakeProfileStore{player: &models.Player{ID: 1, DeviceToken: "dev"}}
	notifier := &fakeNotifier{}
	clk := clock.Fixed{Time: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)}
	return NewStreakService(streaks, profiles, notifier, clk), streaks, profiles, notifier
}

func TestStreakRecordCompletion(t *testing.T) {
	tests := []struct {
		name      string
		existing  models.Streak
		date      string
		wantCount int
		wantDate  string
	}{
		{
			name:      "first completion starts at one",
			existing:  models.Streak{},
			date:      "2024-01-05",
			wantCount: 1,
			wantDate:  "2024-01-05",
		},
		{
			name:      "consecutive day extends",
			existing:  models.Streak{Count: 4, LastCompletedDate: "2024-01-04"},
			date:      "2024-01-05",
			wantCount: 5,
			wantDate:  "2024-01-05",
		},
		{
			name:      "gap restarts at one",
			existing:  models.Streak{Count: 9, LastCompletedDate: "2024-01-02"},
			date:      "2024-01-05",
			wantCount: 1,
			wantDate:  "2024-01-05",
		},
		{
			name:      "same date is a no-op",
			existing:  models.Streak{Count: 4, LastCompletedDate: "2024-01-05"},
			date:      "2024-01-05",
			wantCount: 4,
			wantDate:  "2024-01-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, streaks, _, _ := streakFixture()
			streaks.streak = tt.existing

			svc.RecordCompletion(1, tt.date)

			if streaks.streak.Count != tt.wantCount || streaks.streak.LastCompletedDate != tt.wantDate {
				t.Errorf("streak = (%d, %s), want (%d, %s)",
					streaks.streak.Count, streaks.streak.LastCompletedDate, tt.wantCount, tt.wantDate)
			}
		})
	}
}

func TestStreakRecordCompletionPushesToProfile(t *testing.T) {
	svc, streaks, profiles, _ := streakFixture()
	profiles.player = &models.Player{ID: 1, Email: "p@example.com"}
	streaks.streak = models.Streak{Count: 2, LastCompletedDate: "2024-01-04"}

	svc.RecordCompletion(1, "2024-01-05")

	if len(profiles.pushes) != 1 {
		t.Fatalf("profile pushes = %d, want 1", len(profiles.pushes))
	}
	if profiles.remote.Count != 3 || profiles.remote.LastCompletedDate != "2024-01-05" {
		t.Errorf("remote streak = %+v", profiles.remote)
	}
}

func TestStreakRecordCompletionSkipsPushForAnonymous(t *testing.T) {
	svc, streaks, profiles, _ := streakFixture()
	streaks.streak = models.Streak{Count: 2, LastCompletedDate: "2024-01-04"}

	svc.RecordCompletion(1, "2024-01-05")

	if len(profiles.pushes) != 0 {
		t.Errorf("anonymous player pushed %d profile updates", len(profiles.pushes))
	}
}

func TestStreakMilestoneNotification(t *testing.T) {
	svc, streaks, profiles, notifier := streakFixture()
	profiles.player = &models.Player{ID: 1, Email: "p@example.com", Name: "Pat"}
	streaks.streak = models.Streak{Count: 6, LastCompletedDate: "2024-01-04"}

	svc.RecordCompletion(1, "2024-01-05")

	if len(notifier.sent) != 1 || notifier.sent[0] != 7 {
		t.Errorf("milestone notifications = %v, want [7]", notifier.sent)
	}

	// Non-milestone counts stay quiet.
	svc2, streaks2, profiles2, notifier2 := streakFixture()
	profiles2.player = &models.Player{ID: 1, Email: "p@example.com"}
	streaks2.streak = models.Streak{Count: 7, LastCompletedDate: "2024-01-04"}

	svc2.RecordCompletion(1, "2024-01-05")

	if len(notifier2.sent) != 0 {
		t.Errorf("unexpected milestone notifications: %v", notifier2.sent)
	}
}

func TestStreakSessionGraceWindow(t *testing.T) {
	tests := []struct {
		name      string
		existing  models.Streak
		wantCount int
	}{
		{
			name:      "completed today survives",
			existing:  models.Streak{Count: 5, LastCompletedDate: "2024-01-05"},
			wantCount: 5,
		},
		{
			name:      "completed yesterday survives the grace window",
			existing:  models.Streak{Count: 5, LastCompletedDate: "2024-01-04"},
			wantCount: 5,
		},
		{
			name:      "two missed days expires",
			existing:  models.Streak{Count: 5, LastCompletedDate: "2024-01-03"},
			wantCount: 0,
		},
		{
			name:      "no history stays zero",
			existing:  models.Streak{},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, streaks, _, _ := streakFixture()
			streaks.streak = tt.existing

			got, err := svc.InitializeSession(&models.Player{ID: 1, DeviceToken: "dev"})
			if err != nil {
				t.Fatalf("InitializeSession failed: %v", err)
			}
			if got.Count != tt.wantCount {
				t.Errorf("count = %d, want %d", got.Count, tt.wantCount)
			}
		})
	}
}

func TestStreakSessionReconciliation(t *testing.T) {
	t.Run("local wins and overwrites remote", func(t *testing.T) {
		svc, streaks, profiles, _ := streakFixture()
		profiles.player = &models.Player{ID: 1, Email: "p@example.com"}
		streaks.streak = models.Streak{Count: 6, LastCompletedDate: "2024-01-05"}
		profiles.remote = models.Streak{Count: 3, LastCompletedDate: "2024-01-02"}

		got, err := svc.InitializeSession(profiles.player)
		if err != nil {
			t.Fatalf("InitializeSession failed: %v", err)
		}
		if got.Count != 6 {
			t.Errorf("count = %d, want 6", got.Count)
		}
		if profiles.remote.Count != 6 || profiles.remote.LastCompletedDate != "2024-01-05" {
			t.Errorf("remote not overwritten: %+v", profiles.remote)
		}
	})

	t.Run("remote wins and overwrites local", func(t *testing.T) {
		svc, streaks, profiles, _ := streakFixture()
		profiles.player = &models.Player{ID: 1, Email: "p@example.com"}
		streaks.streak = models.Streak{Count: 2, LastCompletedDate: "2024-01-05"}
		profiles.remote = models.Streak{Count: 9, LastCompletedDate: "2024-01-05"}

		got, err := svc.InitializeSession(profiles.player)
		if err != nil {
			t.Fatalf("InitializeSession failed: %v", err)
		}
		if got.Count != 9 {
			t.Errorf("count = %d, want 9", got.Count)
		}
		if streaks.streak.Count != 9 {
			t.Errorf("local not overwritten: %+v", streaks.streak)
		}
	})

	t.Run("expired streak stays expired when both copies are stale", func(t *testing.T) {
		svc, streaks, profiles, _ := streakFixture()
		profiles.player = &models.Player{ID: 1, Email: "p@example.com"}
		streaks.streak = models.Streak{Count: 9, LastCompletedDate: "2024-01-03"}
		profiles.remote = models.Streak{Count: 9, LastCompletedDate: "2024-01-03"}

		got, err := svc.InitializeSession(profiles.player)
		if err != nil {
			t.Fatalf("InitializeSession failed: %v", err)
		}
		if got.Count != 0 {
			t.Errorf("count = %d, want 0 after two missed days", got.Count)
		}
		if streaks.streak.Count != 0 {
			t.Errorf("local copy kept the expired count: %+v", streaks.streak)
		}
		if profiles.remote.Count != 0 {
			t.Errorf("remote copy kept the expired count: %+v", profiles.remote)
		}
	})

	t.Run("stale remote cannot beat a live local streak", func(t *testing.T) {
		svc, streaks, profiles, _ := streakFixture()
		profiles.player = &models.Player{ID: 1, Email: "p@example.com"}
		streaks.streak = models.Streak{Count: 2, LastCompletedDate: "2024-01-05"}
		profiles.remote = models.Streak{Count: 9, LastCompletedDate: "2024-01-02"}

		got, err := svc.InitializeSession(profiles.player)
		if err != nil {
			t.Fatalf("InitializeSession failed: %v", err)
		}
		if got.Count != 2 {
			t.Errorf("count = %d, want the live local streak", got.Count)
		}
		if profiles.remote.Count != 2 || profiles.remote.LastCompletedDate != "2024-01-05" {
			t.Errorf("remote not overwritten with the live copy: %+v", profiles.remote)
		}
	})

	t.Run("anonymous player skips reconciliation", func(t *testing.T) {
		svc, streaks, profiles, _ := streakFixture()
		streaks.streak = models.Streak{Count: 2, LastCompletedDate: "2024-01-05"}
		profiles.remote = models.Streak{Count: 9, LastCompletedDate: "2024-01-05"}

		got, err := svc.InitializeSession(&models.Player{ID: 1, DeviceToken: "dev"})
		if err != nil {
			t.Fatalf("InitializeSession failed: %v", err)
		}
		if got.Count != 2 {
			t.Errorf("count = %d, want 2", got.Count)
		}
	})
}
