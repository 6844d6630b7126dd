package service

import (
	"errors"
	"testing"
	"time"

	"rosterdle/internal/clock"
	"rosterdle/internal/models"
)

type fakeChallengeStore struct {
	stored    map[string]*models.DailyChallenge
	createErr error
}

func challengeKey(mode models.GameMode, date string) string {
	return string(mode) + "|" + date
}

func (f *fakeChallengeStore) Get(mode models.GameMode, date string) (*models.DailyChallenge, error) {
	return f.stored[challengeKey(mode, date)], nil
}

func (f *fakeChallengeStore) Create(c models.DailyChallenge) error {
	stored := c
	f.stored[challengeKey(c.Mode, c.ChallengeDate)] = &stored
	if f.createErr != nil {
		// The row still lands, as if a concurrent writer inserted it first.
		return f.createErr
	}
	return nil
}

func challengeFixture(chars []models.Character) (*ChallengeService, *fakeChallengeStore) {
	store := &fakeChallengeStore{stored: make(map[string]*models.DailyChallenge)}
	clk := clock.Fixed{Time: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)}
	return NewChallengeService(store, &fakeRoster{chars: chars}, clk), store
}

func TestChallengeForIsDeterministic(t *testing.T) {
	chars := []models.Character{
		{ID: 1, Name: "Shelly", Gadget: "Fast Forward", StarPower: "Shell Shock"},
		{ID: 2, Name: "Colt", Gadget: "Speedloader", StarPower: "Slick Boots"},
		{ID: 3, Name: "Poco", Gadget: "Tuning Fork", StarPower: "Da Capo"},
	}
	svc, _ := challengeFixture(chars)

	first, err := svc.ChallengeFor(models.ModeClassic, "2024-01-05")
	if err != nil {
		t.Fatalf("ChallengeFor failed: %v", err)
	}

	// Repeat calls and a rebuilt service agree on the same target.
	again, err := svc.ChallengeFor(models.ModeClassic, "2024-01-05")
	if err != nil {
		t.Fatalf("ChallengeFor failed: %v", err)
	}
	if again.TargetName != first.TargetName {
		t.Errorf("repeat pick %q differs from first %q", again.TargetName, first.TargetName)
	}

	rebuilt, _ := challengeFixture(chars)
	fresh, err := rebuilt.ChallengeFor(models.ModeClassic, "2024-01-05")
	if err != nil {
		t.Fatalf("ChallengeFor failed: %v", err)
	}
	if fresh.TargetName != first.TargetName {
		t.Errorf("rebuilt pick %q differs from first %q", fresh.TargetName, first.TargetName)
	}
}

func TestChallengeForModePayload(t *testing.T) {
	chars := []models.Character{
		{ID: 1, Name: "Shelly", Gadget: "Fast Forward", StarPower: "Shell Shock"},
	}
	svc, _ := challengeFixture(chars)

	gadget, err := svc.ChallengeFor(models.ModeGadget, "2024-01-05")
	if err != nil {
		t.Fatalf("ChallengeFor failed: %v", err)
	}
	if gadget.ModePayload != "Fast Forward" {
		t.Errorf("gadget payload = %q, want Fast Forward", gadget.ModePayload)
	}

	star, err := svc.ChallengeFor(models.ModeStarPower, "2024-01-05")
	if err != nil {
		t.Fatalf("ChallengeFor failed: %v", err)
	}
	if star.ModePayload != "Shell Shock" {
		t.Errorf("starpower payload = %q, want Shell Shock", star.ModePayload)
	}

	classic, err := svc.ChallengeFor(models.ModeClassic, "2024-01-05")
	if err != nil {
		t.Fatalf("ChallengeFor failed: %v", err)
	}
	if classic.ModePayload != "" {
		t.Errorf("classic payload = %q, want empty", classic.ModePayload)
	}
}

func TestChallengeForEmptyRoster(t *testing.T) {
	svc, _ := challengeFixture(nil)

	if _, err := svc.ChallengeFor(models.ModeClassic, "2024-01-05"); !errors.Is(err, ErrNoCharacters) {
		t.Errorf("expected ErrNoCharacters, got %v", err)
	}
}

func TestChallengeForCreateRaceReReads(t *testing.T) {
	chars := []models.Character{{ID: 1, Name: "Shelly"}}
	svc, store := challengeFixture(chars)

	// Simulate a concurrent writer winning the unique-constraint race: the
	// insert fails but the row exists on re-read.
	store.createErr = errors.New("UNIQUE constraint failed")

	challenge, err := svc.ChallengeFor(models.ModeClassic, "2024-01-05")
	if err != nil {
		t.Fatalf("ChallengeFor should fall back to the stored row: %v", err)
	}
	if challenge.TargetName != "Shelly" {
		t.Errorf("target = %q, want Shelly", challenge.TargetName)
	}
}

func TestTodayAndYesterdayChallenge(t *testing.T) {
	chars := []models.Character{{ID: 1, Name: "Shelly"}}
	svc, store := challengeFixture(chars)
	store.stored[challengeKey(models.ModeClassic, "2024-01-04")] = &models.DailyChallenge{
		Mode:          models.ModeClassic,
		ChallengeDate: "2024-01-04",
		TargetName:    "Colt",
	}

	today, err := svc.TodayChallenge(models.ModeClassic)
	if err != nil {
		t.Fatalf("TodayChallenge failed: %v", err)
	}
	if today.ChallengeDate != "2024-01-05" {
		t.Errorf("today's date = %s, want 2024-01-05", today.ChallengeDate)
	}

	yesterday, err := svc.YesterdayChallenge(models.ModeClassic)
	if err != nil {
		t.Fatalf("YesterdayChallenge failed: %v", err)
	}
	if yesterday == nil || yesterday.TargetName != "Colt" {
		t.Errorf("yesterday = %+v, want Colt", yesterday)
	}
}
