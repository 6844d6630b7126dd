package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"rosterdle/internal/clock"
	"rosterdle/internal/models"
)

// fakeDailyStore keeps a single player's daily state in memory.
type fakeDailyStore struct {
	state *models.DailyGameState
}

func (f *fakeDailyStore) GetState(playerID int64) (*models.DailyGameState, error) {
	return f.state, nil
}

func (f *fakeDailyStore) SaveMeta(playerID int64, gameDate, lastFetchDate string) error {
	if f.state == nil {
		f.state = models.NewDailyGameState(playerID, gameDate)
	}
	f.state.CurrentDate = gameDate
	f.state.LastFetchDate = lastFetchDate
	return nil
}

func (f *fakeDailyStore) SaveModeState(playerID int64, mode models.GameMode, ms *models.DailyModeState) error {
	if f.state == nil {
		return errors.New("no state")
	}
	stored := *ms
	stored.Guesses = append([]string(nil), ms.Guesses...)
	f.state.Modes[mode] = &stored
	return nil
}

func (f *fakeDailyStore) WipeProgress(playerID int64) error {
	f.state = nil
	return nil
}

type fakeChallenges struct {
	today     map[models.GameMode]*models.DailyChallenge
	yesterday map[models.GameMode]*models.DailyChallenge
	failModes map[models.GameMode]bool
}

func (f *fakeChallenges) TodayChallenge(mode models.GameMode) (*models.DailyChallenge, error) {
	if f.failModes[mode] {
		return nil, errors.New("challenge fetch failed")
	}
	return f.today[mode], nil
}

func (f *fakeChallenges) YesterdayChallenge(mode models.GameMode) (*models.DailyChallenge, error) {
	return f.yesterday[mode], nil
}

type fakeCharacterFinder struct {
	roster []models.Character
}

func (f *fakeCharacterFinder) GetByName(name string) (*models.Character, error) {
	for i := range f.roster {
		if strings.EqualFold(f.roster[i].Name, name) {
			return &f.roster[i], nil
		}
	}
	return nil, nil
}

type fakeStreakRecorder struct {
	calls []string
}

func (f *fakeStreakRecorder) RecordCompletion(playerID int64, date string) {
	f.calls = append(f.calls, date)
}

func newDailyFixture(targets map[models.GameMode]string) (*DailyService, *fakeDailyStore, *fakeStreakRecorder) {
	challenges := &fakeChallenges{
		today:     make(map[models.GameMode]*models.DailyChallenge),
		yesterday: make(map[models.GameMode]*models.DailyChallenge),
		failModes: make(map[models.GameMode]bool),
	}
	for mode, name := range targets {
		challenges.today[mode] = &models.DailyChallenge{Mode: mode, TargetName: name}
	}
	finder := &fakeCharacterFinder{roster: []models.Character{
		{ID: 1, Name: "Shelly"},
		{ID: 2, Name: "Colt"},
		{ID: 3, Name: "Poco"},
	}}
	store := &fakeDailyStore{}
	streaks := &fakeStreakRecorder{}
	clk := clock.Fixed{Time: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)}
	return NewDailyService(store, challenges, finder, streaks, clk), store, streaks
}

func allTargets(name string) map[models.GameMode]string {
	targets := make(map[models.GameMode]string)
	for _, m := range models.AllModes() {
		targets[m] = name
	}
	return targets
}

func TestDailyInitializeFreshState(t *testing.T) {
	svc, _, _ := newDailyFixture(allTargets("Shelly"))

	state, err := svc.Initialize(1)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if state.CurrentDate != "2024-01-05" {
		t.Errorf("CurrentDate = %s, want 2024-01-05", state.CurrentDate)
	}
	if state.SecondsToNext <= 0 {
		t.Errorf("SecondsToNext = %d, want positive", state.SecondsToNext)
	}
	for _, m := range models.AllModes() {
		if state.Modes[m].TargetName != "Shelly" {
			t.Errorf("mode %s target = %q, want Shelly", m, state.Modes[m].TargetName)
		}
	}
}

func TestDailyRolloverWipesProgress(t *testing.T) {
	svc, store, _ := newDailyFixture(allTargets("Colt"))

	// Prime the store with yesterday's completed state.
	stale := models.NewDailyGameState(1, "2024-01-04")
	stale.LastFetchDate = "2024-01-04"
	for _, m := range models.AllModes() {
		stale.Modes[m].TargetName = "Shelly"
		stale.Modes[m].IsCompleted = true
		stale.Modes[m].GuessCount = 4
	}
	store.state = stale

	state, err := svc.Initialize(1)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if state.CurrentDate != "2024-01-05" {
		t.Errorf("CurrentDate = %s, want 2024-01-05", state.CurrentDate)
	}
	for _, m := range models.AllModes() {
		ms := state.Modes[m]
		if ms.IsCompleted || ms.GuessCount != 0 {
			t.Errorf("mode %s progress survived rollover: completed=%v count=%d", m, ms.IsCompleted, ms.GuessCount)
		}
		if ms.TargetName != "Colt" {
			t.Errorf("mode %s target = %q, want Colt", m, ms.TargetName)
		}
	}
}

func TestDailyInitializeFetchFailureIsPartial(t *testing.T) {
	svc, _, _ := newDailyFixture(allTargets("Shelly"))
	challenges := svc.challenges.(*fakeChallenges)
	challenges.failModes[models.ModeAudio] = true

	state, err := svc.Initialize(1)
	if err != nil {
		t.Fatalf("Initialize should tolerate a single fetch failure: %v", err)
	}

	if state.Modes[models.ModeAudio].TargetName != "" {
		t.Errorf("failed mode should have an empty target, got %q", state.Modes[models.ModeAudio].TargetName)
	}
	if state.Modes[models.ModeClassic].TargetName != "Shelly" {
		t.Errorf("other modes should still be fetched, got %q", state.Modes[models.ModeClassic].TargetName)
	}
}

func TestDailySubmitGuessWrongThenCorrect(t *testing.T) {
	svc, _, _ := newDailyFixture(allTargets("Shelly"))

	outcome, err := svc.SubmitGuess(1, models.ModeClassic, "Colt")
	if err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}
	if outcome.Correct || outcome.Duplicate {
		t.Errorf("wrong guess outcome = correct:%v duplicate:%v", outcome.Correct, outcome.Duplicate)
	}
	if outcome.State.Modes[models.ModeClassic].GuessCount != 1 {
		t.Errorf("guess count = %d, want 1", outcome.State.Modes[models.ModeClassic].GuessCount)
	}

	outcome, err = svc.SubmitGuess(1, models.ModeClassic, "shelly")
	if err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}
	if !outcome.Correct {
		t.Error("case-insensitive correct guess should complete the mode")
	}
	if !outcome.State.Modes[models.ModeClassic].IsCompleted {
		t.Error("mode should be marked completed")
	}
	if outcome.State.Modes[models.ModeClassic].GuessCount != 2 {
		t.Errorf("guess count = %d, want 2", outcome.State.Modes[models.ModeClassic].GuessCount)
	}
}

func TestDailySubmitGuessDuplicateRejected(t *testing.T) {
	svc, _, _ := newDailyFixture(allTargets("Shelly"))

	if _, err := svc.SubmitGuess(1, models.ModeClassic, "Colt"); err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}

	outcome, err := svc.SubmitGuess(1, models.ModeClassic, "COLT")
	if err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}
	if !outcome.Duplicate {
		t.Error("repeated guess should be flagged as duplicate")
	}
	if outcome.State.Modes[models.ModeClassic].GuessCount != 1 {
		t.Errorf("duplicate guess changed count to %d, want 1", outcome.State.Modes[models.ModeClassic].GuessCount)
	}
	if len(outcome.State.Modes[models.ModeClassic].Guesses) != 1 {
		t.Errorf("duplicate guess changed list to %v", outcome.State.Modes[models.ModeClassic].Guesses)
	}
}

func TestDailySubmitGuessValidation(t *testing.T) {
	svc, _, _ := newDailyFixture(allTargets("Shelly"))

	if _, err := svc.SubmitGuess(1, models.GameMode("ranked"), "Shelly"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
	if _, err := svc.SubmitGuess(1, models.ModeClassic, "Nobody"); !errors.Is(err, ErrUnknownCharacter) {
		t.Errorf("expected ErrUnknownCharacter, got %v", err)
	}

	if _, err := svc.SubmitGuess(1, models.ModeClassic, "Shelly"); err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}
	if _, err := svc.SubmitGuess(1, models.ModeClassic, "Colt"); !errors.Is(err, ErrModeCompleted) {
		t.Errorf("expected ErrModeCompleted after solving, got %v", err)
	}
}

func TestDailyCompleteModeSignalsStreakOnce(t *testing.T) {
	svc, _, streaks := newDailyFixture(allTargets("Shelly"))

	for _, m := range models.AllModes() {
		if err := svc.CompleteMode(1, m, nil); err != nil {
			t.Fatalf("CompleteMode(%s) failed: %v", m, err)
		}
	}

	if len(streaks.calls) != 1 {
		t.Fatalf("streak signal fired %d times, want 1", len(streaks.calls))
	}
	if streaks.calls[0] != "2024-01-05" {
		t.Errorf("streak signal date = %s, want 2024-01-05", streaks.calls[0])
	}

	// Completing an already-completed mode must not re-fire the signal.
	if err := svc.CompleteMode(1, models.ModeClassic, nil); err != nil {
		t.Fatalf("repeat CompleteMode failed: %v", err)
	}
	if len(streaks.calls) != 1 {
		t.Errorf("repeat completion re-fired the streak signal (%d calls)", len(streaks.calls))
	}
}

func TestDailyResetMode(t *testing.T) {
	svc, _, _ := newDailyFixture(allTargets("Shelly"))

	if _, err := svc.SubmitGuess(1, models.ModeClassic, "Colt"); err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}
	if _, err := svc.SubmitGuess(1, models.ModeClassic, "Poco"); err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}

	state, err := svc.ResetMode(1, models.ModeClassic)
	if err != nil {
		t.Fatalf("ResetMode failed: %v", err)
	}

	ms := state.Modes[models.ModeClassic]
	if ms.GuessCount != 0 || len(ms.Guesses) != 0 || ms.IsCompleted {
		t.Errorf("reset left state: count=%d guesses=%v completed=%v", ms.GuessCount, ms.Guesses, ms.IsCompleted)
	}
	if ms.TargetName != "Shelly" {
		t.Errorf("reset cleared the target: %q", ms.TargetName)
	}
}

func TestDailyYesterdayTargets(t *testing.T) {
	svc, _, _ := newDailyFixture(allTargets("Shelly"))
	challenges := svc.challenges.(*fakeChallenges)
	challenges.yesterday[models.ModeClassic] = &models.DailyChallenge{Mode: models.ModeClassic, TargetName: "Colt"}

	targets := svc.YesterdayTargets()
	if targets[models.ModeClassic] != "Colt" {
		t.Errorf("yesterday classic target = %q, want Colt", targets[models.ModeClassic])
	}
	if _, ok := targets[models.ModeAudio]; ok {
		t.Error("modes without a stored challenge should be absent")
	}
}
