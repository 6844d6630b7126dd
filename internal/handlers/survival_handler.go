package handlers

import (
	"errors"
	"net/http"

	"rosterdle/internal/models"
	"rosterdle/internal/selection"
	"rosterdle/internal/service"
)

// SurvivalHandler handles the survival game HTTP surface.
type SurvivalHandler struct {
	survivalService *service.SurvivalService
}

// NewSurvivalHandler creates a new survival handler
func NewSurvivalHandler(survivalService *service.SurvivalService) *SurvivalHandler {
	return &SurvivalHandler{survivalService: survivalService}
}

type survivalStartRequest struct {
	EnabledModes      []string `json:"enabledModes"`
	RotationPolicy    string   `json:"rotationPolicy"`
	RoundTimerSeconds int      `json:"roundTimerSeconds"`
}

// Start configures and begins a new game. Round 1 starts with the first call
// to NextRound.
func (h *SurvivalHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized})
		return
	}

	var req survivalStartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidJSONBody})
		return
	}

	modes := make([]models.GameMode, 0, len(req.EnabledModes))
	for _, m := range req.EnabledModes {
		modes = append(modes, models.GameMode(m))
	}

	state, err := h.survivalService.InitializeGame(player.ID, models.SurvivalSettings{
		EnabledModes:      modes,
		RotationPolicy:    req.RotationPolicy,
		RoundTimerSeconds: req.RoundTimerSeconds,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidConfig) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to start game", "Error initializing survival game", err)
		return
	}

	writeJSON(w, http.StatusCreated, toSurvivalStateView(state))
}

type nextRoundRequest struct {
	Mode string `json:"mode,omitempty"`
}

// NextRound advances to the next round.
func (h *SurvivalHandler) NextRound(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized})
		return
	}

	var req nextRoundRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidJSONBody})
			return
		}
	}

	state, err := h.survivalService.StartNextRound(player.ID, models.GameMode(req.Mode))
	if err != nil {
		h.respondStateError(w, err, "Error starting next round")
		return
	}

	writeJSON(w, http.StatusOK, toSurvivalStateView(state))
}

type survivalGuessRequest struct {
	CharacterID int64 `json:"characterId"`
}

type survivalGuessResponse struct {
	Correct     bool              `json:"correct"`
	Score       int               `json:"score"`
	GuessesLeft int               `json:"guessesLeft"`
	State       SurvivalStateView `json:"state"`
}

// Guess checks a character against the active round.
func (h *SurvivalHandler) Guess(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized})
		return
	}

	var req survivalGuessRequest
	if err := decodeJSON(r, &req); err != nil || req.CharacterID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidJSONBody})
		return
	}

	outcome, err := h.survivalService.Guess(player.ID, req.CharacterID)
	if err != nil {
		h.respondStateError(w, err, "Error submitting survival guess")
		return
	}

	writeJSON(w, http.StatusOK, survivalGuessResponse{
		Correct:     outcome.Correct,
		Score:       outcome.Score,
		GuessesLeft: outcome.GuessesLeft,
		State:       toSurvivalStateView(outcome.State),
	})
}

type timerRequest struct {
	RoundNumber int `json:"roundNumber"`
	SecondsLeft int `json:"secondsLeft"`
}

// Timer records a countdown tick; stale rounds are dropped server-side.
func (h *SurvivalHandler) Timer(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized})
		return
	}

	var req timerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidJSONBody})
		return
	}

	if err := h.survivalService.SetTimerLeft(player.ID, req.RoundNumber, req.SecondsLeft); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update timer", "Error updating survival timer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Pause pauses a playing game.
func (h *SurvivalHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.survivalService.PauseGame, "Error pausing survival game")
}

// Resume resumes a paused game.
func (h *SurvivalHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.survivalService.ResumeGame, "Error resuming survival game")
}

// Quit resets to setup, keeping the settings.
func (h *SurvivalHandler) Quit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.survivalService.QuitGame, "Error quitting survival game")
}

type gameOverRequest struct {
	TotalScore int `json:"totalScore"`
}

// GameOver ends the run and records the result.
func (h *SurvivalHandler) GameOver(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized})
		return
	}

	var req gameOverRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidJSONBody})
			return
		}
	}

	state, err := h.survivalService.GameOver(player.ID, req.TotalScore)
	if err != nil {
		h.respondStateError(w, err, "Error ending survival game")
		return
	}

	writeJSON(w, http.StatusOK, toSurvivalStateView(state))
}

type survivalOverview struct {
	State    *SurvivalStateView       `json:"state,omitempty"`
	Settings *models.SurvivalSettings `json:"defaultSettings"`
	BestRun  *models.SurvivalRun      `json:"bestRun,omitempty"`
}

// GetState returns the persisted game for resume, plus defaults and the best
// recorded run.
func (h *SurvivalHandler) GetState(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized})
		return
	}

	overview := survivalOverview{}

	state, err := h.survivalService.GameState(player.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load game", "Error loading survival game", err)
		return
	}
	if state != nil {
		view := toSurvivalStateView(state)
		overview.State = &view
	}

	settings, err := h.survivalService.DefaultSettings(player.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load settings", "Error loading survival settings", err)
		return
	}
	overview.Settings = settings

	bestRun, err := h.survivalService.BestRun(player.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load stats", "Error loading best run", err)
		return
	}
	overview.BestRun = bestRun

	writeJSON(w, http.StatusOK, overview)
}

func (h *SurvivalHandler) transition(w http.ResponseWriter, r *http.Request, op func(int64) (*models.SurvivalGameState, error), logMsg string) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized})
		return
	}

	state, err := op(player.ID)
	if err != nil {
		h.respondStateError(w, err, logMsg)
		return
	}
	writeJSON(w, http.StatusOK, toSurvivalStateView(state))
}

func (h *SurvivalHandler) respondStateError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrNoActiveGame), errors.Is(err, service.ErrGameNotSetup):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, selection.ErrEmptyRoster), errors.Is(err, selection.ErrNoModesEnabled):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		respondWithError(w, http.StatusInternalServerError, "Survival game error", logMsg, err)
	}
}
