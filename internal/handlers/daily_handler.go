package handlers

import (
	"errors"
	"net/http"

	"rosterdle/internal/models"
	"rosterdle/internal/service"
)

// DailyHandler handles the daily challenge HTTP surface.
type DailyHandler struct {
	dailyService *service.DailyService
}

// NewDailyHandler creates a new daily handler
func NewDailyHandler(dailyService *service.DailyService) *DailyHandler {
	return &DailyHandler{dailyService: dailyService}
}

// GetState returns today's progress, rolling the date over if needed.
func (h *DailyHandler) GetState(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized})
		return
	}

	state, err := h.dailyService.Initialize(player.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load daily state", "Error initializing daily state", err)
		return
	}

	writeJSON(w, http.StatusOK, toDailyStateView(state))
}

type dailyGuessRequest struct {
	Name string `json:"name"`
}

type dailyGuessResponse struct {
	Correct   bool           `json:"correct"`
	Duplicate bool           `json:"duplicate"`
	Character CharacterView  `json:"character"`
	State     DailyStateView `json:"state"`
}

// SubmitGuess records a guess for the mode in the URL path.
func (h *DailyHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized})
		return
	}

	mode := models.GameMode(r.PathValue("mode"))

	var req dailyGuessRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidJSONBody})
		return
	}

	outcome, err := h.dailyService.SubmitGuess(player.ID, mode, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownMode), errors.Is(err, service.ErrUnknownCharacter):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrModeCompleted):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to submit guess", "Error submitting daily guess", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, dailyGuessResponse{
		Correct:   outcome.Correct,
		Duplicate: outcome.Duplicate,
		Character: toCharacterView(*outcome.Character),
		State:     toDailyStateView(outcome.State),
	})
}

// ResetMode clears a mode's guesses for a retry.
func (h *DailyHandler) ResetMode(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized})
		return
	}

	mode := models.GameMode(r.PathValue("mode"))
	state, err := h.dailyService.ResetMode(player.ID, mode)
	if err != nil {
		if errors.Is(err, service.ErrUnknownMode) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to reset mode", "Error resetting daily mode", err)
		return
	}

	writeJSON(w, http.StatusOK, toDailyStateView(state))
}

// GetYesterday reveals yesterday's answers.
func (h *DailyHandler) GetYesterday(w http.ResponseWriter, r *http.Request) {
	targets := h.dailyService.YesterdayTargets()

	body := make(map[string]string, len(targets))
	for mode, name := range targets {
		body[string(mode)] = name
	}
	writeJSON(w, http.StatusOK, body)
}
