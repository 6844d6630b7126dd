package handlers

import (
	"net/http"

	"rosterdle/internal/service"
)

// StreakHandler serves the player's completion streak.
type StreakHandler struct {
	streakService *service.StreakService
}

// NewStreakHandler creates a new streak handler
func NewStreakHandler(streakService *service.StreakService) *StreakHandler {
	return &StreakHandler{streakService: streakService}
}

// Get returns the streak after grace-window and remote reconciliation.
func (h *StreakHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": ErrUnauthorized})
		return
	}

	streak, err := h.streakService.Current(player)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load streak", "Error loading streak", err)
		return
	}

	writeJSON(w, http.StatusOK, StreakView{
		Count:             streak.Count,
		LastCompletedDate: streak.LastCompletedDate,
	})
}
