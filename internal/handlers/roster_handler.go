package handlers

import (
	"net/http"

	"rosterdle/internal/service"
)

// RosterHandler serves the character roster.
type RosterHandler struct {
	rosterService *service.RosterService
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(rosterService *service.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

// List returns the full roster for the guess autocomplete.
func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	chars, err := h.rosterService.ListCharacters()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load roster", "Error listing characters", err)
		return
	}

	views := make([]CharacterView, 0, len(chars))
	for _, c := range chars {
		views = append(views, toCharacterView(c))
	}
	writeJSON(w, http.StatusOK, views)
}
