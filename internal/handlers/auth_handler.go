package handlers

import (
	"errors"
	"net/http"

	"rosterdle/internal/service"
)

// AuthHandler handles identity endpoints: anonymous device sessions, email
// accounts and the Google OAuth flow.
type AuthHandler struct {
	authService *service.AuthService
	oauth       *OAuthFlow
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, oauth *OAuthFlow) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		oauth:       oauth,
	}
}

type authResponse struct {
	Token      string `json:"token"`
	PlayerID   int64  `json:"playerId"`
	Registered bool   `json:"registered"`
	Name       string `json:"name,omitempty"`
}

// StartAnonymous issues a fresh anonymous identity so progress persists
// before any sign-up.
func (h *AuthHandler) StartAnonymous(w http.ResponseWriter, r *http.Request) {
	player, token, err := h.authService.StartAnonymous()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create session", "Error creating anonymous player", err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Token:      token,
		PlayerID:   player.ID,
		Registered: false,
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register creates an email account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidJSONBody})
		return
	}

	player, token, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken),
			errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrWeakPassword):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to register", "Error registering player", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Token:      token,
		PlayerID:   player.ID,
		Registered: true,
		Name:       player.Name,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an email credential.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidJSONBody})
		return
	}

	player, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to log in", "Error logging in player", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token:      token,
		PlayerID:   player.ID,
		Registered: true,
		Name:       player.Name,
	})
}

// StartOAuth redirects to the Google consent screen.
func (h *AuthHandler) StartOAuth(w http.ResponseWriter, r *http.Request) {
	h.oauth.Start(w, r)
}

// OAuthCallback completes the OAuth exchange and issues a session token.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	h.oauth.Callback(w, r)
}
