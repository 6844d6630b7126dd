package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"rosterdle/internal/security"
	"rosterdle/internal/service"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// OAuthFlow implements Google sign-in for streak sync across devices.
type OAuthFlow struct {
	authService     *service.AuthService
	config          *oauth2.Config
	redirectBaseURL string
}

// NewOAuthFlow creates the Google OAuth flow; it is disabled when no client
// credentials are configured.
func NewOAuthFlow(authService *service.AuthService, clientID, clientSecret, redirectBaseURL string) *OAuthFlow {
	return &OAuthFlow{
		authService: authService,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		redirectBaseURL: redirectBaseURL,
	}
}

func (f *OAuthFlow) enabled() bool {
	return f.config.ClientID != "" && f.config.ClientSecret != ""
}

// Start redirects to the Google consent screen.
func (f *OAuthFlow) Start(w http.ResponseWriter, r *http.Request) {
	if !f.enabled() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "OAuth is not configured"})
		return
	}

	state := security.GenerateStateToken()
	f.setTempCookie(w, "oauth_state", state, 10*time.Minute)

	config := *f.config
	config.RedirectURL = f.redirectURL(r)
	http.Redirect(w, r, config.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// Callback exchanges the authorization code, resolves the Google identity and
// responds with an API session token.
func (f *OAuthFlow) Callback(w http.ResponseWriter, r *http.Request) {
	if !f.enabled() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "OAuth is not configured"})
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie("oauth_state")
	if code == "" || err != nil || stateCookie.Value == "" || stateCookie.Value != state {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid OAuth state"})
		return
	}
	f.clearTempCookie(w, "oauth_state")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	config := *f.config
	config.RedirectURL = f.redirectURL(r)
	oauthToken, err := config.Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to exchange OAuth code", "OAuth exchange failed", err)
		return
	}

	subject, email, name, err := f.fetchGoogleUser(ctx, oauthToken)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to fetch Google profile", "OAuth userinfo failed", err)
		return
	}

	player, token, err := f.authService.LoginOAuth("google", subject, email, name)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to log in", "OAuth login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token:      token,
		PlayerID:   player.ID,
		Registered: true,
		Name:       player.Name,
	})
}

func (f *OAuthFlow) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (subject, email, name string, err error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to fetch Google user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", "", fmt.Errorf("google user info returned status %d", resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", "", fmt.Errorf("failed to parse Google user info: %w", err)
	}
	return payload.ID, payload.Email, payload.Name, nil
}

func (f *OAuthFlow) redirectURL(r *http.Request) string {
	base := strings.TrimSpace(f.redirectBaseURL)
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, r.Host)
	}
	callback, _ := url.JoinPath(strings.TrimRight(base, "/"), "/auth/google/callback")
	return callback
}

func (f *OAuthFlow) setTempCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
	})
}

func (f *OAuthFlow) clearTempCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
