package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"rosterdle/internal/models"
	"rosterdle/internal/repository"
	"rosterdle/internal/security"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService handles player identity: anonymous device tokens, registered
// accounts and API session tokens.
type AuthService struct {
	players       *repository.PlayerRepository
	tokenSecret   string
	tokenDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(players *repository.PlayerRepository, tokenSecret string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		players:       players,
		tokenSecret:   tokenSecret,
		tokenDuration: tokenDuration,
	}
}

// StartAnonymous creates a device-token-only player so progress persists
// before any sign-up, and returns a session token for it.
func (s *AuthService) StartAnonymous() (*models.Player, string, error) {
	player, err := s.players.CreateAnonymous(security.GenerateDeviceToken())
	if err != nil {
		return nil, "", fmt.Errorf("failed to create anonymous player: %w", err)
	}

	token, err := security.IssueToken(s.tokenSecret, player.ID, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return player, token, nil
}

// Register creates an email-credentialed account.
func (s *AuthService) Register(email, password, name string) (*models.Player, string, error) {
	if !emailPattern.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}

	existing, err := s.players.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing player: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	player, err := s.players.CreateRegistered(security.GenerateDeviceToken(), email, passwordHash, name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create player: %w", err)
	}

	token, err := security.IssueToken(s.tokenSecret, player.ID, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return player, token, nil
}

// Login authenticates an email credential and issues a session token.
func (s *AuthService) Login(email, password string) (*models.Player, string, error) {
	player, err := s.players.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil || !security.CheckPassword(password, player.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := security.IssueToken(s.tokenSecret, player.ID, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return player, token, nil
}

// LoginOAuth finds or creates a player for an external identity and issues a
// session token.
func (s *AuthService) LoginOAuth(provider, subject, email, name string) (*models.Player, string, error) {
	player, err := s.players.GetByOAuth(provider, subject)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up oauth player: %w", err)
	}

	if player == nil && email != "" {
		// Link by verified email if the account predates the OAuth login
		player, err = s.players.GetByEmail(email)
		if err != nil {
			return nil, "", fmt.Errorf("failed to look up player by email: %w", err)
		}
	}

	if player == nil {
		player, err = s.players.CreateOAuth(security.GenerateDeviceToken(), email, name, provider, subject)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create oauth player: %w", err)
		}
	}

	token, err := security.IssueToken(s.tokenSecret, player.ID, s.tokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return player, token, nil
}

// Authenticate validates a session token and returns its player.
func (s *AuthService) Authenticate(token string) (*models.Player, error) {
	playerID, err := security.ParseToken(s.tokenSecret, token)
	if err != nil {
		return nil, err
	}

	player, err := s.players.GetByID(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if player == nil {
		return nil, security.ErrInvalidToken
	}
	return player, nil
}
