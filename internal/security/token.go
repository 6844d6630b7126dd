package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// GenerateDeviceToken creates a new UUID used to identify anonymous players
func GenerateDeviceToken() string {
	return uuid.New().String()
}

// GenerateStateToken creates a new UUID for OAuth state/nonce values
func GenerateStateToken() string {
	return uuid.New().String()
}

// PlayerClaims are the JWT claims carried by an API session token.
type PlayerClaims struct {
	PlayerID int64 `json:"pid"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 session token for a player.
func IssueToken(secret string, playerID int64, duration time.Duration) (string, error) {
	now := time.Now()
	claims := PlayerClaims{
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "rosterdle",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a session token and returns the player id it carries.
func ParseToken(secret, tokenString string) (int64, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	claims := &PlayerClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.PlayerID == 0 {
		return 0, ErrInvalidToken
	}

	return claims.PlayerID, nil
}
