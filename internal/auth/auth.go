// internal/auth/auth.go

// Package auth issues and verifies the guest session tokens that
// identify websocket connections. There are no accounts or passwords; a
// token binds a generated player UUID to a display name for the
// lifetime of a session.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenTTL = 24 * time.Hour

// Claims carried by a guest session token.
type Claims struct {
	PlayerName string `json:"playerName"`
	jwt.RegisteredClaims
}

func signingKey() ([]byte, error) {
	key := os.Getenv("JWT_SECRET")
	if key == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return []byte(key), nil
}

// IssueGuestToken mints a token for a fresh player UUID bound to the
// given display name.
func IssueGuestToken(playerName string) (string, uuid.UUID, error) {
	key, err := signingKey()
	if err != nil {
		return "", uuid.Nil, err
	}
	playerID, err := uuid.NewRandom()
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("generate player id: %w", err)
	}

	now := time.Now()
	claims := Claims{
		PlayerName: playerName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(defaultTokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, playerID, nil
}

// VerifyToken validates a guest token and returns the player UUID and
// display name it carries.
func VerifyToken(tokenString string) (uuid.UUID, string, error) {
	key, err := signingKey()
	if err != nil {
		return uuid.Nil, "", err
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid token")
	}

	playerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid subject: %w", err)
	}
	return playerID, claims.PlayerName, nil
}
