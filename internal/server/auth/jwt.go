// Package auth verifies bearer tokens and extracts the caller's identity.
// There is no session state: the token is the whole story.
package auth

import (
	"fmt"
	"time"

	"github.com/dkhodakov/habitsync/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// CreateToken issues an HS256 token for the given user. Used by tests and
// the server's -issue flag; production tokens come from an external issuer
// sharing the secret.
func CreateToken(secret, userID, username string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, common.ErrUnauthorized
	}
	return claims, nil
}
