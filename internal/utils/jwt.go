package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token scopes. Buyer and admin tokens are signed with the same secret but
// carry different scopes and are not interchangeable.
const (
	ScopeUser  = "user"
	ScopeAdmin = "admin"
)

// Claims is the JWT payload for both buyer and admin tokens.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateJWT signs a token for the given principal, valid for ttl.
func GenerateJWT(userID, email, scope, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateJWT parses and validates a token, returning its claims.
func ValidateJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
