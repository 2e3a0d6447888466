// Package jwt issues and verifies the HS256 access and refresh tokens.
// Every token carries a jti so individual sessions can be revoked.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

const issuer = "classhub"

// Claims represents the access token claims
type Claims struct {
	UserID  uint   `json:"user_id"`
	Role    string `json:"role"`
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

// RefreshClaims represents the refresh token claims
type RefreshClaims struct {
	UserID  uint   `json:"user_id"`
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

func registered(now time.Time, ttl time.Duration, tokenID string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		ID:        tokenID,
	}
}

// GenerateAccessToken signs a new access token and returns it with its
// token id. now is explicit so verification windows are testable.
func GenerateAccessToken(userID uint, role, secret string, expiryMinutes int, now time.Time) (string, string, error) {
	tokenID := uuid.New().String()
	claims := Claims{
		UserID:           userID,
		Role:             role,
		TokenID:          tokenID,
		RegisteredClaims: registered(now, time.Duration(expiryMinutes)*time.Minute, tokenID),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	return signed, tokenID, err
}

// GenerateRefreshToken signs a new refresh token bound to tokenID
func GenerateRefreshToken(userID uint, tokenID, secret string, expiryDays int, now time.Time) (string, error) {
	claims := RefreshClaims{
		UserID:           userID,
		TokenID:          tokenID,
		RegisteredClaims: registered(now, time.Duration(expiryDays)*24*time.Hour, tokenID),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// parse verifies signature, expiry and signing method, then returns the
// typed claims
func parse[C jwt.Claims](tokenString, secret string, claims C) (C, error) {
	var zero C

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return zero, ErrTokenExpired
		}
		return zero, ErrTokenInvalid
	}

	parsed, ok := token.Claims.(C)
	if !ok || !token.Valid {
		return zero, ErrTokenInvalid
	}
	return parsed, nil
}

// ValidateAccessToken verifies an access token and returns its claims
func ValidateAccessToken(tokenString, secret string) (*Claims, error) {
	return parse(tokenString, secret, &Claims{})
}

// ValidateRefreshToken verifies a refresh token and returns its claims
func ValidateRefreshToken(tokenString, secret string) (*RefreshClaims, error) {
	return parse(tokenString, secret, &RefreshClaims{})
}
