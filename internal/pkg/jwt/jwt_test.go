package jwt

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, tokenID, err := GenerateAccessToken(42, "TEACHER", testSecret, 15, time.Now())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if tokenID == "" {
		t.Fatal("empty token id")
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "TEACHER" {
		t.Errorf("Role = %s, want TEACHER", claims.Role)
	}
	if claims.TokenID != tokenID {
		t.Errorf("TokenID = %s, want %s", claims.TokenID, tokenID)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, _, err := GenerateAccessToken(1, "STUDENT", testSecret, 15, time.Now())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	token, _, err := GenerateAccessToken(1, "STUDENT", testSecret, 15, issued)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestAccessTokenGarbage(t *testing.T) {
	if _, err := ValidateAccessToken("not.a.token", testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, "rt-id", testSecret, 7, time.Now())
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := ValidateRefreshToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.UserID != 7 || claims.TokenID != "rt-id" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	// A refresh token parses as access claims but carries no role;
	// callers must keep the secrets distinct to block crossover
	refresh, err := GenerateRefreshToken(7, "rt-id", "refresh-secret", 7, time.Now())
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if _, err := ValidateAccessToken(refresh, testSecret); err == nil {
		t.Error("refresh token validated against access secret")
	}
}
