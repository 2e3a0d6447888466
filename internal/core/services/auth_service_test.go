package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"classhub/internal/adapters/persistence/memory"
	"classhub/internal/core/domain"
	"classhub/internal/pkg/jwt"
)

func newAuthService(now func() time.Time) (*AuthService, *memory.Store, *jwt.RevocationSet) {
	store := memory.NewStore()
	revocations := jwt.NewRevocationSet()
	svc := NewAuthService(store.Users(), store.RefreshTokens(), revocations, testConfig(), now)
	return svc, store, revocations
}

func registerTeacher(t *testing.T, svc *AuthService) *AuthResponse {
	t.Helper()
	result, err := svc.Register(context.Background(), &RegisterInput{
		Email:     "alice@example.edu",
		FirstName: "Alice",
		LastName:  "Nguyen",
		Password:  "s3cret-password",
		Role:      "TEACHER",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return result
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthService(nil)
	ctx := context.Background()

	result := registerTeacher(t, svc)
	if result.User.Email != "alice@example.edu" {
		t.Errorf("email = %s", result.User.Email)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("missing tokens")
	}

	// Duplicate registration rejected
	_, err := svc.Register(ctx, &RegisterInput{
		Email: "alice@example.edu", FirstName: "A", LastName: "N", Password: "whatever1", Role: "TEACHER",
	})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("duplicate register err = %v", err)
	}

	// Correct credentials
	if _, err := svc.Login(ctx, &LoginInput{Email: "alice@example.edu", Password: "s3cret-password"}); err != nil {
		t.Errorf("Login: %v", err)
	}

	// Wrong password
	_, err = svc.Login(ctx, &LoginInput{Email: "alice@example.edu", Password: "wrong"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}

	// Unknown email indistinguishable from wrong password
	_, err = svc.Login(ctx, &LoginInput{Email: "nobody@example.edu", Password: "s3cret-password"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", err)
	}
}

func TestVerifyAccessToken(t *testing.T) {
	svc, _, _ := newAuthService(nil)

	result := registerTeacher(t, svc)

	p, err := svc.Verify(result.AccessToken)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.UserID != result.User.ID {
		t.Errorf("UserID = %d, want %d", p.UserID, result.User.ID)
	}
	if p.Role != domain.RoleTeacher {
		t.Errorf("Role = %s", p.Role)
	}
	if p.TokenID == "" {
		t.Error("empty token id in principal")
	}

	if _, err := svc.Verify("garbage"); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Errorf("garbage token err = %v", err)
	}
}

func TestVerifyExpiredAccessToken(t *testing.T) {
	// Issue with a clock far enough in the past that the token is expired
	past := func() time.Time { return time.Now().Add(-time.Hour) }
	svc, _, _ := newAuthService(past)

	result := registerTeacher(t, svc)

	if _, err := svc.Verify(result.AccessToken); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newAuthService(nil)
	ctx := context.Background()

	result := registerTeacher(t, svc)

	refreshed, err := svc.Refresh(ctx, result.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.RefreshToken == result.RefreshToken {
		t.Error("refresh token not rotated")
	}

	// The used refresh token is dead
	if _, err := svc.Refresh(ctx, result.RefreshToken); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Errorf("reused refresh token err = %v", err)
	}

	// The new one still works
	if _, err := svc.Refresh(ctx, refreshed.RefreshToken); err != nil {
		t.Errorf("rotated refresh token rejected: %v", err)
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	svc, _, _ := newAuthService(nil)
	ctx := context.Background()

	result := registerTeacher(t, svc)

	p, err := svc.Verify(result.AccessToken)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if err := svc.Logout(ctx, result.RefreshToken, p); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	// Access token dies immediately, before its expiry
	if _, err := svc.Verify(result.AccessToken); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Errorf("access token after logout err = %v", err)
	}

	// Refresh token dies too
	if _, err := svc.Refresh(ctx, result.RefreshToken); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Errorf("refresh token after logout err = %v", err)
	}
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	svc, _, _ := newAuthService(nil)
	ctx := context.Background()

	first := registerTeacher(t, svc)
	second, err := svc.Login(ctx, &LoginInput{Email: "alice@example.edu", Password: "s3cret-password"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.LogoutAll(ctx, first.User.ID); err != nil {
		t.Fatalf("LogoutAll: %v", err)
	}

	for _, token := range []string{first.RefreshToken, second.RefreshToken} {
		if _, err := svc.Refresh(ctx, token); !errors.Is(err, domain.ErrTokenRevoked) {
			t.Errorf("refresh after logout-all err = %v", err)
		}
	}
}

func TestInactiveUserCannotLoginOrRefresh(t *testing.T) {
	svc, store, _ := newAuthService(nil)
	ctx := context.Background()

	result := registerTeacher(t, svc)

	user, err := store.Users().GetByID(ctx, result.User.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	user.IsActive = false
	if err := store.Users().Update(ctx, user); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := svc.Login(ctx, &LoginInput{Email: "alice@example.edu", Password: "s3cret-password"}); !errors.Is(err, ErrUserInactive) {
		t.Errorf("inactive login err = %v", err)
	}
	if _, err := svc.Refresh(ctx, result.RefreshToken); !errors.Is(err, ErrUserInactive) {
		t.Errorf("inactive refresh err = %v", err)
	}
}
