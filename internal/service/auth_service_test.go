package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/upgradist/eduquest-backend/internal/config"
	"github.com/upgradist/eduquest-backend/internal/model"
)

func testAuthService() *AuthService {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // MinCost keeps the test fast
	}
	return NewAuthService(cfg, nil, zerolog.Nop())
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testAuthService()
	user := &model.User{ID: 42, Role: model.RoleAdmin}

	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("Role = %s, want admin", claims.Role)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := testAuthService().GenerateToken(&model.User{ID: 1, Role: model.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := NewAuthService(&config.Config{JWTSecret: "different", JWTExpiry: time.Hour}, nil, zerolog.Nop())
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := testAuthService().ValidateToken("not-a-jwt"); err == nil {
		t.Error("expected validation to fail for malformed token")
	}
}

func TestPasswordHashing(t *testing.T) {
	svc := testAuthService()

	hash, err := svc.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}

	if err := svc.CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword with wrong password = %v, want ErrInvalidCredentials", err)
	}
}
