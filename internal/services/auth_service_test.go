package services_test

import (
	"errors"
	"testing"
	"time"

	"voltbay/internal/auth"
	"voltbay/internal/repos"
	"voltbay/internal/services"
)

func TestAuth_RegisterLoginRoundTrip(t *testing.T) {
	db := memdb(t)
	tokens := auth.NewTokens("test-secret", time.Hour)
	svc := services.NewAuthService(repos.NewUserRepo(db), tokens)

	u, tok, err := svc.Register("new@example.com", "New User", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "USER" {
		t.Errorf("new account role = %s", u.Role)
	}

	claims, err := tokens.Verify(tok)
	if err != nil {
		t.Fatalf("registration token rejected: %v", err)
	}
	if claims.UserID != u.ID || claims.Email != "new@example.com" {
		t.Errorf("claims mismatch: %+v", claims)
	}

	if _, _, err := svc.Login("new@example.com", "Passw0rd!"); err != nil {
		t.Errorf("login with correct password: %v", err)
	}
	if _, _, err := svc.Login("new@example.com", "wrong-pass"); !errors.Is(err, services.ErrBadCreds) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "Passw0rd!"); !errors.Is(err, services.ErrBadCreds) {
		t.Errorf("unknown email: got %v", err)
	}
}

func TestAuth_DuplicateEmail(t *testing.T) {
	db := memdb(t)
	svc := services.NewAuthService(repos.NewUserRepo(db), auth.NewTokens("test-secret", time.Hour))

	if _, _, err := svc.Register("dup@example.com", "First", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Register("dup@example.com", "Second", "Passw0rd!"); !errors.Is(err, services.ErrEmailTaken) {
		t.Fatalf("want email taken, got %v", err)
	}
}

func TestAuth_TamperedTokenRejected(t *testing.T) {
	good := auth.NewTokens("test-secret", time.Hour)
	evil := auth.NewTokens("other-secret", time.Hour)

	tok, err := evil.Issue("u1", "u1@example.com", "ADMIN")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := good.Verify(tok); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("foreign-signed token accepted: %v", err)
	}
}
