package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

func newTestAuthService() (*AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	tokens := NewTokenService("secret", time.Hour, repo, newStubRevocations(), zerolog.Nop())
	return NewAuthService(repo, NewBcryptHasher(bcrypt.MinCost), tokens, zerolog.Nop()), repo
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo := newTestAuthService()

	res, err := svc.Register(context.Background(), "alice", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", res.User.Role)
	}

	stored, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService()

	if _, err := svc.Register(context.Background(), "", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "   ", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for blank username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestAuthService()

	_, _ = svc.Register(context.Background(), "bob", "pass")
	if _, err := svc.Register(context.Background(), "bob", "pass2"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _ := newTestAuthService()

	if _, err := svc.CreateUser(context.Background(), "carol", "s3cret", domain.RoleAdmin); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User == nil || res.User.Username != "carol" {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
	if claims["sub"] != "1" {
		t.Fatalf("expected sub 1, got %v", claims["sub"])
	}
	if claims["jti"] == nil || claims["jti"] == "" {
		t.Fatalf("expected jti claim")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _ := newTestAuthService()

	_, _ = svc.Register(context.Background(), "dave", "goodpass")
	if _, err := svc.Login(context.Background(), "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, _ := newTestAuthService()

	if _, err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_MalformedHash(t *testing.T) {
	svc, repo := newTestAuthService()
	_, _ = repo.Create(context.Background(), &domain.User{Username: "eve", PasswordHash: "not-bcrypt", Role: domain.RoleUser})

	if _, err := svc.Login(context.Background(), "eve", "whatever"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_CreateUser_Roles(t *testing.T) {
	svc, _ := newTestAuthService()

	u, err := svc.CreateUser(context.Background(), "frank", "pw", "")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("expected default role %s, got %s", domain.RoleUser, u.Role)
	}

	if _, err := svc.CreateUser(context.Background(), "grace", "pw", "superuser"); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthService_ListAndDeleteUsers(t *testing.T) {
	svc, repo := newTestAuthService()
	alice, _ := svc.Register(context.Background(), "alice", "pw")
	_, _ = svc.Register(context.Background(), "bob", "pw")
	repo.favs[alice.User.ID] = []int64{7, 9}

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if got := users[0].FavoritePlantIDs; len(got) != 2 || got[0] != 7 {
		t.Fatalf("unexpected favorites for alice: %v", got)
	}

	if err := svc.DeleteUser(context.Background(), alice.User.ID); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), alice.User.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_PasswordByteLimit(t *testing.T) {
	svc, repo := newTestAuthService()

	// Multibyte characters count twice against bcrypt's 72-byte limit.
	long := strings.Repeat("é", 40)
	if _, err := svc.Register(context.Background(), "moss", long); !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), "moss", long, domain.RoleAdmin); !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong from CreateUser, got %v", err)
	}
	if _, err := repo.FindByUsername(context.Background(), "moss"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected no user to be stored, got %v", err)
	}

	if _, err := svc.Register(context.Background(), "moss", strings.Repeat("é", 36)); err != nil {
		t.Fatalf("72-byte password rejected: %v", err)
	}
}
