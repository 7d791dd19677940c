package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/security"
	"staybook/internal/infra/storage/memory"
)

func newTestService(ttl time.Duration) *Service {
	return &Service{
		Users:      memory.NewUserRepository(),
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: 4},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: ttl,
	}
}

func TestRegisterAndResolveToken(t *testing.T) {
	svc := newTestService(0)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterParams{
		Name:     "Alex",
		Email:    "  Alex@Example.COM ",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.Token == "" {
		t.Fatal("Register returned empty token")
	}
	if res.User.Email != "alex@example.com" {
		t.Errorf("email not normalized: %q", res.User.Email)
	}
	if res.User.PasswordHash == "correct horse" {
		t.Error("password stored in the clear")
	}

	u, err := svc.ResolveToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if u.ID != res.User.ID {
		t.Errorf("resolved user %q, want %q", u.ID, res.User.ID)
	}
}

func TestRegisterRejections(t *testing.T) {
	svc := newTestService(0)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterParams{Name: "A", Email: "a@b.com", Password: "short"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("short password = %v, want ErrPasswordTooShort", err)
	}

	if _, err := svc.Register(ctx, RegisterParams{Name: "A", Email: "a@b.com", Password: "long enough"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterParams{Name: "B", Email: "A@B.com", Password: "long enough"})
	if !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Errorf("duplicate email = %v, want ErrEmailAlreadyUsed", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(0)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterParams{Name: "A", Email: "a@b.com", Password: "long enough"}); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Login(ctx, LoginParams{Email: "a@b.com", Password: "long enough"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Error("Login returned empty token")
	}

	if _, err := svc.Login(ctx, LoginParams{Email: "a@b.com", Password: "wrong password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password = %v, want ErrInvalidCredentials", err)
	}
	// Unknown accounts fail identically to wrong passwords.
	if _, err := svc.Login(ctx, LoginParams{Email: "nobody@b.com", Password: "long enough"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown account = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc := newTestService(0)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterParams{Name: "A", Email: "a@b.com", Password: "long enough"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx, res.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.ResolveToken(ctx, res.Token); err == nil {
		t.Error("token still resolves after logout")
	}
}

func TestResolveTokenExpiry(t *testing.T) {
	svc := newTestService(time.Nanosecond)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterParams{Name: "A", Email: "a@b.com", Password: "long enough"})
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, err := svc.ResolveToken(ctx, res.Token); err == nil {
		t.Error("expired token still resolves")
	}
}
