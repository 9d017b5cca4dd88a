package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"wms-backend/internal/models"
	"wms-backend/internal/store"
	"wms-backend/internal/store/memstore"
)

func newService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	st := memstore.New(nil)
	return NewService(st, "test-secret", time.Hour), st
}

func TestSignUpForcesUserRole(t *testing.T) {
	svc, _ := newService(t)

	p, err := svc.SignUp(context.Background(), " Ama@Example.com ", "secret1", "Ama Mensah")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Role != models.RoleUser {
		t.Fatalf("expected role %q, got %q", models.RoleUser, p.Role)
	}
	if p.Status != models.ProfileStatusActive {
		t.Fatalf("expected status active, got %q", p.Status)
	}
	if p.Email != "ama@example.com" {
		t.Fatalf("expected normalized email, got %q", p.Email)
	}
}

func TestSignUpClaimsPreProvisionedProfile(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	driver := &models.Profile{ID: "d1", Email: "kofi@example.com", Name: "Kofi", Role: models.RoleDriver}
	if err := st.CreateProfile(ctx, driver); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p, err := svc.SignUp(ctx, "kofi@example.com", "secret1", "Kofi Boateng")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "d1" || p.Role != models.RoleDriver {
		t.Fatalf("expected claimed driver profile, got %+v", p)
	}

	_, _, err = svc.SignIn(ctx, "kofi@example.com", "secret1")
	if err != nil {
		t.Fatalf("expected sign in to succeed, got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc, _ := newService(t)
	cases := []struct {
		name, email, password, fullName string
	}{
		{"missing email", "", "secret1", "A"},
		{"missing name", "a@example.com", "secret1", "  "},
		{"short password", "a@example.com", "12345", "A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SignUp(context.Background(), tc.email, tc.password, tc.fullName)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSignUpTwiceConflicts(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@example.com", "secret1", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.SignUp(ctx, "a@example.com", "secret2", "A")
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	if _, err := svc.SignUp(ctx, "a@example.com", "secret1", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := svc.SignIn(ctx, "a@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.SignIn(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if ErrInvalidCredentials.Error() != "Invalid login credentials" {
		t.Fatalf("unexpected message %q", ErrInvalidCredentials.Error())
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	if _, err := svc.SignUp(ctx, "a@example.com", "secret1", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, token, err := svc.SignIn(ctx, "a@example.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != p.ID || claims.Role != models.RoleUser {
		t.Fatalf("unexpected claims %+v", claims)
	}

	other := NewService(nil, "different-secret", time.Hour)
	if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc, _ := newService(t)
	token, err := svc.IssueToken(&models.Profile{ID: "u1", Email: "a@example.com", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}
