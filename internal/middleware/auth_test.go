package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wms-backend/internal/auth"
	"wms-backend/internal/models"
	"wms-backend/internal/store/memstore"
)

func setup(t *testing.T) (*auth.Service, *memstore.Store) {
	t.Helper()
	st := memstore.New(nil)
	for _, p := range []models.Profile{
		{ID: "a1", Email: "admin@example.com", Name: "Admin", Role: models.RoleAdmin},
		{ID: "d1", Email: "driver@example.com", Name: "Driver", Role: models.RoleDriver},
	} {
		p := p
		if err := st.CreateProfile(context.Background(), &p); err != nil {
			t.Fatalf("failed to seed profile: %v", err)
		}
	}
	return auth.NewService(st, "test-secret", time.Hour), st
}

func token(t *testing.T, svc *auth.Service, p models.Profile) string {
	t.Helper()
	tok, err := svc.IssueToken(&p)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return tok
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthRequiresValidToken(t *testing.T) {
	svc, _ := setup(t)
	h := Auth(svc)(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token(t, svc, models.Profile{ID: "d1", Role: models.RoleDriver})})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with cookie token, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	svc, _ := setup(t)
	h := Auth(svc)(RequireRole(models.RoleDriver)(okHandler))

	req := httptest.NewRequest(http.MethodPost, "/api/driver/fcm-token", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, svc, models.Profile{ID: "a1", Role: models.RoleAdmin}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin, got %d", rec.Code)
	}
}

func TestPageGate(t *testing.T) {
	svc, st := setup(t)

	var seen *models.Profile
	h := PageGate(svc, st, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetProfileFromContext(r)
	}))

	cases := []struct {
		name     string
		token    string
		location string
		cleared  bool
	}{
		{"no session", "", "/", true},
		{"bad token", "garbage", "/", true},
		{"unknown profile", token(t, svc, models.Profile{ID: "ghost", Role: models.RoleAdmin}), "/", true},
		// The token claims admin but the stored profile is a driver.
		{"role mismatch", token(t, svc, models.Profile{ID: "d1", Role: models.RoleAdmin}), "/driver", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tc.token != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tc.token})
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != tc.location {
			t.Fatalf("%s: expected redirect to %s, got %d %s", tc.name, tc.location, rec.Code, rec.Header().Get("Location"))
		}
		cleared := false
		for _, c := range rec.Result().Cookies() {
			if c.Name == SessionCookie && c.MaxAge < 0 {
				cleared = true
			}
		}
		if cleared != tc.cleared {
			t.Fatalf("%s: expected cookie cleared=%v", tc.name, tc.cleared)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token(t, svc, models.Profile{ID: "a1", Role: models.RoleAdmin})})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen == nil || seen.ID != "a1" {
		t.Fatalf("expected admin page served with profile, got %d %+v", rec.Code, seen)
	}
}

func TestTokenFromRequestPrefersHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
	if got := TokenFromRequest(req); got != "header-token" {
		t.Fatalf("expected header-token, got %q", got)
	}

	req.Header.Set("Authorization", "Basic abc")
	if got := TokenFromRequest(req); got != "" {
		t.Fatalf("expected empty token for non-bearer header, got %q", got)
	}
}

func TestPageGateAnswersJSONCallers(t *testing.T) {
	svc, st := setup(t)
	h := PageGate(svc, st, models.RoleAdmin)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/admin/bins", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/bins", nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token(t, svc, models.Profile{ID: "d1", Role: models.RoleDriver}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
