package handlers

import (
	"log"
	"net/http"
	"net/url"

	"wms-backend/internal/auth"
	"wms-backend/internal/middleware"
	"wms-backend/internal/models"
	"wms-backend/internal/store"
	"wms-backend/pkg/utils"
)

type LoginResponse struct {
	OK    bool                    `json:"ok"`
	Token string                  `json:"token,omitempty"`
	User  *models.ProfileResponse `json:"user,omitempty"`
	Error string                  `json:"error,omitempty"`
}

// SessionSettings controls the session cookie handed to browsers.
type SessionSettings struct {
	Secure bool
}

func startSession(w http.ResponseWriter, r *http.Request, svc *auth.Service, cookie SessionSettings, profile *models.Profile, token string, status int) {
	if utils.WantsJSON(r) {
		user := profile.ToProfileResponse()
		utils.RespondJSON(w, status, LoginResponse{OK: true, Token: token, User: &user})
		return
	}
	middleware.SetSessionCookie(w, token, svc.TTL(), cookie.Secure)
	http.Redirect(w, r, models.HomePath(profile.Role), http.StatusSeeOther)
}

func authFailed(w http.ResponseWriter, r *http.Request, back string, err error) {
	if utils.WantsJSON(r) {
		utils.RespondJSON(w, statusFor(err), LoginResponse{OK: false, Error: err.Error()})
		return
	}
	utils.RedirectWithError(w, r, back, err.Error())
}

// Login verifies email and password and starts a session. Browsers get the
// session cookie and land on their role page; JSON callers get the token.
func Login(svc *auth.Service, cookie SessionSettings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := readFields(r)
		if err != nil {
			authFailed(w, r, "/", err)
			return
		}

		log.Printf("🔐 Login attempt for: %s", f["email"])

		profile, token, err := svc.SignIn(r.Context(), f["email"], f["password"])
		if err != nil {
			authFailed(w, r, "/?email="+url.QueryEscape(f["email"]), err)
			return
		}

		log.Printf("✅ Login successful: %s (%s)", profile.Email, profile.Role)
		startSession(w, r, svc, cookie, profile, token, http.StatusOK)
	}
}

// Signup registers a resident, or activates a profile an administrator
// created for this email, and signs the person in.
func Signup(svc *auth.Service, cookie SessionSettings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := readFields(r)
		if err != nil {
			authFailed(w, r, "/?mode=signup", err)
			return
		}

		back := "/?mode=signup&email=" + url.QueryEscape(f["email"])
		profile, err := svc.SignUp(r.Context(), f["email"], f["password"], f["full_name"])
		if err != nil {
			log.Printf("❌ Sign-up failed for %s: %v", f["email"], err)
			authFailed(w, r, back, err)
			return
		}

		token, err := svc.IssueToken(profile)
		if err != nil {
			authFailed(w, r, back, err)
			return
		}
		startSession(w, r, svc, cookie, profile, token, http.StatusCreated)
	}
}

// Logout ends the browser session.
func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.ClearSessionCookie(w)
		if utils.WantsJSON(r) {
			utils.RespondJSON(w, http.StatusOK, LoginResponse{OK: true})
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// AuthStatus reports who the token belongs to (used after Auth).
func AuthStatus(profiles store.ProfileStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		profile, err := profiles.GetProfile(r.Context(), claims.UserID)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		user := profile.ToProfileResponse()
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"authenticated": true,
			"user":          user,
			"home":          models.HomePath(profile.Role),
		})
	}
}
