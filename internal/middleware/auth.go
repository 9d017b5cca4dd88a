package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"wms-backend/internal/auth"
	"wms-backend/internal/models"
	"wms-backend/internal/store"
	"wms-backend/pkg/utils"
)

type contextKey string

const (
	UserContextKey    contextKey = "user"
	ProfileContextKey contextKey = "profile"
)

// SessionCookie carries the session token for browser pages.
const SessionCookie = "wms_session"

// TokenParser validates session tokens. *auth.Service implements it.
type TokenParser interface {
	ParseToken(tokenString string) (*auth.Claims, error)
}

// TokenFromRequest returns the bearer token, falling back to the session
// cookie. Empty when neither is present.
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// SetSessionCookie stores a freshly issued token in the browser.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie ends the browser session.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Auth middleware validates the session token and adds user claims to context
func Auth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := TokenFromRequest(r)
			if tokenString == "" {
				log.Printf("❌ No session token: %s %s", r.Method, r.URL.Path)
				utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := tokens.ParseToken(tokenString)
			if err != nil {
				log.Printf("❌ Invalid token: %v", err)
				utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole middleware checks if user has required role (must be used after Auth)
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserFromContext(r)
			if !ok {
				log.Println("❌ User claims not found in context")
				utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if claims.Role != role {
				log.Printf("❌ Insufficient permissions: required %s, got %s", role, claims.Role)
				utils.RespondError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PageGate guards a role's pages and form actions. Without a valid session,
// or when the profile cannot be loaded, it clears the cookie and sends the
// browser to the entry page; a profile with another role is sent to its own
// page. JSON callers get 401/403 instead. The role is read from the stored
// profile, not from the token.
func PageGate(tokens TokenParser, profiles store.ProfileStore, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := tokens.ParseToken(TokenFromRequest(r))
			if err != nil {
				signOut(w, r)
				return
			}

			profile, err := profiles.GetProfile(r.Context(), claims.UserID)
			if err != nil {
				log.Printf("⚠️  Session for %s has no usable profile: %v", claims.Email, err)
				signOut(w, r)
				return
			}

			if profile.Role != role {
				if utils.WantsJSON(r) {
					utils.RespondError(w, http.StatusForbidden, "Forbidden")
					return
				}
				http.Redirect(w, r, models.HomePath(profile.Role), http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(WithProfile(ctx, profile)))
		})
	}
}

func signOut(w http.ResponseWriter, r *http.Request) {
	ClearSessionCookie(w)
	if utils.WantsJSON(r) {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GetUserFromContext extracts user claims from request context
func GetUserFromContext(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(*auth.Claims)
	return claims, ok
}

// GetProfileFromContext returns the profile PageGate loaded.
func GetProfileFromContext(r *http.Request) (*models.Profile, bool) {
	p, ok := r.Context().Value(ProfileContextKey).(*models.Profile)
	return p, ok
}

// WithProfile attaches a profile to ctx.
func WithProfile(ctx context.Context, p *models.Profile) context.Context {
	return context.WithValue(ctx, ProfileContextKey, p)
}
