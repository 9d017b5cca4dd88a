package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"wms-backend/internal/dashboard"
	"wms-backend/internal/middleware"
	"wms-backend/internal/models"
	"wms-backend/internal/render"
	"wms-backend/internal/store"
	"wms-backend/pkg/utils"
)

// Pages loads and renders role pages. It serves full documents over HTTP,
// live regions to socket clients and the same views as JSON.
type Pages struct {
	loader   *dashboard.Loader
	renderer *render.Renderer
}

func NewPages(loader *dashboard.Loader, renderer *render.Renderer) *Pages {
	return &Pages{loader: loader, renderer: renderer}
}

var pageTitles = map[string]string{
	render.PageAdmin:       "Dashboard",
	render.PageOperations:  "Operations Center",
	render.PageStaff:       "Fleet Staff",
	render.PageAssignments: "Resident Assignments",
	render.PageDriver:      "Driver Console",
	render.PageResident:    "My Bins",
}

// homePage is the page a role lands on.
func homePage(role string) string {
	switch role {
	case models.RoleAdmin:
		return render.PageAdmin
	case models.RoleDriver:
		return render.PageDriver
	default:
		return render.PageResident
	}
}

// View runs the page's loader for the profile and derives its view model.
// query carries the admin grid filters.
func (p *Pages) View(ctx context.Context, page string, profile *models.Profile, query url.Values) (interface{}, error) {
	switch page {
	case render.PageAdmin:
		data, err := p.loader.LoadAdmin(ctx, dashboard.AdminFilter{
			City:   query.Get("city"),
			Status: query.Get("status"),
		})
		if err != nil {
			return nil, err
		}
		return render.BuildAdmin(data), nil
	case render.PageOperations:
		data, err := p.loader.LoadOperations(ctx)
		if err != nil {
			return nil, err
		}
		return render.BuildOperations(data), nil
	case render.PageStaff:
		data, err := p.loader.LoadStaff(ctx)
		if err != nil {
			return nil, err
		}
		return render.BuildStaff(data), nil
	case render.PageAssignments:
		data, err := p.loader.LoadAssignments(ctx)
		if err != nil {
			return nil, err
		}
		return render.BuildAssignments(data), nil
	case render.PageDriver:
		data, err := p.loader.LoadDriver(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
		return render.BuildDriver(data), nil
	case render.PageResident:
		data, err := p.loader.LoadResident(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
		return render.BuildResident(data), nil
	}
	return nil, fmt.Errorf("unknown page %q", page)
}

// LiveRegion re-renders only the live part of a page.
func (p *Pages) LiveRegion(ctx context.Context, page string, profile *models.Profile, query url.Values) (string, error) {
	view, err := p.View(ctx, page, profile, query)
	if err != nil {
		return "", err
	}
	return p.renderer.Live(page, render.PageData{
		Title:   pageTitles[page],
		Active:  page,
		Profile: profile,
		View:    view,
	})
}

func flashFrom(r *http.Request) render.Flash {
	q := r.URL.Query()
	return render.Flash{Error: q.Get("error"), Notice: q.Get("notice")}
}

// Serve renders a role page for the profile PageGate attached.
func (p *Pages) Serve(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := middleware.GetProfileFromContext(r)
		if !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		data := render.PageData{
			Title:   pageTitles[page],
			Active:  page,
			Profile: profile,
			Flash:   flashFrom(r),
		}
		view, err := p.View(r.Context(), page, profile, r.URL.Query())
		if err != nil {
			log.Printf("❌ Failed to load %s page: %v", page, err)
			http.Error(w, "Failed to load page", http.StatusInternalServerError)
			return
		}
		data.View = view

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := p.renderer.Page(w, page, data); err != nil {
			log.Printf("❌ Failed to render %s page: %v", page, err)
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// Entry is the login/registration page. A browser that already holds a
// valid session goes straight to its role page.
func (p *Pages) Entry(tokens middleware.TokenParser, profiles store.ProfileStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claims, err := tokens.ParseToken(middleware.TokenFromRequest(r)); err == nil {
			if profile, err := profiles.GetProfile(r.Context(), claims.UserID); err == nil {
				http.Redirect(w, r, models.HomePath(profile.Role), http.StatusSeeOther)
				return
			}
			middleware.ClearSessionCookie(w)
		}

		data := render.PageData{
			Title: "Sign In",
			Flash: flashFrom(r),
			View: render.LoginView{
				SignUp: r.URL.Query().Get("mode") == "signup",
				Email:  r.URL.Query().Get("email"),
			},
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := p.renderer.Page(w, render.PageLogin, data); err != nil {
			log.Printf("❌ Failed to render login page: %v", err)
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// Dashboard returns the caller's home view as JSON (used after Auth).
func (p *Pages) Dashboard(profiles store.ProfileStore) http.HandlerFunc {
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

		page := homePage(profile.Role)
		if profile.Role == models.RoleAdmin {
			if requested := r.URL.Query().Get("page"); requested != "" {
				page = requested
			}
		}
		if page == render.PageDriver || page == render.PageResident {
			if page != homePage(profile.Role) {
				utils.RespondError(w, http.StatusForbidden, "Forbidden")
				return
			}
		}

		view, err := p.View(r.Context(), page, profile, r.URL.Query())
		if err != nil {
			log.Printf("❌ Failed to load %s dashboard: %v", page, err)
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{
			"page": page,
			"user": profile.ToProfileResponse(),
			"view": view,
		})
	}
}
