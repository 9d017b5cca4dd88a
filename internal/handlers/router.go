package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"wms-backend/internal/actions"
	"wms-backend/internal/auth"
	"wms-backend/internal/middleware"
	"wms-backend/internal/models"
	"wms-backend/internal/realtime"
	"wms-backend/internal/render"
	"wms-backend/internal/store"
	"wms-backend/internal/websocket"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Store          store.Store
	Auth           *auth.Service
	Actions        *actions.Actions
	Pages          *Pages
	Hub            *websocket.Hub
	Broker         *realtime.Broker
	Session        SessionSettings
	AllowedOrigins []string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", Health(d.Hub))

	// Entry and authentication routes (no auth required)
	r.Get("/", d.Pages.Entry(d.Auth, d.Store))
	r.Post("/auth/login", Login(d.Auth, d.Session))
	r.Post("/auth/signup", Signup(d.Auth, d.Session))
	r.Post("/auth/logout", Logout())

	// WebSocket endpoint (authentication handled in handler via query param or cookie)
	r.Get("/ws", websocket.HandleWebSocket(d.Hub, d.Broker, d.Auth, d.Store, d.Pages))

	// Admin pages and actions
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.PageGate(d.Auth, d.Store, models.RoleAdmin))

		r.Get("/", d.Pages.Serve(render.PageAdmin))
		r.Get("/operations", d.Pages.Serve(render.PageOperations))
		r.Get("/staff", d.Pages.Serve(render.PageStaff))
		r.Get("/assignments", d.Pages.Serve(render.PageAssignments))

		r.Post("/profiles", CreateProfile(d.Actions))
		r.Post("/staff/{id}/delete", DeleteStaff(d.Actions))

		r.Post("/bins", CreateBin(d.Actions))
		r.Post("/bins/{id}/delete", DeleteBin(d.Actions))
		r.Post("/bins/{id}/dispatch", DispatchFromGrid(d.Actions))
		r.Post("/bins/{id}/assign", AssignBin(d.Actions))
		r.Post("/bins/{id}/unassign", UnassignBin(d.Actions))
		r.Post("/simulate", SimulateSensors(d.Actions))

		r.Post("/pickups/{id}/dispatch", DispatchFromOps(d.Actions))
		r.Post("/pickups/{id}/resolve", ResolveIssue(d.Actions))
	})

	// Driver page and actions
	r.Route("/driver", func(r chi.Router) {
		r.Use(middleware.PageGate(d.Auth, d.Store, models.RoleDriver))

		r.Get("/", d.Pages.Serve(render.PageDriver))
		r.Post("/jobs/{id}/complete", CompleteJob(d.Actions))
		r.Post("/jobs/{id}/report", ReportIssue(d.Actions))
	})

	// Resident page and actions
	r.Route("/resident", func(r chi.Router) {
		r.Use(middleware.PageGate(d.Auth, d.Store, models.RoleUser))

		r.Get("/", d.Pages.Serve(render.PageResident))
		r.Post("/bins/{id}/request", RequestPickup(d.Actions, d.Hub))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", Login(d.Auth, d.Session))
		r.Post("/auth/signup", Signup(d.Auth, d.Session))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Auth))

			// Auth status endpoint
			r.Get("/auth/status", AuthStatus(d.Store))
			r.Get("/dashboard", d.Pages.Dashboard(d.Store))
		})

		// FCM token registration
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Auth))
			r.Use(middleware.RequireRole(models.RoleDriver))

			r.Post("/driver/fcm-token", RegisterFCMToken(d.Actions))
		})
	})

	return r
}
