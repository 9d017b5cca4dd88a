package websocket

import (
	"context"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"wms-backend/internal/middleware"
	"wms-backend/internal/models"
	"wms-backend/internal/realtime"
	"wms-backend/internal/render"
	"wms-backend/internal/store"
	"wms-backend/pkg/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveRenderer renders the live region of a page for a profile. The query
// carries the page's filters.
type LiveRenderer interface {
	LiveRegion(ctx context.Context, page string, profile *models.Profile, query url.Values) (string, error)
}

// livePage says who may open a page and which tables refresh it.
type livePage struct {
	role   string
	tables []string
}

var livePages = map[string]livePage{
	render.PageAdmin:       {models.RoleAdmin, []string{realtime.TableBins}},
	render.PageOperations:  {models.RoleAdmin, []string{realtime.TablePickups}},
	render.PageStaff:       {models.RoleAdmin, []string{realtime.TableProfiles}},
	render.PageAssignments: {models.RoleAdmin, []string{realtime.TableBins, realtime.TableProfiles}},
	render.PageDriver:      {models.RoleDriver, []string{realtime.TablePickups}},
	render.PageResident:    {models.RoleUser, []string{realtime.TableBins, realtime.TablePickups}},
}

// TablesFor returns the tables whose changes refresh page.
func TablesFor(page string) []string {
	return livePages[page].tables
}

// HandleWebSocket upgrades HTTP connection to WebSocket. The session comes
// from the token query parameter, the Authorization header or the session
// cookie; the page query parameter selects which live region is kept fresh.
func HandleWebSocket(hub *Hub, broker *realtime.Broker, tokens middleware.TokenParser, profiles store.ProfileStore, pages LiveRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		tokenString := query.Get("token")
		if tokenString == "" {
			tokenString = middleware.TokenFromRequest(r)
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			log.Printf("❌ Invalid token for WebSocket connection: %v", err)
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		profile, err := profiles.GetProfile(r.Context(), claims.UserID)
		if err != nil {
			log.Printf("❌ No profile for WebSocket user %s: %v", claims.UserID, err)
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		page := query.Get("page")
		live, ok := livePages[page]
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "Unknown page")
			return
		}
		if live.role != profile.Role {
			utils.RespondError(w, http.StatusForbidden, "Forbidden")
			return
		}

		// Subscribe before the upgrade so no change is missed in between.
		sub := broker.Subscribe(live.tables...)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			sub.Close()
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		refresh := func(ctx context.Context) (string, error) {
			return pages.LiveRegion(ctx, page, profile, query)
		}
		client := NewClient(profile.ID, profile.Role, page, conn, hub, sub, refresh)

		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
		go client.Watch()

		log.Printf("✅ WebSocket connection established for user: %s (%s page)", profile.Email, page)
	}
}
