package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wms-backend/internal/actions"
	"wms-backend/internal/middleware"
	"wms-backend/internal/models"
	"wms-backend/pkg/utils"
)

const (
	driverPath   = "/driver"
	residentPath = "/resident"
)

// RoleBroadcaster pushes a socket frame to every open page of a role.
type RoleBroadcaster interface {
	BroadcastToRole(role string, data interface{})
}

// CompleteJob marks one of the driver's jobs collected. Store failures are
// logged only.
func CompleteJob(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: driverPath, bestEffort: true}
		profile, _ := middleware.GetProfileFromContext(r)
		f, err := readFields(r)
		if err == nil {
			err = acts.CompleteJob(r.Context(), profile.ID, chi.URLParam(r, "id"), f.confirmed())
		}
		res.write(w, r, err)
	}
}

// ReportIssue closes one of the driver's jobs with a reason.
func ReportIssue(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: driverPath}
		profile, _ := middleware.GetProfileFromContext(r)
		f, err := readFields(r)
		if err == nil {
			err = acts.ReportIssue(r.Context(), profile.ID, chi.URLParam(r, "id"), f["reason"])
		}
		if err == nil {
			res.notice = "Issue reported"
		}
		res.write(w, r, err)
	}
}

// RequestPickup opens a request for one of the resident's bins and lets any
// open admin page know.
func RequestPickup(acts *actions.Actions, admins RoleBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: residentPath, status: http.StatusCreated}
		profile, _ := middleware.GetProfileFromContext(r)
		f, err := readFields(r)
		if err != nil {
			res.write(w, r, err)
			return
		}

		binID := chi.URLParam(r, "id")
		pickup, err := acts.RequestPickup(r.Context(), profile.ID, binID, f.confirmed())
		if err == nil {
			res.data = pickup
			res.notice = "Pickup requested"
			if admins != nil {
				admins.BroadcastToRole(models.RoleAdmin, map[string]interface{}{
					"type": "pickup_requested",
					"data": map[string]string{"pickup_id": pickup.ID, "bin_id": binID, "resident": profile.Name},
				})
			}
		}
		res.write(w, r, err)
	}
}

// RegisterFCMToken stores the calling driver's device token (used after
// Auth and RequireRole).
func RegisterFCMToken(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.RegisterDeviceTokenRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		token, err := acts.RegisterDeviceToken(r.Context(), claims.UserID, req)
		if err != nil {
			log.Printf("❌ Failed to register device token: %v", err)
			utils.RespondError(w, statusFor(err), err.Error())
			return
		}
		utils.RespondSuccess(w, http.StatusOK, token)
	}
}

// ClientCounter reports how many live-update sockets are open.
type ClientCounter interface {
	GetClientCount() int
}

// Health reports liveness and the number of open sockets.
func Health(clients ClientCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"status":            "ok",
			"websocket_clients": clients.GetClientCount(),
		})
	}
}
