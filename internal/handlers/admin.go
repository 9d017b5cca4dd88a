package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"wms-backend/internal/actions"
	"wms-backend/internal/models"
)

const (
	adminPath       = "/admin"
	operationsPath  = "/admin/operations"
	staffPath       = "/admin/staff"
	assignmentsPath = "/admin/assignments"
)

// CreateProfile registers staff or a resident ahead of their sign-up.
func CreateProfile(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: backTo(r, adminPath), status: http.StatusCreated}
		f, err := readFields(r)
		if err != nil {
			res.write(w, r, err)
			return
		}

		profile, err := acts.CreateProfile(r.Context(), models.CreateProfileRequest{
			Name:        f["name"],
			Email:       f["email"],
			Role:        f["role"],
			VehicleInfo: f["vehicle_info"],
		})
		if err == nil {
			res.data = profile.ToProfileResponse()
			res.notice = "Profile created for " + profile.Email
		}
		res.write(w, r, err)
	}
}

func DeleteStaff(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: backTo(r, staffPath)}
		f, err := readFields(r)
		if err == nil {
			err = acts.DeleteStaff(r.Context(), chi.URLParam(r, "id"), f.confirmed())
		}
		res.write(w, r, err)
	}
}

// CreateBin deploys a bin. Unparsable coordinates become 0.
func CreateBin(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: backTo(r, adminPath), status: http.StatusCreated}
		f, err := readFields(r)
		if err != nil {
			res.write(w, r, err)
			return
		}

		bin, err := acts.CreateBin(r.Context(), models.CreateBinRequest{
			LocationName: f["location_name"],
			City:         f["city"],
			Lat:          f["lat"],
			Lng:          f["lng"],
		})
		if err == nil {
			res.data = bin
			res.notice = "Bin deployed at " + bin.LocationName
		}
		res.write(w, r, err)
	}
}

func DeleteBin(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: backTo(r, adminPath)}
		f, err := readFields(r)
		if err == nil {
			err = acts.DeleteBin(r.Context(), chi.URLParam(r, "id"), f.confirmed())
		}
		res.write(w, r, err)
	}
}

func AssignBin(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: backTo(r, assignmentsPath)}
		f, err := readFields(r)
		if err == nil {
			err = acts.AssignBin(r.Context(), chi.URLParam(r, "id"), f["owner_id"])
		}
		res.write(w, r, err)
	}
}

func UnassignBin(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: backTo(r, assignmentsPath)}
		f, err := readFields(r)
		if err == nil {
			err = acts.UnassignBin(r.Context(), chi.URLParam(r, "id"), f.confirmed())
		}
		res.write(w, r, err)
	}
}

// SimulateSensors randomizes every bin's telemetry. Failures are logged only.
func SimulateSensors(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: backTo(r, adminPath), bestEffort: true}
		n, err := acts.SimulateSensors(r.Context())
		res.data = map[string]int{"updated": n}
		res.write(w, r, err)
	}
}

// DispatchFromGrid sends the selected driver to a bin card's bin.
func DispatchFromGrid(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: backTo(r, adminPath)}
		f, err := readFields(r)
		if err != nil {
			res.write(w, r, err)
			return
		}

		pickup, err := acts.DispatchFromGrid(r.Context(), chi.URLParam(r, "id"), f["driver_id"])
		if err == nil {
			res.data = pickup
			res.notice = "Driver dispatched"
		}
		res.write(w, r, err)
	}
}

// DispatchFromOps assigns a driver to a pending request.
func DispatchFromOps(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: backTo(r, operationsPath)}
		f, err := readFields(r)
		if err != nil {
			res.write(w, r, err)
			return
		}

		pickup, err := acts.DispatchFromOps(r.Context(), chi.URLParam(r, "id"), f["driver_id"])
		if err == nil {
			res.data = pickup
			res.notice = "Driver dispatched"
		}
		res.write(w, r, err)
	}
}

// ResolveIssue clears a driver report. Store failures are logged only.
func ResolveIssue(acts *actions.Actions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := result{back: backTo(r, operationsPath), bestEffort: true}
		f, err := readFields(r)
		if err == nil {
			err = acts.ResolveIssue(r.Context(), chi.URLParam(r, "id"), f.confirmed())
		}
		res.write(w, r, err)
	}
}
