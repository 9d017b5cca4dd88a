package render

import (
	"fmt"
	"net/url"

	"wms-backend/internal/dashboard"
	"wms-backend/internal/models"
)

const (
	CriticalFillLevel = models.CriticalFillLevel
	ModerateFillLevel = 50
)

// FillState is the presentation class of a fill level.
type FillState struct {
	Label    string // "Critical", "Moderate" or "Optimal"
	Color    string // tailwind palette name
	Critical bool
}

// ClassifyFill maps a fill level to its state: >= 80 critical, > 50
// moderate, otherwise optimal.
func ClassifyFill(fill int) FillState {
	switch {
	case fill >= CriticalFillLevel:
		return FillState{Label: "Critical", Color: "red", Critical: true}
	case fill > ModerateFillLevel:
		return FillState{Label: "Moderate", Color: "amber"}
	default:
		return FillState{Label: "Optimal", Color: "emerald"}
	}
}

type Alert string

const (
	AlertNone    Alert = ""
	AlertIssue   Alert = "ISSUE"
	AlertRequest Alert = "REQUEST"
)

// BinAlert picks the badge for a bin's admin card. An issue report outranks
// an undispatched request.
func BinAlert(binID string, pickups []models.PickupDetail) Alert {
	request := false
	for i := range pickups {
		p := &pickups[i]
		if p.BinID != binID {
			continue
		}
		if p.HasIssue() {
			return AlertIssue
		}
		if p.AwaitingDispatch() {
			request = true
		}
	}
	if request {
		return AlertRequest
	}
	return AlertNone
}

// FilterByStatus keeps only critical bins when status is "critical".
func FilterByStatus(bins []models.BinWithOwner, status string) []models.BinWithOwner {
	if status != dashboard.StatusCritical {
		return bins
	}
	out := make([]models.BinWithOwner, 0, len(bins))
	for _, b := range bins {
		if b.FillLevel >= CriticalFillLevel {
			out = append(out, b)
		}
	}
	return out
}

// NotificationCount is undispatched requests plus open issues.
func NotificationCount(pickups []models.PickupDetail) int {
	n := 0
	for i := range pickups {
		if pickups[i].AwaitingDispatch() {
			n++
		}
		if pickups[i].HasIssue() {
			n++
		}
	}
	return n
}

type Metrics struct {
	TotalBins    int `json:"total_bins"`
	CriticalBins int `json:"critical_bins"`
	Drivers      int `json:"drivers"`
}

// AdminMetrics counts over the city-filtered bins, before the status filter.
func AdminMetrics(bins []models.BinWithOwner, drivers []models.Profile) Metrics {
	m := Metrics{TotalBins: len(bins), Drivers: len(drivers)}
	for _, b := range bins {
		if b.FillLevel >= CriticalFillLevel {
			m.CriticalBins++
		}
	}
	return m
}

func JobBadge(fill int) string {
	if fill >= CriticalFillLevel {
		return "Critical Fill"
	}
	return "Standard Pickup"
}

// NavigationURL returns Google Maps directions to the point, or false when
// either coordinate is missing (zero).
func NavigationURL(lat, lng float64) (string, bool) {
	if lat == 0 || lng == 0 {
		return "", false
	}
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%g,%g", lat, lng), true
}

// MapEmbedURL is an OpenStreetMap embed centred on the point with a 0.01
// degree margin on every side.
func MapEmbedURL(lat, lng float64) string {
	const d = 0.01
	q := url.Values{}
	q.Set("bbox", fmt.Sprintf("%.4f,%.4f,%.4f,%.4f", lng-d, lat-d, lng+d, lat+d))
	q.Set("layer", "mapnik")
	q.Set("marker", fmt.Sprintf("%g,%g", lat, lng))
	return "https://www.openstreetmap.org/export/embed.html?" + q.Encode()
}

const DefaultVehicle = "Transport Unit"

// ResidentAction is the state of a resident's bin card.
type ResidentAction struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Status  string `json:"status"` // "scheduled", "pending" or "idle"
	Detail  string `json:"detail,omitempty"`
	Driver  string `json:"driver,omitempty"`
	Vehicle string `json:"vehicle,omitempty"`
}

// ResidentActionFor derives the card action from the bin's active pickup.
func ResidentActionFor(active *models.PickupDetail) ResidentAction {
	switch {
	case active == nil:
		return ResidentAction{Label: "Request Pickup", Enabled: true, Status: "idle", Detail: "No active schedule"}
	case active.HasDriver():
		a := ResidentAction{Label: "Pickup Scheduled", Status: "scheduled", Detail: "Driver En Route", Vehicle: DefaultVehicle}
		if active.DriverName != nil {
			a.Driver = *active.DriverName
		}
		if active.DriverVehicleInfo != nil && *active.DriverVehicleInfo != "" {
			a.Vehicle = *active.DriverVehicleInfo
		}
		return a
	default:
		return ResidentAction{Label: "Request Sent", Status: "pending", Detail: "Waiting for dispatch..."}
	}
}
