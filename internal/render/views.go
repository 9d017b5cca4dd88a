package render

import (
	"wms-backend/internal/dashboard"
	"wms-backend/internal/models"
)

// BinCard is one card of the admin grid.
type BinCard struct {
	models.BinWithOwner
	Fill   FillState `json:"fill"`
	Alert  Alert     `json:"alert,omitempty"`
	MapURL string    `json:"map_url"`
}

type AdminView struct {
	Filter        dashboard.AdminFilter `json:"filter"`
	Cities        []string              `json:"cities"`
	Metrics       Metrics               `json:"metrics"`
	Notifications int                   `json:"notifications"`
	Cards         []BinCard             `json:"bins"`
	Drivers       []models.Profile      `json:"drivers"`
}

func BuildAdmin(data *dashboard.AdminData) AdminView {
	filtered := FilterByStatus(data.Bins, data.Filter.Status)
	cards := make([]BinCard, len(filtered))
	for i, b := range filtered {
		cards[i] = BinCard{
			BinWithOwner: b,
			Fill:         ClassifyFill(b.FillLevel),
			Alert:        BinAlert(b.ID, data.Pickups),
			MapURL:       MapEmbedURL(b.Lat, b.Lng),
		}
	}
	return AdminView{
		Filter:        data.Filter,
		Cities:        data.Cities,
		Metrics:       AdminMetrics(data.Bins, data.Drivers),
		Notifications: NotificationCount(data.Pickups),
		Cards:         cards,
		Drivers:       data.Drivers,
	}
}

// JobCard is one assignment on the driver page.
type JobCard struct {
	models.PickupDetail
	Fill          FillState `json:"fill"`
	Badge         string    `json:"badge"`
	NavigationURL string    `json:"navigation_url,omitempty"`
	CanNavigate   bool      `json:"can_navigate"`
}

type DriverView struct {
	Jobs []JobCard `json:"jobs"`
}

func BuildDriver(data *dashboard.DriverData) DriverView {
	jobs := make([]JobCard, len(data.Jobs))
	for i, j := range data.Jobs {
		nav, ok := NavigationURL(j.BinLat, j.BinLng)
		jobs[i] = JobCard{
			PickupDetail:  j,
			Fill:          ClassifyFill(j.BinFillLevel),
			Badge:         JobBadge(j.BinFillLevel),
			NavigationURL: nav,
			CanNavigate:   ok,
		}
	}
	return DriverView{Jobs: jobs}
}

type ResidentCard struct {
	Bin    models.BinWithOwner `json:"bin"`
	Fill   FillState           `json:"fill"`
	Action ResidentAction      `json:"action"`
	// PickupID is the active pickup, empty when there is none.
	PickupID string `json:"pickup_id,omitempty"`
}

// RingDash is the stroke length of the fill gauge (circumference 175).
func (c ResidentCard) RingDash() float64 {
	return float64(c.Bin.FillLevel) / 100 * 175
}

type ResidentView struct {
	Total int            `json:"total_bins"`
	Cards []ResidentCard `json:"bins"`
}

func BuildResident(data *dashboard.ResidentData) ResidentView {
	cards := make([]ResidentCard, len(data.Bins))
	for i, rb := range data.Bins {
		cards[i] = ResidentCard{
			Bin:    rb.Bin,
			Fill:   ClassifyFill(rb.Bin.FillLevel),
			Action: ResidentActionFor(rb.Active),
		}
		if rb.Active != nil {
			cards[i].PickupID = rb.Active.ID
		}
	}
	return ResidentView{Total: len(cards), Cards: cards}
}

type OperationsView struct {
	Requests []models.PickupDetail `json:"requests"`
	Issues   []models.PickupDetail `json:"issues"`
	Drivers  []models.Profile      `json:"drivers"`
}

func BuildOperations(data *dashboard.OperationsData) OperationsView {
	return OperationsView{Requests: data.Requests, Issues: data.Issues, Drivers: data.Drivers}
}

type StaffView struct {
	Drivers []models.Profile `json:"drivers"`
}

func BuildStaff(data *dashboard.StaffData) StaffView {
	return StaffView{Drivers: data.Drivers}
}

type AssignmentsView struct {
	Residents  []dashboard.ResidentAssignment `json:"residents"`
	Unassigned []models.BinWithOwner          `json:"unassigned"`
}

func BuildAssignments(data *dashboard.AssignmentsData) AssignmentsView {
	return AssignmentsView{Residents: data.Residents, Unassigned: data.Unassigned}
}
