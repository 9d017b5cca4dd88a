package render

import (
	"strings"
	"testing"

	"wms-backend/internal/dashboard"
	"wms-backend/internal/models"
)

func strPtr(s string) *string { return &s }

func TestClassifyFillBoundaries(t *testing.T) {
	cases := []struct {
		fill  int
		label string
		color string
	}{
		{0, "Optimal", "emerald"},
		{50, "Optimal", "emerald"},
		{51, "Moderate", "amber"},
		{79, "Moderate", "amber"},
		{80, "Critical", "red"},
		{100, "Critical", "red"},
	}
	for _, tc := range cases {
		got := ClassifyFill(tc.fill)
		if got.Label != tc.label || got.Color != tc.color {
			t.Fatalf("fill %d: expected %s/%s, got %s/%s", tc.fill, tc.label, tc.color, got.Label, got.Color)
		}
		if got.Critical != (tc.fill >= 80) {
			t.Fatalf("fill %d: unexpected critical flag %v", tc.fill, got.Critical)
		}
	}
}

func TestBinAlertPriority(t *testing.T) {
	request := models.PickupDetail{Pickup: models.Pickup{ID: "p1", BinID: "b1", Status: models.PickupStatusPending}}
	issue := models.PickupDetail{Pickup: models.Pickup{ID: "p2", BinID: "b1", Status: models.PickupStatusCompleted, IssueReport: strPtr("Blocked")}}
	dispatched := models.PickupDetail{Pickup: models.Pickup{ID: "p3", BinID: "b2", Status: models.PickupStatusPending, DriverID: strPtr("d1")}}

	if got := BinAlert("b1", []models.PickupDetail{request, issue}); got != AlertIssue {
		t.Fatalf("expected ISSUE to win, got %q", got)
	}
	if got := BinAlert("b1", []models.PickupDetail{request}); got != AlertRequest {
		t.Fatalf("expected REQUEST, got %q", got)
	}
	if got := BinAlert("b2", []models.PickupDetail{request, issue, dispatched}); got != AlertNone {
		t.Fatalf("expected no alert for dispatched pickup, got %q", got)
	}
}

func TestFilterByStatusAndMetrics(t *testing.T) {
	bins := []models.BinWithOwner{
		{Bin: models.Bin{ID: "a", FillLevel: 79}},
		{Bin: models.Bin{ID: "b", FillLevel: 80}},
		{Bin: models.Bin{ID: "c", FillLevel: 100}},
	}

	critical := FilterByStatus(bins, dashboard.StatusCritical)
	if len(critical) != 2 || critical[0].ID != "b" {
		t.Fatalf("expected b and c, got %+v", critical)
	}
	if len(FilterByStatus(bins, dashboard.StatusAll)) != 3 {
		t.Fatalf("expected all bins kept")
	}

	m := AdminMetrics(bins, []models.Profile{{ID: "d1"}})
	if m.TotalBins != 3 || m.CriticalBins != 2 || m.Drivers != 1 {
		t.Fatalf("unexpected metrics %+v", m)
	}
}

func TestNotificationCount(t *testing.T) {
	pickups := []models.PickupDetail{
		{Pickup: models.Pickup{Status: models.PickupStatusPending}},
		{Pickup: models.Pickup{Status: models.PickupStatusPending}},
		{Pickup: models.Pickup{Status: models.PickupStatusPending, DriverID: strPtr("d1")}},
		{Pickup: models.Pickup{Status: models.PickupStatusCompleted, IssueReport: strPtr("x")}},
	}
	if got := NotificationCount(pickups); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestDriverDerivations(t *testing.T) {
	if JobBadge(80) != "Critical Fill" || JobBadge(79) != "Standard Pickup" {
		t.Fatalf("unexpected badges %q / %q", JobBadge(80), JobBadge(79))
	}

	if _, ok := NavigationURL(0, -0.18); ok {
		t.Fatalf("expected navigation disabled for zero latitude")
	}
	if _, ok := NavigationURL(5.6, 0); ok {
		t.Fatalf("expected navigation disabled for zero longitude")
	}
	u, ok := NavigationURL(5.556, -0.1823)
	if !ok || u != "https://www.google.com/maps/dir/?api=1&destination=5.556,-0.1823" {
		t.Fatalf("unexpected url %q", u)
	}
}

func TestMapEmbedURL(t *testing.T) {
	u := MapEmbedURL(5.5, -0.2)
	if !strings.HasPrefix(u, "https://www.openstreetmap.org/export/embed.html?") {
		t.Fatalf("unexpected url %q", u)
	}
	if !strings.Contains(u, "bbox=-0.2100%2C5.4900%2C-0.1900%2C5.5100") {
		t.Fatalf("expected 0.01 degree bounding box, got %q", u)
	}
	if !strings.Contains(u, "marker=5.5%2C-0.2") {
		t.Fatalf("expected marker, got %q", u)
	}
}

func TestResidentActionFor(t *testing.T) {
	idle := ResidentActionFor(nil)
	if !idle.Enabled || idle.Label != "Request Pickup" {
		t.Fatalf("unexpected idle action %+v", idle)
	}

	pending := ResidentActionFor(&models.PickupDetail{Pickup: models.Pickup{Status: models.PickupStatusPending}})
	if pending.Enabled || pending.Label != "Request Sent" || pending.Detail != "Waiting for dispatch..." {
		t.Fatalf("unexpected pending action %+v", pending)
	}

	scheduled := ResidentActionFor(&models.PickupDetail{
		Pickup:     models.Pickup{Status: models.PickupStatusPending, DriverID: strPtr("d1")},
		DriverName: strPtr("Kofi"),
	})
	if scheduled.Enabled || scheduled.Label != "Pickup Scheduled" || scheduled.Driver != "Kofi" || scheduled.Vehicle != DefaultVehicle {
		t.Fatalf("unexpected scheduled action %+v", scheduled)
	}

	withVehicle := ResidentActionFor(&models.PickupDetail{
		Pickup:            models.Pickup{Status: models.PickupStatusPending, DriverID: strPtr("d1")},
		DriverName:        strPtr("Kofi"),
		DriverVehicleInfo: strPtr("Truck 7"),
	})
	if withVehicle.Vehicle != "Truck 7" {
		t.Fatalf("expected vehicle from driver profile, got %q", withVehicle.Vehicle)
	}
}
