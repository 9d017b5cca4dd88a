package dashboard

import (
	"context"
	"testing"

	"wms-backend/internal/models"
	"wms-backend/internal/store/memstore"
)

func strPtr(s string) *string { return &s }

// fixture: two residents, two drivers, four bins across two cities.
//
//	b1 Accra  owner r1  request (no driver)
//	b2 Accra  owner r1  dispatched to d1
//	b3 Kumasi owner r2  issue reported by d2
//	b4 Kumasi unassigned
func fixture(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	st := memstore.New(nil)

	profiles := []models.Profile{
		{ID: "r1", Email: "r1@x", Name: "Ama", Role: models.RoleUser},
		{ID: "r2", Email: "r2@x", Name: "Yaw", Role: models.RoleUser},
		{ID: "d1", Email: "d1@x", Name: "Kofi", Role: models.RoleDriver, VehicleInfo: strPtr("Truck 7")},
		{ID: "d2", Email: "d2@x", Name: "Esi", Role: models.RoleDriver},
	}
	for i := range profiles {
		if err := st.CreateProfile(ctx, &profiles[i]); err != nil {
			t.Fatalf("profile: %v", err)
		}
	}
	bins := []models.Bin{
		{ID: "b1", LocationName: "Osu", City: "Accra", FillLevel: 85, OwnerID: strPtr("r1")},
		{ID: "b2", LocationName: "Labone", City: "Accra", FillLevel: 30, OwnerID: strPtr("r1")},
		{ID: "b3", LocationName: "Adum", City: "Kumasi", FillLevel: 60, OwnerID: strPtr("r2")},
		{ID: "b4", LocationName: "Kejetia", City: "Kumasi", FillLevel: 10},
	}
	for i := range bins {
		if err := st.CreateBin(ctx, &bins[i]); err != nil {
			t.Fatalf("bin: %v", err)
		}
	}
	pickups := []models.Pickup{
		{ID: "p1", BinID: "b1"},
		{ID: "p2", BinID: "b2", DriverID: strPtr("d1")},
		{ID: "p3", BinID: "b3", DriverID: strPtr("d2")},
	}
	for i := range pickups {
		if err := st.CreatePickup(ctx, &pickups[i]); err != nil {
			t.Fatalf("pickup: %v", err)
		}
	}
	if err := st.ReportIssue(ctx, "p3", "Gate locked"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	return st
}

func TestLoadAdminCityFilter(t *testing.T) {
	l := NewLoader(fixture(t))
	ctx := context.Background()

	all, err := l.LoadAdmin(ctx, AdminFilter{City: CityAll})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all.Bins) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(all.Bins))
	}
	if all.Filter.Status != StatusAll {
		t.Fatalf("expected default status filter %q, got %q", StatusAll, all.Filter.Status)
	}
	if len(all.Pickups) != 3 {
		t.Fatalf("expected 3 open-or-issue pickups, got %d", len(all.Pickups))
	}
	if len(all.Drivers) != 2 || all.Drivers[0].Name != "Esi" {
		t.Fatalf("expected drivers ordered by name, got %+v", all.Drivers)
	}
	if len(all.Cities) != 2 || all.Cities[0] != "Accra" {
		t.Fatalf("unexpected cities %v", all.Cities)
	}

	accra, err := l.LoadAdmin(ctx, AdminFilter{City: "Accra"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accra.Bins) != 2 {
		t.Fatalf("expected 2 Accra bins, got %d", len(accra.Bins))
	}
	if accra.Bins[0].OwnerName == nil || *accra.Bins[0].OwnerName != "Ama" {
		t.Fatalf("expected owner name joined, got %+v", accra.Bins[0])
	}
}

func TestLoadDriverOnlyOwnActiveJobs(t *testing.T) {
	l := NewLoader(fixture(t))

	d1, err := l.LoadDriver(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d1.Jobs) != 1 || d1.Jobs[0].ID != "p2" {
		t.Fatalf("expected only p2, got %+v", d1.Jobs)
	}
	if d1.Jobs[0].BinLocationName != "Labone" {
		t.Fatalf("expected bin data joined, got %+v", d1.Jobs[0])
	}

	// d2's only job was closed with an issue.
	d2, _ := l.LoadDriver(context.Background(), "d2")
	if len(d2.Jobs) != 0 {
		t.Fatalf("expected no jobs for d2, got %d", len(d2.Jobs))
	}
}

func TestLoadResidentJoinsActivePickup(t *testing.T) {
	l := NewLoader(fixture(t))

	data, err := l.LoadResident(context.Background(), "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Bins) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(data.Bins))
	}
	b1, b2 := data.Bins[0], data.Bins[1]
	if b1.Bin.ID != "b1" || b1.Active == nil || b1.Active.HasDriver() {
		t.Fatalf("expected b1 with undispatched request, got %+v", b1)
	}
	if b2.Active == nil || b2.Active.DriverName == nil || *b2.Active.DriverName != "Kofi" {
		t.Fatalf("expected b2 dispatched to Kofi, got %+v", b2.Active)
	}

	other, _ := l.LoadResident(context.Background(), "r2")
	if len(other.Bins) != 1 || other.Bins[0].Active != nil {
		t.Fatalf("expected b3 without active pickup, got %+v", other.Bins)
	}
}

func TestLoadOperationsSplitsRequestsAndIssues(t *testing.T) {
	l := NewLoader(fixture(t))

	ops, err := l.LoadOperations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops.Requests) != 1 || ops.Requests[0].ID != "p1" {
		t.Fatalf("expected request p1, got %+v", ops.Requests)
	}
	if len(ops.Issues) != 1 || ops.Issues[0].ID != "p3" {
		t.Fatalf("expected issue p3, got %+v", ops.Issues)
	}
	if len(ops.Drivers) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(ops.Drivers))
	}
}

func TestLoadOperationsListsIssueOnUnclaimedRequest(t *testing.T) {
	st := fixture(t)
	ctx := context.Background()
	report := "Blocked"
	if err := st.CreatePickup(ctx, &models.Pickup{ID: "p4", BinID: "b4", IssueReport: &report}); err != nil {
		t.Fatalf("pickup: %v", err)
	}

	ops, err := NewLoader(st).LoadOperations(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inRequests, inIssues := false, false
	for _, p := range ops.Requests {
		inRequests = inRequests || p.ID == "p4"
	}
	for _, p := range ops.Issues {
		inIssues = inIssues || p.ID == "p4"
	}
	if !inRequests || !inIssues {
		t.Fatalf("expected p4 under both requests and issues, got requests=%v issues=%v", inRequests, inIssues)
	}
}

func TestLoadAssignments(t *testing.T) {
	l := NewLoader(fixture(t))

	data, err := l.LoadAssignments(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Residents) != 2 || data.Residents[0].Resident.ID != "r1" {
		t.Fatalf("unexpected residents %+v", data.Residents)
	}
	if len(data.Residents[0].Bins) != 2 || len(data.Residents[1].Bins) != 1 {
		t.Fatalf("unexpected bin split %+v", data.Residents)
	}
	if len(data.Unassigned) != 1 || data.Unassigned[0].ID != "b4" {
		t.Fatalf("expected b4 unassigned, got %+v", data.Unassigned)
	}

	staff, _ := l.LoadStaff(context.Background())
	if len(staff.Drivers) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(staff.Drivers))
	}
}
