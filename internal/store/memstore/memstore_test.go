package memstore

import (
	"context"
	"errors"
	"testing"

	"wms-backend/internal/models"
	"wms-backend/internal/realtime"
	"wms-backend/internal/store"
)

type recorder struct {
	events []realtime.Event
}

func (r *recorder) Publish(ev realtime.Event) { r.events = append(r.events, ev) }

func strPtr(s string) *string { return &s }

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	profiles := []models.Profile{
		{ID: "u1", Email: "res@example.com", Name: "Ama Resident", Role: models.RoleUser},
		{ID: "d1", Email: "drv@example.com", Name: "Kofi Driver", Role: models.RoleDriver},
	}
	for i := range profiles {
		if err := s.CreateProfile(ctx, &profiles[i]); err != nil {
			t.Fatalf("create profile: %v", err)
		}
	}
	if err := s.CreateBin(ctx, &models.Bin{ID: "b1", LocationName: "Osu", City: "Accra", FillLevel: 40, OwnerID: strPtr("u1")}); err != nil {
		t.Fatalf("create bin: %v", err)
	}
}

func TestSecondPendingPickupConflicts(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	seed(t, s)

	if err := s.CreatePickup(ctx, &models.Pickup{ID: "p1", BinID: "b1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := s.CreatePickup(ctx, &models.Pickup{ID: "p2", BinID: "b1"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if err := s.CompletePickup(ctx, "p1"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := s.CreatePickup(ctx, &models.Pickup{ID: "p3", BinID: "b1"}); err != nil {
		t.Fatalf("expected new pickup after completion, got %v", err)
	}

	// Re-dispatching the completed pickup would make two pending pickups.
	if err := s.AssignDriver(ctx, "p1", "d1"); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict reopening p1, got %v", err)
	}
}

func TestDuplicateEmailConflicts(t *testing.T) {
	s := New(nil)
	seed(t, s)

	err := s.CreateProfile(context.Background(), &models.Profile{ID: "x", Email: "res@example.com", Name: "Dup", Role: models.RoleUser})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDeleteBinCascadesPickups(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	seed(t, s)

	if err := s.CreatePickup(ctx, &models.Pickup{ID: "p1", BinID: "b1"}); err != nil {
		t.Fatalf("create pickup: %v", err)
	}
	if err := s.DeleteBin(ctx, "b1"); err != nil {
		t.Fatalf("delete bin: %v", err)
	}
	if _, err := s.GetPickup(ctx, "p1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected pickup to be gone, got %v", err)
	}
	if err := s.DeleteBin(ctx, "b1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteProfileClearsReferences(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	seed(t, s)

	if err := s.CreatePickup(ctx, &models.Pickup{ID: "p1", BinID: "b1", DriverID: strPtr("d1")}); err != nil {
		t.Fatalf("create pickup: %v", err)
	}
	if err := s.DeleteProfile(ctx, "d1"); err != nil {
		t.Fatalf("delete driver: %v", err)
	}
	if err := s.DeleteProfile(ctx, "u1"); err != nil {
		t.Fatalf("delete resident: %v", err)
	}

	p, err := s.GetPickup(ctx, "p1")
	if err != nil {
		t.Fatalf("get pickup: %v", err)
	}
	if p.DriverID != nil || p.DriverName != nil {
		t.Fatalf("expected driver cleared, got %+v", p)
	}
	b, err := s.GetBin(ctx, "b1")
	if err != nil {
		t.Fatalf("get bin: %v", err)
	}
	if b.OwnerID != nil || b.OwnerName != nil {
		t.Fatalf("expected owner cleared, got %+v", b)
	}
}

func TestListPickupsFilters(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	seed(t, s)
	if err := s.CreateBin(ctx, &models.Bin{ID: "b2", LocationName: "Labone", City: "Accra"}); err != nil {
		t.Fatalf("create bin: %v", err)
	}

	if err := s.CreatePickup(ctx, &models.Pickup{ID: "p1", BinID: "b1", DriverID: strPtr("d1")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreatePickup(ctx, &models.Pickup{ID: "p2", BinID: "b2", DriverID: strPtr("d1")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.ReportIssue(ctx, "p2", "Blocked gate"); err != nil {
		t.Fatalf("report: %v", err)
	}

	active, _ := s.ListPickups(ctx, store.PickupFilter{DriverID: "d1", Active: true})
	if len(active) != 1 || active[0].ID != "p1" {
		t.Fatalf("expected only p1 active, got %+v", active)
	}

	open, _ := s.ListPickups(ctx, store.PickupFilter{OpenOrIssue: true})
	if len(open) != 2 {
		t.Fatalf("expected pending + issue pickups, got %d", len(open))
	}
	if open[0].ID != "p2" {
		t.Fatalf("expected newest first, got %s", open[0].ID)
	}
	if open[1].BinLocationName != "Osu" || open[1].DriverName == nil || *open[1].DriverName != "Kofi Driver" {
		t.Fatalf("expected joined bin and driver, got %+v", open[1])
	}
}

func TestWritesPublishEvents(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	s := New(rec)
	seed(t, s)
	rec.events = nil

	if err := s.UpdateBinTelemetry(ctx, "b1", 90, 40.5); err != nil {
		t.Fatalf("telemetry: %v", err)
	}
	if err := s.CreatePickup(ctx, &models.Pickup{ID: "p1", BinID: "b1"}); err != nil {
		t.Fatalf("create pickup: %v", err)
	}

	want := []realtime.Event{
		{Table: realtime.TableBins, Op: "UPDATE"},
		{Table: realtime.TablePickups, Op: "INSERT"},
	}
	if len(rec.events) != len(want) {
		t.Fatalf("expected %d events, got %+v", len(want), rec.events)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Fatalf("event %d: expected %+v, got %+v", i, want[i], rec.events[i])
		}
	}

	// Failed writes publish nothing.
	rec.events = nil
	_ = s.UpdateBinTelemetry(ctx, "missing", 10, 4.5)
	if len(rec.events) != 0 {
		t.Fatalf("expected no events after failed write, got %+v", rec.events)
	}
}
