package render

import (
	"bytes"
	"strings"
	"testing"

	"wms-backend/internal/dashboard"
	"wms-backend/internal/models"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	return r
}

func TestPageAdminEmptyState(t *testing.T) {
	r := newRenderer(t)
	view := BuildAdmin(&dashboard.AdminData{Filter: dashboard.AdminFilter{City: "all", Status: "all"}})

	var buf bytes.Buffer
	err := r.Page(&buf, PageAdmin, PageData{
		Title:   "Dashboard",
		Active:  PageAdmin,
		Profile: &models.Profile{ID: "a1", Name: "Ama Mensah", Role: models.RoleAdmin},
		Flash:   Flash{Notice: "Bin deployed"},
		View:    view,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	html := buf.String()
	for _, want := range []string{"No bins found matching criteria.", "Hello, <span class=\"font-bold text-slate-700\">Ama</span>", "Bin deployed", `data-page="admin"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
}

func TestLiveDriverEmptyState(t *testing.T) {
	r := newRenderer(t)
	html, err := r.Live(PageDriver, PageData{View: BuildDriver(&dashboard.DriverData{})})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(html, "All clear. No active assignments.") {
		t.Fatalf("expected empty state, got %q", html)
	}
	if strings.Contains(html, "<html") {
		t.Fatalf("expected only the live region")
	}
}

func TestLiveDriverJob(t *testing.T) {
	r := newRenderer(t)
	view := BuildDriver(&dashboard.DriverData{Jobs: []models.PickupDetail{{
		Pickup:          models.Pickup{ID: "p1", BinID: "b1", Status: models.PickupStatusPending},
		BinLocationName: "Market Square",
		BinCity:         "Tema",
		BinFillLevel:    90,
		BinWeight:       40.5,
	}}})

	html, err := r.Live(PageDriver, PageData{View: view})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{"Market Square", "Critical Fill", "GPS Coordinates missing", "/driver/jobs/p1/complete", "40.50 kg"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected live region to contain %q", want)
		}
	}
}

func TestLiveResidentPendingRequest(t *testing.T) {
	r := newRenderer(t)
	view := BuildResident(&dashboard.ResidentData{Bins: []dashboard.ResidentBin{{
		Bin:    models.BinWithOwner{Bin: models.Bin{ID: "b1", LocationName: "Home", FillLevel: 40}},
		Active: &models.PickupDetail{Pickup: models.Pickup{ID: "p1", BinID: "b1", Status: models.PickupStatusPending}},
	}}})

	html, err := r.Live(PageResident, PageData{View: view})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(html, "Request Sent") || !strings.Contains(html, "disabled") {
		t.Fatalf("expected disabled request button, got %q", html)
	}
	if strings.Contains(html, "/resident/bins/b1/request") {
		t.Fatalf("expected no request form while a pickup is active")
	}
}

func TestLiveErrors(t *testing.T) {
	r := newRenderer(t)
	if _, err := r.Live(PageLogin, PageData{View: LoginView{}}); err == nil {
		t.Fatalf("expected error for page without live region")
	}
	if _, err := r.Live("missing", PageData{}); err == nil {
		t.Fatalf("expected error for unknown page")
	}
}
