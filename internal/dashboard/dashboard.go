// Package dashboard fetches everything one page needs from the store in a
// single pass. Nothing is cached: every call reads the current rows, so a
// reload after a mutation or a change event always sees fresh data.
package dashboard

import (
	"context"
	"fmt"
	"sort"

	"wms-backend/internal/models"
	"wms-backend/internal/store"
)

const (
	StatusAll      = "all"
	StatusCritical = "critical"
	CityAll        = "all"
)

type Loader struct {
	store store.Store
}

func NewLoader(st store.Store) *Loader {
	return &Loader{store: st}
}

// AdminFilter holds the admin grid's filter controls. An empty or "all" city
// disables the city filter; Status is applied by the renderer.
type AdminFilter struct {
	City   string `json:"city"`
	Status string `json:"status"`
}

func (f AdminFilter) cityFilter() string {
	if f.City == CityAll {
		return ""
	}
	return f.City
}

type AdminData struct {
	Filter  AdminFilter
	Bins    []models.BinWithOwner
	Drivers []models.Profile
	// Pickups holds every pending pickup plus every pickup carrying an issue
	// report, newest first.
	Pickups []models.PickupDetail
	Cities  []string
}

func (l *Loader) LoadAdmin(ctx context.Context, f AdminFilter) (*AdminData, error) {
	if f.Status == "" {
		f.Status = StatusAll
	}

	bins, err := l.store.ListBins(ctx, store.BinFilter{City: f.cityFilter()})
	if err != nil {
		return nil, fmt.Errorf("failed to load bins: %w", err)
	}
	drivers, err := l.store.ListProfiles(ctx, models.RoleDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to load drivers: %w", err)
	}
	pickups, err := l.store.ListPickups(ctx, store.PickupFilter{OpenOrIssue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load pickups: %w", err)
	}
	cities, err := l.store.ListCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}

	return &AdminData{
		Filter:  f,
		Bins:    bins,
		Drivers: drivers,
		Pickups: pickups,
		Cities:  cities,
	}, nil
}

type DriverData struct {
	// Jobs are the driver's non-completed pickups, most recently scheduled first.
	Jobs []models.PickupDetail
}

func (l *Loader) LoadDriver(ctx context.Context, driverID string) (*DriverData, error) {
	jobs, err := l.store.ListPickups(ctx, store.PickupFilter{
		DriverID:             driverID,
		Active:               true,
		NewestScheduledFirst: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	return &DriverData{Jobs: jobs}, nil
}

// ResidentBin is one of the resident's bins with its active pickup, if any.
type ResidentBin struct {
	Bin    models.BinWithOwner
	Active *models.PickupDetail
}

type ResidentData struct {
	Bins []ResidentBin
}

func (l *Loader) LoadResident(ctx context.Context, ownerID string) (*ResidentData, error) {
	bins, err := l.store.ListBins(ctx, store.BinFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to load bins: %w", err)
	}
	pickups, err := l.store.ListPickups(ctx, store.PickupFilter{Active: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load pickups: %w", err)
	}

	byBin := make(map[string]*models.PickupDetail, len(pickups))
	for i := range pickups {
		byBin[pickups[i].BinID] = &pickups[i]
	}

	sort.Slice(bins, func(i, j int) bool { return bins[i].ID < bins[j].ID })

	out := make([]ResidentBin, len(bins))
	for i, b := range bins {
		out[i] = ResidentBin{Bin: b, Active: byBin[b.ID]}
	}
	return &ResidentData{Bins: out}, nil
}

type OperationsData struct {
	// Requests are pending pickups nobody has been dispatched to.
	Requests []models.PickupDetail
	// Issues are pickups a driver closed with an issue report.
	Issues  []models.PickupDetail
	Drivers []models.Profile
}

func (l *Loader) LoadOperations(ctx context.Context) (*OperationsData, error) {
	pickups, err := l.store.ListPickups(ctx, store.PickupFilter{OpenOrIssue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load pickups: %w", err)
	}
	drivers, err := l.store.ListProfiles(ctx, models.RoleDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to load drivers: %w", err)
	}

	data := &OperationsData{
		Requests: []models.PickupDetail{},
		Issues:   []models.PickupDetail{},
		Drivers:  drivers,
	}
	for _, p := range pickups {
		if p.AwaitingDispatch() {
			data.Requests = append(data.Requests, p)
		}
		if p.HasIssue() {
			data.Issues = append(data.Issues, p)
		}
	}
	return data, nil
}

type StaffData struct {
	Drivers []models.Profile
}

func (l *Loader) LoadStaff(ctx context.Context) (*StaffData, error) {
	drivers, err := l.store.ListProfiles(ctx, models.RoleDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to load drivers: %w", err)
	}
	return &StaffData{Drivers: drivers}, nil
}

type ResidentAssignment struct {
	Resident models.Profile        `json:"resident"`
	Bins     []models.BinWithOwner `json:"bins"`
}

type AssignmentsData struct {
	Residents  []ResidentAssignment
	Unassigned []models.BinWithOwner
}

func (l *Loader) LoadAssignments(ctx context.Context) (*AssignmentsData, error) {
	residents, err := l.store.ListProfiles(ctx, models.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to load residents: %w", err)
	}
	bins, err := l.store.ListBins(ctx, store.BinFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load bins: %w", err)
	}
	unassigned, err := l.store.ListBins(ctx, store.BinFilter{Unassigned: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load unassigned bins: %w", err)
	}

	byOwner := make(map[string][]models.BinWithOwner)
	for _, b := range bins {
		if b.Assigned() {
			byOwner[*b.OwnerID] = append(byOwner[*b.OwnerID], b)
		}
	}

	out := make([]ResidentAssignment, len(residents))
	for i, r := range residents {
		out[i] = ResidentAssignment{Resident: r, Bins: byOwner[r.ID]}
	}
	return &AssignmentsData{Residents: out, Unassigned: unassigned}, nil
}
