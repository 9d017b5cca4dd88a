// Package actions holds every mutation a page can trigger. Each operation
// validates its input, performs a single store write (plus best-effort
// notifications) and returns; the caller reloads the page afterwards.
package actions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"wms-backend/internal/auth"
	"wms-backend/internal/models"
	"wms-backend/internal/services"
	"wms-backend/internal/store"
)

// ValidationError is a rejected input. No store call was made.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// ErrForbidden is returned when the caller does not own the record.
var ErrForbidden = errors.New("you are not allowed to modify this record")

const (
	errConfirmationRequired = ValidationError("Confirmation required")
	errNoDriver             = ValidationError("Select a driver first")
)

// Notifier is told about every dispatch.
type Notifier interface {
	PickupAssigned(ctx context.Context, a services.PickupAssigned) error
}

// Inviter emails someone whose profile an administrator just created.
type Inviter interface {
	SendStaffInvite(ctx context.Context, p *models.Profile) error
}

type Actions struct {
	store    store.Store
	notifier Notifier
	inviter  Inviter

	// rng returns a uniform int in [0, n).
	rng func(n int) int
}

// New wires the action layer. notifier and inviter may be nil.
func New(st store.Store, notifier Notifier, inviter Inviter) *Actions {
	return &Actions{
		store:    st,
		notifier: notifier,
		inviter:  inviter,
		rng:      rand.IntN,
	}
}

func required(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError(field + " is required")
	}
	return nil
}

// ── Admin: profiles ──────────────────────────────────────────────────────────

// CreateProfile registers a person ahead of their own sign-up. The profile
// gets a fresh id; signing up later with the same email claims it.
func (a *Actions) CreateProfile(ctx context.Context, req models.CreateProfileRequest) (*models.Profile, error) {
	if err := required(req.Name, "Name"); err != nil {
		return nil, err
	}
	if err := required(req.Email, "Email"); err != nil {
		return nil, err
	}
	if !models.ValidRole(req.Role) {
		return nil, ValidationError(fmt.Sprintf("Unknown role %q", req.Role))
	}

	p := &models.Profile{
		ID:     uuid.New().String(),
		Email:  auth.NormalizeEmail(req.Email),
		Name:   strings.TrimSpace(req.Name),
		Role:   req.Role,
		Status: models.ProfileStatusActive,
	}
	if v := strings.TrimSpace(req.VehicleInfo); v != "" {
		p.VehicleInfo = &v
	}

	if err := a.store.CreateProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	log.Printf("✅ Profile created: %s (%s, %s)", p.Email, p.Role, p.ID)

	if a.inviter != nil {
		if err := a.inviter.SendStaffInvite(ctx, p); err != nil {
			log.Printf("⚠️  Failed to send invite to %s: %v", p.Email, err)
		}
	}
	return p, nil
}

// DeleteStaff removes a profile. The store clears whatever referenced it.
func (a *Actions) DeleteStaff(ctx context.Context, profileID string, confirmed bool) error {
	if !confirmed {
		return errConfirmationRequired
	}
	if err := a.store.DeleteProfile(ctx, profileID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	log.Printf("🗑️  Profile deleted: %s", profileID)
	return nil
}

// ── Admin: bins ──────────────────────────────────────────────────────────────

// parseCoordinate coerces unparsable input to 0.
func parseCoordinate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// CreateBin deploys an empty, unassigned bin.
func (a *Actions) CreateBin(ctx context.Context, req models.CreateBinRequest) (*models.Bin, error) {
	if err := required(req.LocationName, "Location name"); err != nil {
		return nil, err
	}
	if err := required(req.City, "City"); err != nil {
		return nil, err
	}

	b := &models.Bin{
		ID:           uuid.New().String(),
		LocationName: strings.TrimSpace(req.LocationName),
		City:         strings.TrimSpace(req.City),
		Lat:          parseCoordinate(req.Lat),
		Lng:          parseCoordinate(req.Lng),
	}
	if err := a.store.CreateBin(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create bin: %w", err)
	}
	log.Printf("✅ Bin deployed: %s in %s (%s)", b.LocationName, b.City, b.ID)
	return b, nil
}

func (a *Actions) DeleteBin(ctx context.Context, binID string, confirmed bool) error {
	if !confirmed {
		return errConfirmationRequired
	}
	if err := a.store.DeleteBin(ctx, binID); err != nil {
		return fmt.Errorf("failed to delete bin: %w", err)
	}
	log.Printf("🗑️  Bin deleted: %s", binID)
	return nil
}

func (a *Actions) AssignBin(ctx context.Context, binID, ownerID string) error {
	if err := required(binID, "Bin"); err != nil {
		return err
	}
	if err := required(ownerID, "Resident"); err != nil {
		return err
	}
	if err := a.store.SetBinOwner(ctx, binID, &ownerID); err != nil {
		return fmt.Errorf("failed to assign bin: %w", err)
	}
	return nil
}

func (a *Actions) UnassignBin(ctx context.Context, binID string, confirmed bool) error {
	if !confirmed {
		return errConfirmationRequired
	}
	if err := a.store.SetBinOwner(ctx, binID, nil); err != nil {
		return fmt.Errorf("failed to unassign bin: %w", err)
	}
	return nil
}

// SimulateSensors writes a random fill level and the matching weight to
// every bin. Individual failures are logged and skipped; the count of bins
// written is returned.
func (a *Actions) SimulateSensors(ctx context.Context) (int, error) {
	bins, err := a.store.ListBins(ctx, store.BinFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to load bins: %w", err)
	}

	updated := 0
	for _, b := range bins {
		fill := a.rng(100)
		if err := a.store.UpdateBinTelemetry(ctx, b.ID, fill, models.WeightForFill(fill)); err != nil {
			log.Printf("⚠️  Sensor update failed for bin %s: %v", b.ID, err)
			continue
		}
		updated++
	}
	log.Printf("📡 Simulated sensor readings for %d/%d bins", updated, len(bins))
	return updated, nil
}

// ── Admin: dispatch ──────────────────────────────────────────────────────────

// requireDriver checks that the dispatch target is a driver profile.
func (a *Actions) requireDriver(ctx context.Context, driverID string) error {
	if strings.TrimSpace(driverID) == "" {
		return errNoDriver
	}
	p, err := a.store.GetProfile(ctx, driverID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ValidationError("Selected driver no longer exists")
	case err != nil:
		return fmt.Errorf("failed to load driver: %w", err)
	case p.Role != models.RoleDriver:
		return ValidationError("Pickups can only be dispatched to drivers")
	}
	return nil
}

// DispatchFromGrid sends a driver to a bin. When the bin already has an
// active pickup (a resident request or an earlier dispatch) that pickup is
// reassigned; otherwise a new one is created.
func (a *Actions) DispatchFromGrid(ctx context.Context, binID, driverID string) (*models.PickupDetail, error) {
	if err := a.requireDriver(ctx, driverID); err != nil {
		return nil, err
	}

	pickupID := ""
	active, err := a.store.ActivePickupForBin(ctx, binID)
	switch {
	case err == nil:
		pickupID = active.ID
		if err := a.store.AssignDriver(ctx, pickupID, driverID); err != nil {
			return nil, fmt.Errorf("failed to dispatch driver: %w", err)
		}
	case errors.Is(err, store.ErrNotFound):
		p := &models.Pickup{
			ID:       uuid.New().String(),
			BinID:    binID,
			DriverID: &driverID,
			Status:   models.PickupStatusPending,
		}
		if err := a.store.CreatePickup(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to dispatch driver: %w", err)
		}
		pickupID = p.ID
	default:
		return nil, fmt.Errorf("failed to check active pickup: %w", err)
	}

	return a.afterDispatch(ctx, pickupID), nil
}

// DispatchFromOps assigns a driver to a request that is still awaiting
// dispatch. Closed or already dispatched pickups are refused.
func (a *Actions) DispatchFromOps(ctx context.Context, pickupID, driverID string) (*models.PickupDetail, error) {
	if err := a.requireDriver(ctx, driverID); err != nil {
		return nil, err
	}
	p, err := a.store.GetPickup(ctx, pickupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pickup: %w", err)
	}
	if !p.AwaitingDispatch() {
		return nil, ValidationError("This pickup is no longer awaiting dispatch")
	}
	if err := a.store.AssignDriver(ctx, pickupID, driverID); err != nil {
		return nil, fmt.Errorf("failed to dispatch driver: %w", err)
	}
	return a.afterDispatch(ctx, pickupID), nil
}

// afterDispatch re-reads the pickup and notifies its driver. Both steps are
// best-effort: the dispatch itself already succeeded.
func (a *Actions) afterDispatch(ctx context.Context, pickupID string) *models.PickupDetail {
	p, err := a.store.GetPickup(ctx, pickupID)
	if err != nil {
		log.Printf("⚠️  Dispatched pickup %s but could not reload it: %v", pickupID, err)
		return nil
	}
	if !p.HasDriver() {
		return p
	}
	log.Printf("🚚 Pickup %s at %s dispatched to driver %s", p.ID, p.BinLocationName, *p.DriverID)

	if a.notifier != nil {
		n := services.PickupAssigned{
			PickupID:     p.ID,
			BinID:        p.BinID,
			DriverID:     *p.DriverID,
			LocationName: p.BinLocationName,
			City:         p.BinCity,
			FillLevel:    p.BinFillLevel,
			Critical:     p.BinFillLevel >= models.CriticalFillLevel,
		}
		if err := a.notifier.PickupAssigned(ctx, n); err != nil {
			log.Printf("⚠️  Failed to notify driver %s: %v", n.DriverID, err)
		}
	}
	return p
}

// ResolveIssue clears a driver's issue report. The status is left as is.
func (a *Actions) ResolveIssue(ctx context.Context, pickupID string, confirmed bool) error {
	if !confirmed {
		return errConfirmationRequired
	}
	if err := a.store.ClearIssue(ctx, pickupID); err != nil {
		return fmt.Errorf("failed to resolve issue: %w", err)
	}
	return nil
}

// ── Resident ─────────────────────────────────────────────────────────────────

// RequestPickup opens an undispatched pickup for one of the resident's bins.
func (a *Actions) RequestPickup(ctx context.Context, residentID, binID string, confirmed bool) (*models.Pickup, error) {
	if !confirmed {
		return nil, errConfirmationRequired
	}

	bin, err := a.store.GetBin(ctx, binID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bin: %w", err)
	}
	if bin.OwnerID == nil || *bin.OwnerID != residentID {
		return nil, ErrForbidden
	}

	if _, err := a.store.ActivePickupForBin(ctx, binID); err == nil {
		return nil, fmt.Errorf("a pickup is already active for this bin: %w", store.ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check active pickup: %w", err)
	}

	p := &models.Pickup{
		ID:     uuid.New().String(),
		BinID:  binID,
		Status: models.PickupStatusPending,
	}
	if err := a.store.CreatePickup(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to request pickup: %w", err)
	}
	log.Printf("📥 Pickup requested for bin %s by resident %s", binID, residentID)
	return p, nil
}

// ── Driver ───────────────────────────────────────────────────────────────────

func (a *Actions) ownJob(ctx context.Context, driverID, pickupID string) error {
	p, err := a.store.GetPickup(ctx, pickupID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}
	if !p.HasDriver() || *p.DriverID != driverID {
		return ErrForbidden
	}
	return nil
}

func (a *Actions) CompleteJob(ctx context.Context, driverID, pickupID string, confirmed bool) error {
	if !confirmed {
		return errConfirmationRequired
	}
	if err := a.ownJob(ctx, driverID, pickupID); err != nil {
		return err
	}
	if err := a.store.CompletePickup(ctx, pickupID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	log.Printf("✅ Job %s completed by driver %s", pickupID, driverID)
	return nil
}

// ReportIssue closes the job with the driver's explanation in one write.
func (a *Actions) ReportIssue(ctx context.Context, driverID, pickupID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ValidationError("Describe the issue before submitting")
	}
	if err := a.ownJob(ctx, driverID, pickupID); err != nil {
		return err
	}
	if err := a.store.ReportIssue(ctx, pickupID, reason); err != nil {
		return fmt.Errorf("failed to report issue: %w", err)
	}
	log.Printf("⚠️  Issue reported on job %s by driver %s", pickupID, driverID)
	return nil
}

// RegisterDeviceToken stores a driver device's push token.
func (a *Actions) RegisterDeviceToken(ctx context.Context, driverID string, req models.RegisterDeviceTokenRequest) (*models.DeviceToken, error) {
	if err := required(req.Token, "Token"); err != nil {
		return nil, err
	}
	if req.DeviceType != "ios" && req.DeviceType != "android" {
		return nil, ValidationError("device_type must be 'ios' or 'android'")
	}

	t := &models.DeviceToken{
		ProfileID:  driverID,
		Token:      strings.TrimSpace(req.Token),
		DeviceType: req.DeviceType,
	}
	if err := a.store.SaveDeviceToken(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save device token: %w", err)
	}
	log.Printf("📱 Device token registered for driver %s (%s)", driverID, req.DeviceType)
	return t, nil
}
