// Package store defines the row-store contract the rest of the server talks
// to: row-level reads and writes over profiles, credentials, bins, pickups
// and device tokens. The store is the only source of truth; callers never
// cache what it returns.
package store

import (
	"context"
	"errors"

	"wms-backend/internal/models"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write violates a uniqueness constraint,
	// e.g. a duplicate email or a second pending pickup for one bin.
	ErrConflict = errors.New("record conflicts with an existing one")
)

// BinFilter narrows ListBins. Zero values mean "no filter".
type BinFilter struct {
	City       string
	OwnerID    string
	Unassigned bool
}

// PickupFilter narrows ListPickups. Zero values mean "no filter".
type PickupFilter struct {
	DriverID string

	// Active keeps only pickups whose status is not completed.
	Active bool

	// OpenOrIssue keeps pickups that are pending or carry an issue report.
	OpenOrIssue bool

	// NewestScheduledFirst orders by scheduled_at descending instead of the
	// default created_at descending.
	NewestScheduledFirst bool
}

type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	// ListProfiles returns profiles with the given role ordered by name.
	ListProfiles(ctx context.Context, role string) ([]models.Profile, error)
	CreateProfile(ctx context.Context, p *models.Profile) error
	DeleteProfile(ctx context.Context, id string) error

	GetCredentials(ctx context.Context, email string) (*models.Credentials, error)
	CreateCredentials(ctx context.Context, c *models.Credentials) error
}

type BinStore interface {
	// ListBins returns bins joined with their owner's name in creation order.
	ListBins(ctx context.Context, f BinFilter) ([]models.BinWithOwner, error)
	GetBin(ctx context.Context, id string) (*models.BinWithOwner, error)
	ListCities(ctx context.Context) ([]string, error)
	CreateBin(ctx context.Context, b *models.Bin) error
	DeleteBin(ctx context.Context, id string) error
	// SetBinOwner assigns the bin to ownerID, or clears the owner when nil.
	SetBinOwner(ctx context.Context, binID string, ownerID *string) error
	// UpdateBinTelemetry overwrites fill level and weight wholesale.
	UpdateBinTelemetry(ctx context.Context, binID string, fillLevel int, weight float64) error
}

type PickupStore interface {
	ListPickups(ctx context.Context, f PickupFilter) ([]models.PickupDetail, error)
	GetPickup(ctx context.Context, id string) (*models.PickupDetail, error)
	// ActivePickupForBin returns the bin's pending pickup or ErrNotFound.
	ActivePickupForBin(ctx context.Context, binID string) (*models.Pickup, error)
	CreatePickup(ctx context.Context, p *models.Pickup) error
	// AssignDriver sets the driver and resets the status to pending.
	AssignDriver(ctx context.Context, pickupID, driverID string) error
	CompletePickup(ctx context.Context, pickupID string) error
	// ReportIssue stores the report and marks the pickup completed in one write.
	ReportIssue(ctx context.Context, pickupID, report string) error
	// ClearIssue removes the issue report and leaves the status untouched.
	ClearIssue(ctx context.Context, pickupID string) error
}

type DeviceTokenStore interface {
	SaveDeviceToken(ctx context.Context, t *models.DeviceToken) error
	ListDeviceTokens(ctx context.Context, profileID string) ([]models.DeviceToken, error)
}

// Store is the full row-store contract.
type Store interface {
	ProfileStore
	BinStore
	PickupStore
	DeviceTokenStore
}
