package models

const (
	PickupStatusPending   = "pending"
	PickupStatusCompleted = "completed"
)

// Pickup is a collection job for one bin. A pending pickup with no driver is a
// resident request awaiting dispatch; setting DriverID dispatches it. At most
// one pending pickup exists per bin.
type Pickup struct {
	ID          string  `json:"id" db:"id"`
	BinID       string  `json:"bin_id" db:"bin_id"`
	DriverID    *string `json:"driver_id,omitempty" db:"driver_id"`
	Status      string  `json:"status" db:"status"`
	IssueReport *string `json:"issue_report,omitempty" db:"issue_report"`
	CreatedAt   int64   `json:"created_at" db:"created_at"`
	ScheduledAt int64   `json:"scheduled_at" db:"scheduled_at"`
	CompletedAt *int64  `json:"completed_at,omitempty" db:"completed_at"`
}

// PickupDetail is a pickup joined with its bin and (optional) driver.
type PickupDetail struct {
	Pickup
	BinLocationName   string  `json:"bin_location_name" db:"bin_location_name"`
	BinCity           string  `json:"bin_city" db:"bin_city"`
	BinLat            float64 `json:"bin_lat" db:"bin_lat"`
	BinLng            float64 `json:"bin_lng" db:"bin_lng"`
	BinFillLevel      int     `json:"bin_fill_level" db:"bin_fill_level"`
	BinWeight         float64 `json:"bin_weight" db:"bin_weight"`
	BinOwnerID        *string `json:"bin_owner_id,omitempty" db:"bin_owner_id"`
	DriverName        *string `json:"driver_name,omitempty" db:"driver_name"`
	DriverVehicleInfo *string `json:"driver_vehicle_info,omitempty" db:"driver_vehicle_info"`
}

func (p *Pickup) Pending() bool { return p.Status == PickupStatusPending }

func (p *Pickup) HasDriver() bool { return p.DriverID != nil && *p.DriverID != "" }

func (p *Pickup) HasIssue() bool { return p.IssueReport != nil && *p.IssueReport != "" }

// AwaitingDispatch reports whether the pickup is an unclaimed resident request.
func (p *Pickup) AwaitingDispatch() bool { return p.Pending() && !p.HasDriver() }

