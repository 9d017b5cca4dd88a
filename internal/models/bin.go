package models

import "math"

type Bin struct {
	ID           string  `json:"id" db:"id"`
	LocationName string  `json:"location_name" db:"location_name"`
	City         string  `json:"city" db:"city"`
	Lat          float64 `json:"lat" db:"lat"`
	Lng          float64 `json:"lng" db:"lng"`
	FillLevel    int     `json:"fill_level" db:"fill_level"` // 0-100
	Weight       float64 `json:"weight" db:"weight"`         // kg
	OwnerID      *string `json:"owner_id,omitempty" db:"owner_id"`
	CreatedAt    int64   `json:"created_at" db:"created_at"` // Unix timestamp
}

// BinWithOwner is a bin joined with its owner's display name.
type BinWithOwner struct {
	Bin
	OwnerName *string `json:"owner_name,omitempty" db:"owner_name"`
}

// CreateBinRequest is the body of POST /admin/bins. Coordinates arrive as
// raw strings so unparsable input can be coerced to 0 instead of rejected.
type CreateBinRequest struct {
	LocationName string `json:"location_name"`
	City         string `json:"city"`
	Lat          string `json:"lat"`
	Lng          string `json:"lng"`
}

func (b *Bin) Assigned() bool {
	return b.OwnerID != nil && *b.OwnerID != ""
}

// CriticalFillLevel is the fill level from which a bin needs urgent collection.
const CriticalFillLevel = 80

// KgPerFillPercent converts a fill level into an estimated weight.
const KgPerFillPercent = 0.45

// WeightForFill is the estimated weight for a fill level, rounded to two
// decimals.
func WeightForFill(fill int) float64 {
	return math.Round(float64(fill)*KgPerFillPercent*100) / 100
}
