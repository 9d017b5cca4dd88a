package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"wms-backend/internal/auth"
	"wms-backend/internal/models"
	"wms-backend/internal/store"
)

type demoAccount struct {
	email, password, name, role string
	vehicle                     string
}

var demoAccounts = []demoAccount{
	{email: "admin@wms.local", password: "admin123", name: "Admin User", role: models.RoleAdmin},
	{email: "driver@wms.local", password: "driver123", name: "John Driver", role: models.RoleDriver, vehicle: "Truck GR-2041-22"},
	{email: "driver2@wms.local", password: "driver123", name: "Kwame Asante", role: models.RoleDriver, vehicle: "Compactor GT-118-23"},
	{email: "resident@wms.local", password: "resident123", name: "Ama Resident", role: models.RoleUser},
}

var demoBins = []models.Bin{
	{LocationName: "Osu Oxford Street", City: "Accra", Lat: 5.5560, Lng: -0.1823, FillLevel: 45},
	{LocationName: "Makola Market", City: "Accra", Lat: 5.5486, Lng: -0.2117, FillLevel: 89},
	{LocationName: "Labone Junction", City: "Accra", Lat: 5.5652, Lng: -0.1705, FillLevel: 23},
	{LocationName: "Kejetia Terminal", City: "Kumasi", Lat: 6.6966, Lng: -1.6216, FillLevel: 67},
	{LocationName: "Adum High Street", City: "Kumasi", Lat: 6.6930, Lng: -1.6244, FillLevel: 91},
	{LocationName: "Harbour Road Depot", City: "Tema", Lat: 0, Lng: 0, FillLevel: 12},
}

// SeedDemoData inserts demo accounts and bins when the store has no bins yet.
// The first two bins go to the demo resident.
func SeedDemoData(ctx context.Context, st store.Store) error {
	existing, err := st.ListBins(ctx, store.BinFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Println("✓ Demo data already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo accounts...")
	var residentID string
	for _, a := range demoAccounts {
		p := &models.Profile{
			ID:     uuid.New().String(),
			Email:  a.email,
			Name:   a.name,
			Role:   a.role,
			Status: models.ProfileStatusActive,
		}
		if a.vehicle != "" {
			v := a.vehicle
			p.VehicleInfo = &v
		}
		if err := st.CreateProfile(ctx, p); err != nil {
			if errors.Is(err, store.ErrConflict) {
				log.Printf("  ⚠️  %s already exists, skipping", a.email)
				continue
			}
			return fmt.Errorf("seed profile %s: %w", a.email, err)
		}

		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return err
		}
		if err := st.CreateCredentials(ctx, &models.Credentials{ProfileID: p.ID, Email: a.email, Password: hash}); err != nil {
			return fmt.Errorf("seed credentials %s: %w", a.email, err)
		}
		if a.role == models.RoleUser {
			residentID = p.ID
		}
		log.Printf("  ✓ Created %s: %s / %s", a.role, a.email, a.password)
	}

	log.Printf("🌱 Seeding %d bins...", len(demoBins))
	for i, b := range demoBins {
		b.ID = uuid.New().String()
		b.Weight = models.WeightForFill(b.FillLevel)
		if i < 2 && residentID != "" {
			owner := residentID
			b.OwnerID = &owner
		}
		if err := st.CreateBin(ctx, &b); err != nil {
			return fmt.Errorf("seed bin %s: %w", b.LocationName, err)
		}
	}

	log.Printf("✓ Successfully seeded %d bins", len(demoBins))
	return nil
}
