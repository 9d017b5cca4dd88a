package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"wms-backend/internal/database"
)

func main() {
	seed := flag.Bool("seed", false, "insert demo accounts and bins when the database has no bins")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Get database URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migration completed successfully!")

	if *seed {
		if err := database.SeedDemoData(context.Background(), database.NewPGStore(db)); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	// Query and display summary
	var result struct {
		Profiles       int `db:"profiles"`
		Drivers        int `db:"drivers"`
		Residents      int `db:"residents"`
		Bins           int `db:"bins"`
		CriticalBins   int `db:"critical_bins"`
		UnassignedBins int `db:"unassigned_bins"`
		PendingPickups int `db:"pending_pickups"`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM profiles) AS profiles,
			(SELECT COUNT(*) FROM profiles WHERE role = 'driver') AS drivers,
			(SELECT COUNT(*) FROM profiles WHERE role = 'user') AS residents,
			(SELECT COUNT(*) FROM bins) AS bins,
			(SELECT COUNT(*) FROM bins WHERE fill_level >= 80) AS critical_bins,
			(SELECT COUNT(*) FROM bins WHERE owner_id IS NULL) AS unassigned_bins,
			(SELECT COUNT(*) FROM pickups WHERE status = 'pending') AS pending_pickups
	`

	if err := db.Get(&result, query); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	// Display results
	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Profiles:                %d (%d drivers, %d residents)\n", result.Profiles, result.Drivers, result.Residents)
	fmt.Printf("Bins:                    %d\n", result.Bins)
	fmt.Printf("Critical bins:           %d\n", result.CriticalBins)
	fmt.Printf("Unassigned bins:         %d\n", result.UnassignedBins)
	fmt.Printf("Pending pickups:         %d\n", result.PendingPickups)
	fmt.Println("============================================================")
}
