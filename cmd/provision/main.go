// Command provision creates a staff account with a password, for bootstrapping
// the first administrator before anyone can use the staff page.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"wms-backend/internal/actions"
	"wms-backend/internal/auth"
	"wms-backend/internal/database"
	"wms-backend/internal/models"
)

func main() {
	email := flag.String("email", "", "account email")
	name := flag.String("name", "", "display name")
	role := flag.String("role", models.RoleAdmin, "admin or driver")
	password := flag.String("password", "", "initial password")
	vehicle := flag.String("vehicle", "", "vehicle info (drivers only)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("🔌 Connected to database")

	ctx := context.Background()
	st := database.NewPGStore(db)

	profile, err := actions.New(st, nil, nil).CreateProfile(ctx, models.CreateProfileRequest{
		Name:        *name,
		Email:       *email,
		Role:        *role,
		VehicleInfo: *vehicle,
	})
	if err != nil {
		log.Fatalf("❌ Failed to create profile %s: %v", *email, err)
	}
	log.Printf("✅ Created %s profile: %s", profile.Role, profile.Email)

	// Signing up claims the profile just created and keeps its role.
	if _, err := auth.NewService(st, "", 0).SignUp(ctx, profile.Email, *password, profile.Name); err != nil {
		log.Fatalf("❌ Failed to set password for %s: %v", profile.Email, err)
	}

	log.Println("\n📧 Login credentials:")
	log.Printf("  %s / %s (%s)", profile.Email, *password, profile.Role)
}
