package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Database URL length: %d characters", len(dbURL))
	log.Printf("   📍 URL prefix: %s...", dbURL[:min(30, len(dbURL))])
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Println("❌ DATABASE CONNECTION FAILED AT sqlx.Connect()")
		log.Printf("   Error type: %T", err)
		log.Printf("   Error message: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Println("❌ DATABASE CONNECTION FAILED AT Ping()")
		log.Printf("   Error message: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

// Migrate creates the schema. Every statement is idempotent so it runs on
// each startup.
func Migrate(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('admin', 'driver', 'user')),
			vehicle_info TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Sign-in side of a profile. Admin-created profiles have no row here
		// until the person signs up with the same email.
		`CREATE TABLE IF NOT EXISTS credentials (
			profile_id TEXT PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS bins (
			id TEXT PRIMARY KEY,
			location_name TEXT NOT NULL,
			city TEXT NOT NULL,
			lat DOUBLE PRECISION NOT NULL DEFAULT 0,
			lng DOUBLE PRECISION NOT NULL DEFAULT 0,
			fill_level INT NOT NULL DEFAULT 0 CHECK(fill_level BETWEEN 0 AND 100),
			weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			owner_id TEXT REFERENCES profiles(id) ON DELETE SET NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS pickups (
			id TEXT PRIMARY KEY,
			bin_id TEXT NOT NULL REFERENCES bins(id) ON DELETE CASCADE,
			driver_id TEXT REFERENCES profiles(id) ON DELETE SET NULL,
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'completed')),
			issue_report TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			scheduled_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			completed_at BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS device_tokens (
			id SERIAL PRIMARY KEY,
			profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// At most one active pickup per bin
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_pickups_one_pending_per_bin ON pickups(bin_id) WHERE status = 'pending'`,

		`CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(role)`,
		`CREATE INDEX IF NOT EXISTS idx_bins_city ON bins(city)`,
		`CREATE INDEX IF NOT EXISTS idx_bins_owner_id ON bins(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pickups_driver_id ON pickups(driver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pickups_created_at ON pickups(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_device_tokens_profile_id ON device_tokens(profile_id)`,

		// Change feed: every write to a watched table notifies listeners with
		// {"table": ..., "op": ...}. Row data is deliberately left out.
		`CREATE OR REPLACE FUNCTION notify_table_change() RETURNS trigger AS $$
		BEGIN
			PERFORM pg_notify('table_changes', json_build_object('table', TG_TABLE_NAME, 'op', TG_OP)::text);
			RETURN NULL;
		END;
		$$ LANGUAGE plpgsql`,

		`DROP TRIGGER IF EXISTS bins_notify_change ON bins`,
		`CREATE TRIGGER bins_notify_change AFTER INSERT OR UPDATE OR DELETE ON bins
			FOR EACH STATEMENT EXECUTE FUNCTION notify_table_change()`,
		`DROP TRIGGER IF EXISTS pickups_notify_change ON pickups`,
		`CREATE TRIGGER pickups_notify_change AFTER INSERT OR UPDATE OR DELETE ON pickups
			FOR EACH STATEMENT EXECUTE FUNCTION notify_table_change()`,
		`DROP TRIGGER IF EXISTS profiles_notify_change ON profiles`,
		`CREATE TRIGGER profiles_notify_change AFTER INSERT OR UPDATE OR DELETE ON profiles
			FOR EACH STATEMENT EXECUTE FUNCTION notify_table_change()`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("✓ Database migrations completed")
	return nil
}
