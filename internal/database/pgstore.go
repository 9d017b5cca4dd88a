package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"wms-backend/internal/models"
	"wms-backend/internal/store"
)

// PGStore implements store.Store on Postgres. Change notifications are
// emitted by the triggers Migrate installs, not by this type.
type PGStore struct {
	db *sqlx.DB
}

var _ store.Store = (*PGStore)(nil)

func NewPGStore(db *sqlx.DB) *PGStore {
	return &PGStore{db: db}
}

// mapErr translates driver errors into the store sentinels.
func mapErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %s: %w", what, pqErr.Message, store.ErrConflict)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %s: %w", what, pqErr.Message, store.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// affected turns a zero-row write into ErrNotFound.
func affected(res sql.Result, err error, what string) error {
	if err != nil {
		return mapErr(err, what)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return nil
}

// ── Profiles ─────────────────────────────────────────────────────────────────

func (s *PGStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.GetContext(ctx, &p, `SELECT * FROM profiles WHERE id = $1`, id)
	if err != nil {
		return nil, mapErr(err, "get profile "+id)
	}
	return &p, nil
}

func (s *PGStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.GetContext(ctx, &p, `SELECT * FROM profiles WHERE email = $1`, email)
	if err != nil {
		return nil, mapErr(err, "get profile "+email)
	}
	return &p, nil
}

func (s *PGStore) ListProfiles(ctx context.Context, role string) ([]models.Profile, error) {
	profiles := []models.Profile{}
	var err error
	if role == "" {
		err = s.db.SelectContext(ctx, &profiles, `SELECT * FROM profiles ORDER BY name ASC, id ASC`)
	} else {
		err = s.db.SelectContext(ctx, &profiles, `SELECT * FROM profiles WHERE role = $1 ORDER BY name ASC, id ASC`, role)
	}
	if err != nil {
		return nil, mapErr(err, "list profiles")
	}
	return profiles, nil
}

func (s *PGStore) CreateProfile(ctx context.Context, p *models.Profile) error {
	if p.Status == "" {
		p.Status = models.ProfileStatusActive
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO profiles (id, email, name, role, vehicle_info, status, created_at)
		VALUES (:id, :email, :name, :role, :vehicle_info, :status, :created_at)
	`, p)
	return mapErr(err, "create profile")
}

func (s *PGStore) DeleteProfile(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	return affected(res, err, "delete profile "+id)
}

func (s *PGStore) GetCredentials(ctx context.Context, email string) (*models.Credentials, error) {
	var c models.Credentials
	err := s.db.GetContext(ctx, &c, `SELECT * FROM credentials WHERE email = $1`, email)
	if err != nil {
		return nil, mapErr(err, "get credentials")
	}
	return &c, nil
}

func (s *PGStore) CreateCredentials(ctx context.Context, c *models.Credentials) error {
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO credentials (profile_id, email, password, created_at)
		VALUES (:profile_id, :email, :password, :created_at)
	`, c)
	return mapErr(err, "create credentials")
}

// ── Bins ─────────────────────────────────────────────────────────────────────

const binSelect = `
	SELECT b.*, p.name AS owner_name
	FROM bins b
	LEFT JOIN profiles p ON p.id = b.owner_id`

func (s *PGStore) ListBins(ctx context.Context, f store.BinFilter) ([]models.BinWithOwner, error) {
	var where []string
	var args []interface{}
	if f.City != "" {
		args = append(args, f.City)
		where = append(where, fmt.Sprintf("b.city = $%d", len(args)))
	}
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		where = append(where, fmt.Sprintf("b.owner_id = $%d", len(args)))
	}
	if f.Unassigned {
		where = append(where, "b.owner_id IS NULL")
	}

	query := binSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY b.created_at ASC, b.id ASC"

	bins := []models.BinWithOwner{}
	if err := s.db.SelectContext(ctx, &bins, query, args...); err != nil {
		return nil, mapErr(err, "list bins")
	}
	return bins, nil
}

func (s *PGStore) GetBin(ctx context.Context, id string) (*models.BinWithOwner, error) {
	var b models.BinWithOwner
	if err := s.db.GetContext(ctx, &b, binSelect+" WHERE b.id = $1", id); err != nil {
		return nil, mapErr(err, "get bin "+id)
	}
	return &b, nil
}

func (s *PGStore) ListCities(ctx context.Context) ([]string, error) {
	cities := []string{}
	err := s.db.SelectContext(ctx, &cities, `SELECT DISTINCT city FROM bins WHERE city <> '' ORDER BY city`)
	if err != nil {
		return nil, mapErr(err, "list cities")
	}
	return cities, nil
}

func (s *PGStore) CreateBin(ctx context.Context, b *models.Bin) error {
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO bins (id, location_name, city, lat, lng, fill_level, weight, owner_id, created_at)
		VALUES (:id, :location_name, :city, :lat, :lng, :fill_level, :weight, :owner_id, :created_at)
	`, b)
	return mapErr(err, "create bin")
}

func (s *PGStore) DeleteBin(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bins WHERE id = $1`, id)
	return affected(res, err, "delete bin "+id)
}

func (s *PGStore) SetBinOwner(ctx context.Context, binID string, ownerID *string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE bins SET owner_id = $1 WHERE id = $2`, ownerID, binID)
	return affected(res, err, "set owner of bin "+binID)
}

func (s *PGStore) UpdateBinTelemetry(ctx context.Context, binID string, fillLevel int, weight float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bins SET fill_level = $1, weight = $2 WHERE id = $3`,
		fillLevel, weight, binID)
	return affected(res, err, "update telemetry of bin "+binID)
}

// ── Pickups ──────────────────────────────────────────────────────────────────

const pickupSelect = `
	SELECT
		pk.*,
		b.location_name AS bin_location_name,
		b.city AS bin_city,
		b.lat AS bin_lat,
		b.lng AS bin_lng,
		b.fill_level AS bin_fill_level,
		b.weight AS bin_weight,
		b.owner_id AS bin_owner_id,
		d.name AS driver_name,
		d.vehicle_info AS driver_vehicle_info
	FROM pickups pk
	JOIN bins b ON b.id = pk.bin_id
	LEFT JOIN profiles d ON d.id = pk.driver_id`

func (s *PGStore) ListPickups(ctx context.Context, f store.PickupFilter) ([]models.PickupDetail, error) {
	var where []string
	var args []interface{}
	if f.DriverID != "" {
		args = append(args, f.DriverID)
		where = append(where, fmt.Sprintf("pk.driver_id = $%d", len(args)))
	}
	if f.Active {
		where = append(where, "pk.status <> 'completed'")
	}
	if f.OpenOrIssue {
		where = append(where, "(pk.status = 'pending' OR pk.issue_report IS NOT NULL)")
	}

	query := pickupSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.NewestScheduledFirst {
		query += " ORDER BY pk.scheduled_at DESC, pk.id DESC"
	} else {
		query += " ORDER BY pk.created_at DESC, pk.id DESC"
	}

	pickups := []models.PickupDetail{}
	if err := s.db.SelectContext(ctx, &pickups, query, args...); err != nil {
		return nil, mapErr(err, "list pickups")
	}
	return pickups, nil
}

func (s *PGStore) GetPickup(ctx context.Context, id string) (*models.PickupDetail, error) {
	var p models.PickupDetail
	if err := s.db.GetContext(ctx, &p, pickupSelect+" WHERE pk.id = $1", id); err != nil {
		return nil, mapErr(err, "get pickup "+id)
	}
	return &p, nil
}

func (s *PGStore) ActivePickupForBin(ctx context.Context, binID string) (*models.Pickup, error) {
	var p models.Pickup
	err := s.db.GetContext(ctx, &p,
		`SELECT * FROM pickups WHERE bin_id = $1 AND status = 'pending' LIMIT 1`, binID)
	if err != nil {
		return nil, mapErr(err, "active pickup for bin "+binID)
	}
	return &p, nil
}

func (s *PGStore) CreatePickup(ctx context.Context, p *models.Pickup) error {
	now := time.Now().Unix()
	if p.Status == "" {
		p.Status = models.PickupStatusPending
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = now
	}
	if p.ScheduledAt == 0 {
		p.ScheduledAt = now
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO pickups (id, bin_id, driver_id, status, issue_report, created_at, scheduled_at, completed_at)
		VALUES (:id, :bin_id, :driver_id, :status, :issue_report, :created_at, :scheduled_at, :completed_at)
	`, p)
	return mapErr(err, "create pickup")
}

func (s *PGStore) AssignDriver(ctx context.Context, pickupID, driverID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pickups
		SET driver_id = $1, status = 'pending', completed_at = NULL, scheduled_at = $2
		WHERE id = $3
	`, driverID, time.Now().Unix(), pickupID)
	return affected(res, err, "assign driver to pickup "+pickupID)
}

func (s *PGStore) CompletePickup(ctx context.Context, pickupID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pickups SET status = 'completed', completed_at = $1 WHERE id = $2`,
		time.Now().Unix(), pickupID)
	return affected(res, err, "complete pickup "+pickupID)
}

func (s *PGStore) ReportIssue(ctx context.Context, pickupID, report string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pickups SET issue_report = $1, status = 'completed', completed_at = $2
		WHERE id = $3
	`, report, time.Now().Unix(), pickupID)
	return affected(res, err, "report issue on pickup "+pickupID)
}

func (s *PGStore) ClearIssue(ctx context.Context, pickupID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE pickups SET issue_report = NULL WHERE id = $1`, pickupID)
	return affected(res, err, "clear issue on pickup "+pickupID)
}

// ── Device tokens ────────────────────────────────────────────────────────────

func (s *PGStore) SaveDeviceToken(ctx context.Context, t *models.DeviceToken) error {
	now := time.Now().Unix()
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO device_tokens (profile_id, token, device_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (token) DO UPDATE SET
			profile_id = EXCLUDED.profile_id,
			device_type = EXCLUDED.device_type,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`, t.ProfileID, t.Token, t.DeviceType, now).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return mapErr(err, "save device token")
}

func (s *PGStore) ListDeviceTokens(ctx context.Context, profileID string) ([]models.DeviceToken, error) {
	tokens := []models.DeviceToken{}
	err := s.db.SelectContext(ctx, &tokens,
		`SELECT * FROM device_tokens WHERE profile_id = $1 ORDER BY id`, profileID)
	if err != nil {
		return nil, mapErr(err, "list device tokens")
	}
	return tokens, nil
}
