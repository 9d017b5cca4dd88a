// Package memstore is an in-process implementation of store.Store. It keeps
// the same uniqueness and referential rules as the Postgres schema and
// publishes a change event for every write, standing in for the database
// triggers.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"wms-backend/internal/models"
	"wms-backend/internal/realtime"
	"wms-backend/internal/store"
)

// Publisher receives a change event after every successful write.
type Publisher interface {
	Publish(ev realtime.Event)
}

type binRow struct {
	models.Bin
	seq int64
}

type pickupRow struct {
	models.Pickup
	seq int64
}

type Store struct {
	mu  sync.RWMutex
	pub Publisher
	seq int64
	now func() time.Time

	profiles    map[string]models.Profile
	credentials map[string]models.Credentials // keyed by email
	bins        map[string]*binRow
	pickups     map[string]*pickupRow
	tokens      map[string]models.DeviceToken // keyed by token
	tokenSeq    int64
}

var _ store.Store = (*Store)(nil)

// New returns an empty store. pub may be nil.
func New(pub Publisher) *Store {
	return &Store{
		pub:         pub,
		now:         time.Now,
		profiles:    make(map[string]models.Profile),
		credentials: make(map[string]models.Credentials),
		bins:        make(map[string]*binRow),
		pickups:     make(map[string]*pickupRow),
		tokens:      make(map[string]models.DeviceToken),
	}
}

func (s *Store) publish(table, op string) {
	if s.pub != nil {
		s.pub.Publish(realtime.Event{Table: table, Op: op})
	}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// ── Profiles ─────────────────────────────────────────────────────────────────

func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, store.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.Email == email {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("profile %s: %w", email, store.ErrNotFound)
}

func (s *Store) ListProfiles(ctx context.Context, role string) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Profile, 0)
	for _, p := range s.profiles {
		if role == "" || p.Role == role {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	s.mu.Lock()
	if _, ok := s.profiles[p.ID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("profile id %s: %w", p.ID, store.ErrConflict)
	}
	for _, existing := range s.profiles {
		if existing.Email == p.Email {
			s.mu.Unlock()
			return fmt.Errorf("email %s is already registered: %w", p.Email, store.ErrConflict)
		}
	}
	if p.Status == "" {
		p.Status = models.ProfileStatusActive
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = s.now().Unix()
	}
	s.profiles[p.ID] = *p
	s.mu.Unlock()

	s.publish(realtime.TableProfiles, "INSERT")
	return nil
}

func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.profiles[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("profile %s: %w", id, store.ErrNotFound)
	}
	delete(s.profiles, id)

	for email, c := range s.credentials {
		if c.ProfileID == id {
			delete(s.credentials, email)
		}
	}
	for tok, t := range s.tokens {
		if t.ProfileID == id {
			delete(s.tokens, tok)
		}
	}

	binsChanged, pickupsChanged := false, false
	for _, b := range s.bins {
		if b.OwnerID != nil && *b.OwnerID == id {
			b.OwnerID = nil
			binsChanged = true
		}
	}
	for _, p := range s.pickups {
		if p.DriverID != nil && *p.DriverID == id {
			p.DriverID = nil
			pickupsChanged = true
		}
	}
	s.mu.Unlock()

	s.publish(realtime.TableProfiles, "DELETE")
	if binsChanged {
		s.publish(realtime.TableBins, "UPDATE")
	}
	if pickupsChanged {
		s.publish(realtime.TablePickups, "UPDATE")
	}
	return nil
}

func (s *Store) GetCredentials(ctx context.Context, email string) (*models.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.credentials[email]
	if !ok {
		return nil, fmt.Errorf("credentials %s: %w", email, store.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) CreateCredentials(ctx context.Context, c *models.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[c.ProfileID]; !ok {
		return fmt.Errorf("profile %s: %w", c.ProfileID, store.ErrNotFound)
	}
	if _, ok := s.credentials[c.Email]; ok {
		return fmt.Errorf("user already registered: %w", store.ErrConflict)
	}
	for _, existing := range s.credentials {
		if existing.ProfileID == c.ProfileID {
			return fmt.Errorf("profile %s already has credentials: %w", c.ProfileID, store.ErrConflict)
		}
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = s.now().Unix()
	}
	s.credentials[c.Email] = *c
	return nil
}

// ── Bins ─────────────────────────────────────────────────────────────────────

func (s *Store) withOwner(b *binRow) models.BinWithOwner {
	out := models.BinWithOwner{Bin: b.Bin}
	if b.OwnerID != nil {
		if owner, ok := s.profiles[*b.OwnerID]; ok {
			name := owner.Name
			out.OwnerName = &name
		}
	}
	return out
}

func (s *Store) ListBins(ctx context.Context, f store.BinFilter) ([]models.BinWithOwner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]*binRow, 0, len(s.bins))
	for _, b := range s.bins {
		if f.City != "" && b.City != f.City {
			continue
		}
		if f.OwnerID != "" && (b.OwnerID == nil || *b.OwnerID != f.OwnerID) {
			continue
		}
		if f.Unassigned && b.OwnerID != nil {
			continue
		}
		rows = append(rows, b)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]models.BinWithOwner, len(rows))
	for i, b := range rows {
		out[i] = s.withOwner(b)
	}
	return out, nil
}

func (s *Store) GetBin(ctx context.Context, id string) (*models.BinWithOwner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bins[id]
	if !ok {
		return nil, fmt.Errorf("bin %s: %w", id, store.ErrNotFound)
	}
	out := s.withOwner(b)
	return &out, nil
}

func (s *Store) ListCities(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	cities := make([]string, 0)
	for _, b := range s.bins {
		if b.City != "" && !seen[b.City] {
			seen[b.City] = true
			cities = append(cities, b.City)
		}
	}
	sort.Strings(cities)
	return cities, nil
}

func (s *Store) CreateBin(ctx context.Context, b *models.Bin) error {
	s.mu.Lock()
	if _, ok := s.bins[b.ID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("bin id %s: %w", b.ID, store.ErrConflict)
	}
	if b.OwnerID != nil {
		if _, ok := s.profiles[*b.OwnerID]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("owner %s: %w", *b.OwnerID, store.ErrNotFound)
		}
	}
	if b.FillLevel < 0 || b.FillLevel > 100 {
		s.mu.Unlock()
		return fmt.Errorf("fill level %d out of range 0-100", b.FillLevel)
	}
	if b.CreatedAt == 0 {
		b.CreatedAt = s.now().Unix()
	}
	s.bins[b.ID] = &binRow{Bin: *b, seq: s.nextSeq()}
	s.mu.Unlock()

	s.publish(realtime.TableBins, "INSERT")
	return nil
}

func (s *Store) DeleteBin(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.bins[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("bin %s: %w", id, store.ErrNotFound)
	}
	delete(s.bins, id)

	pickupsDeleted := false
	for pid, p := range s.pickups {
		if p.BinID == id {
			delete(s.pickups, pid)
			pickupsDeleted = true
		}
	}
	s.mu.Unlock()

	s.publish(realtime.TableBins, "DELETE")
	if pickupsDeleted {
		s.publish(realtime.TablePickups, "DELETE")
	}
	return nil
}

func (s *Store) SetBinOwner(ctx context.Context, binID string, ownerID *string) error {
	s.mu.Lock()
	b, ok := s.bins[binID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("bin %s: %w", binID, store.ErrNotFound)
	}
	if ownerID != nil {
		if _, ok := s.profiles[*ownerID]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("owner %s: %w", *ownerID, store.ErrNotFound)
		}
		id := *ownerID
		b.OwnerID = &id
	} else {
		b.OwnerID = nil
	}
	s.mu.Unlock()

	s.publish(realtime.TableBins, "UPDATE")
	return nil
}

func (s *Store) UpdateBinTelemetry(ctx context.Context, binID string, fillLevel int, weight float64) error {
	if fillLevel < 0 || fillLevel > 100 {
		return fmt.Errorf("fill level %d out of range 0-100", fillLevel)
	}

	s.mu.Lock()
	b, ok := s.bins[binID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("bin %s: %w", binID, store.ErrNotFound)
	}
	b.FillLevel = fillLevel
	b.Weight = weight
	s.mu.Unlock()

	s.publish(realtime.TableBins, "UPDATE")
	return nil
}

// ── Pickups ──────────────────────────────────────────────────────────────────

func (s *Store) detail(p *pickupRow) models.PickupDetail {
	d := models.PickupDetail{Pickup: p.Pickup}
	if b, ok := s.bins[p.BinID]; ok {
		d.BinLocationName = b.LocationName
		d.BinCity = b.City
		d.BinLat = b.Lat
		d.BinLng = b.Lng
		d.BinFillLevel = b.FillLevel
		d.BinWeight = b.Weight
		d.BinOwnerID = b.OwnerID
	}
	if p.DriverID != nil {
		if driver, ok := s.profiles[*p.DriverID]; ok {
			name := driver.Name
			d.DriverName = &name
			d.DriverVehicleInfo = driver.VehicleInfo
		}
	}
	return d
}

func (s *Store) ListPickups(ctx context.Context, f store.PickupFilter) ([]models.PickupDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]*pickupRow, 0, len(s.pickups))
	for _, p := range s.pickups {
		if f.DriverID != "" && (p.DriverID == nil || *p.DriverID != f.DriverID) {
			continue
		}
		if f.Active && p.Status == models.PickupStatusCompleted {
			continue
		}
		if f.OpenOrIssue && !(p.Pending() || p.IssueReport != nil) {
			continue
		}
		rows = append(rows, p)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		ka, kb := a.CreatedAt, b.CreatedAt
		if f.NewestScheduledFirst {
			ka, kb = a.ScheduledAt, b.ScheduledAt
		}
		if ka != kb {
			return ka > kb
		}
		return a.seq > b.seq
	})

	out := make([]models.PickupDetail, len(rows))
	for i, p := range rows {
		out[i] = s.detail(p)
	}
	return out, nil
}

func (s *Store) GetPickup(ctx context.Context, id string) (*models.PickupDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pickups[id]
	if !ok {
		return nil, fmt.Errorf("pickup %s: %w", id, store.ErrNotFound)
	}
	d := s.detail(p)
	return &d, nil
}

func (s *Store) activeFor(binID, exceptID string) *pickupRow {
	for _, p := range s.pickups {
		if p.BinID == binID && p.Pending() && p.ID != exceptID {
			return p
		}
	}
	return nil
}

func (s *Store) ActivePickupForBin(ctx context.Context, binID string) (*models.Pickup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.activeFor(binID, ""); p != nil {
		out := p.Pickup
		return &out, nil
	}
	return nil, fmt.Errorf("active pickup for bin %s: %w", binID, store.ErrNotFound)
}

func (s *Store) CreatePickup(ctx context.Context, p *models.Pickup) error {
	s.mu.Lock()
	if _, ok := s.pickups[p.ID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("pickup id %s: %w", p.ID, store.ErrConflict)
	}
	if _, ok := s.bins[p.BinID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("bin %s: %w", p.BinID, store.ErrNotFound)
	}
	if p.DriverID != nil {
		if _, ok := s.profiles[*p.DriverID]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("driver %s: %w", *p.DriverID, store.ErrNotFound)
		}
	}
	if p.Status == "" {
		p.Status = models.PickupStatusPending
	}
	if p.Pending() && s.activeFor(p.BinID, "") != nil {
		s.mu.Unlock()
		return fmt.Errorf("bin %s already has an active pickup: %w", p.BinID, store.ErrConflict)
	}
	now := s.now().Unix()
	if p.CreatedAt == 0 {
		p.CreatedAt = now
	}
	if p.ScheduledAt == 0 {
		p.ScheduledAt = now
	}
	s.pickups[p.ID] = &pickupRow{Pickup: *p, seq: s.nextSeq()}
	s.mu.Unlock()

	s.publish(realtime.TablePickups, "INSERT")
	return nil
}

// update applies fn to the pickup under the write lock and publishes on success.
func (s *Store) update(pickupID string, fn func(p *pickupRow) error) error {
	s.mu.Lock()
	p, ok := s.pickups[pickupID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("pickup %s: %w", pickupID, store.ErrNotFound)
	}
	if err := fn(p); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.publish(realtime.TablePickups, "UPDATE")
	return nil
}

func (s *Store) AssignDriver(ctx context.Context, pickupID, driverID string) error {
	return s.update(pickupID, func(p *pickupRow) error {
		if _, ok := s.profiles[driverID]; !ok {
			return fmt.Errorf("driver %s: %w", driverID, store.ErrNotFound)
		}
		if !p.Pending() && s.activeFor(p.BinID, p.ID) != nil {
			return fmt.Errorf("bin %s already has an active pickup: %w", p.BinID, store.ErrConflict)
		}
		id := driverID
		p.DriverID = &id
		p.Status = models.PickupStatusPending
		p.CompletedAt = nil
		p.ScheduledAt = s.now().Unix()
		return nil
	})
}

func (s *Store) CompletePickup(ctx context.Context, pickupID string) error {
	return s.update(pickupID, func(p *pickupRow) error {
		now := s.now().Unix()
		p.Status = models.PickupStatusCompleted
		p.CompletedAt = &now
		return nil
	})
}

func (s *Store) ReportIssue(ctx context.Context, pickupID, report string) error {
	return s.update(pickupID, func(p *pickupRow) error {
		now := s.now().Unix()
		r := report
		p.IssueReport = &r
		p.Status = models.PickupStatusCompleted
		p.CompletedAt = &now
		return nil
	})
}

func (s *Store) ClearIssue(ctx context.Context, pickupID string) error {
	return s.update(pickupID, func(p *pickupRow) error {
		p.IssueReport = nil
		return nil
	})
}

// ── Device tokens ────────────────────────────────────────────────────────────

func (s *Store) SaveDeviceToken(ctx context.Context, t *models.DeviceToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[t.ProfileID]; !ok {
		return fmt.Errorf("profile %s: %w", t.ProfileID, store.ErrNotFound)
	}
	now := s.now().Unix()
	if existing, ok := s.tokens[t.Token]; ok {
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
	} else {
		s.tokenSeq++
		t.ID = s.tokenSeq
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	s.tokens[t.Token] = *t
	return nil
}

func (s *Store) ListDeviceTokens(ctx context.Context, profileID string) ([]models.DeviceToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DeviceToken, 0)
	for _, t := range s.tokens {
		if t.ProfileID == profileID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
