package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"wms-backend/internal/models"
	"wms-backend/internal/store"
	"wms-backend/internal/store/memstore"
)

func TestSeedDemoDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memstore.New(nil)

	if err := SeedDemoData(ctx, st); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := SeedDemoData(ctx, st); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	bins, _ := st.ListBins(ctx, store.BinFilter{})
	if len(bins) != len(demoBins) {
		t.Fatalf("expected %d bins, got %d", len(demoBins), len(bins))
	}
	for _, b := range bins {
		if b.Weight != models.WeightForFill(b.FillLevel) {
			t.Fatalf("bin %s: expected weight %.2f, got %.2f", b.LocationName, models.WeightForFill(b.FillLevel), b.Weight)
		}
	}

	drivers, _ := st.ListProfiles(ctx, models.RoleDriver)
	if len(drivers) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(drivers))
	}

	resident, err := st.GetProfileByEmail(ctx, "resident@wms.local")
	if err != nil {
		t.Fatalf("resident: %v", err)
	}
	owned, _ := st.ListBins(ctx, store.BinFilter{OwnerID: resident.ID})
	if len(owned) != 2 {
		t.Fatalf("expected resident to own 2 bins, got %d", len(owned))
	}
}

func TestMapErr(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"unique violation", &pq.Error{Code: "23505", Message: "duplicate key"}, store.ErrConflict},
		{"foreign key violation", &pq.Error{Code: "23503", Message: "violates foreign key"}, store.ErrNotFound},
		{"wrapped unique violation", fmt.Errorf("exec: %w", &pq.Error{Code: "23505"}), store.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := mapErr(tc.in, "op"); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if mapErr(nil, "op") != nil {
		t.Fatalf("expected nil for nil error")
	}
	other := errors.New("boom")
	if err := mapErr(other, "op"); !errors.Is(err, other) || errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected passthrough, got %v", err)
	}
}
