package sqlite

import (
	"context"
	"testing"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
)

func TestStateRepository_EmptyAndPersist(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewStateRepository(db.SQL)

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load(empty): %v", err)
	}
	if len(got.Watchers) != 0 || !got.Meta.IsZero() {
		t.Fatalf("expected empty state, got %+v", got)
	}

	st := domain.NewState()
	d, _ := domain.ParseShowDate("2025-06-03")
	st.SetLastMax("m1", d)
	st.Meta.LastHeartbeatDate = "2025-06-01"
	if err := repo.Save(ctx, st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	d2, _ := domain.ParseShowDate("2025-06-05")
	st.SetLastMax("m1", d2)
	st.SetLastMax("m2", d)
	if err := repo.Save(ctx, st); err != nil {
		t.Fatalf("Save #2: %v", err)
	}

	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Watchers["m1"].LastMaxDate != "2025-06-05" {
		t.Fatalf("m1: want 2025-06-05, got %q", got.Watchers["m1"].LastMaxDate)
	}
	if got.Watchers["m2"].LastMaxDate != "2025-06-03" {
		t.Fatalf("m2: want 2025-06-03, got %q", got.Watchers["m2"].LastMaxDate)
	}
	if got.Meta.LastHeartbeatDate != "2025-06-01" {
		t.Fatalf("meta: got %q", got.Meta.LastHeartbeatDate)
	}
}

func TestOpen_MigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}
