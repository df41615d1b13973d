package sqlite

import (
	"strings"
	"testing"
)

func TestUpSection(t *testing.T) {
	in := "-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;\n"
	got := upSection(in)
	if !strings.Contains(got, "CREATE TABLE a") || strings.Contains(got, "DROP TABLE") {
		t.Fatalf("unexpected up section: %q", got)
	}
}

func TestLoadMigrations_Sorted(t *testing.T) {
	ms, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if len(ms) == 0 || ms[0].version != 1 {
		t.Fatalf("expected migration 001 first, got %+v", ms)
	}
	for i := 1; i < len(ms); i++ {
		if ms[i-1].version >= ms[i].version {
			t.Fatalf("migrations out of order")
		}
	}
}
