package domain

import (
	"testing"
	"time"
)

func TestSortDates_DedupesAndOrders(t *testing.T) {
	mk := func(s string) ShowDate {
		d, err := ParseShowDate(s)
		if err != nil {
			t.Fatalf("ParseShowDate(%q): %v", s, err)
		}
		return d
	}
	in := []ShowDate{mk("2025-06-05"), mk("2025-06-01"), mk("2025-06-05"), mk("2025-06-03"), {}}
	got := SortDates(in)
	want := []string{"2025-06-01", "2025-06-03", "2025-06-05"}
	if len(got) != len(want) {
		t.Fatalf("len: want %d, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("index %d: want %q, got %q", i, want[i], got[i].String())
		}
	}
}

func TestShowDate_ComparesAcrossYears(t *testing.T) {
	a, _ := ParseShowDate("2025-12-31")
	b, _ := ParseShowDate("2026-01-01")
	if !b.After(a) {
		t.Fatalf("expected %s after %s", b, a)
	}
	if a.After(b) || a.After(a) {
		t.Fatalf("After should be strict")
	}
}

func TestParseShowDate_RejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2025-6-1", "2025-13-01", "tomorrow"} {
		if _, err := ParseShowDate(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestDateOf_UsesLocation(t *testing.T) {
	instant := time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC)
	if got := DateOf(instant, nil).String(); got != "2025-06-01" {
		t.Fatalf("UTC: want 2025-06-01, got %s", got)
	}
	kolkata := time.FixedZone("IST", 5*3600+1800)
	if got := DateOf(instant, kolkata).String(); got != "2025-06-02" {
		t.Fatalf("IST: want 2025-06-02, got %s", got)
	}
}

func TestShowDate_Long(t *testing.T) {
	d, _ := ParseShowDate("2025-06-05")
	if got := d.Long(); got != "Thursday, June 5, 2025" {
		t.Fatalf("Long: got %q", got)
	}
}
