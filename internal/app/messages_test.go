package app

import (
	"strings"
	"testing"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
)

func TestNewDatesMessage(t *testing.T) {
	d, _ := domain.ParseShowDate("2025-06-05")
	msg := NewDatesMessage(domain.Watcher{
		Movie:  "Dune: Part Two",
		Cinema: "Priya PVR IMAX (Laser)",
		URL:    "https://www.district.in/movies/pvr-priya",
	}, d)

	for _, want := range []string{
		"Dune: Part Two",
		"Priya PVR IMAX (Laser)",
		"Latest date: Thursday, June 5, 2025",
		"https://www.district.in/movies/pvr-priya",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestAllExpiredMessage(t *testing.T) {
	if !strings.Contains(AllExpiredMessage(2, true), "being disabled") {
		t.Fatalf("auto-disable variant should say runs are disabled")
	}
	if strings.Contains(AllExpiredMessage(2, false), "being disabled") {
		t.Fatalf("plain variant should not claim runs are disabled")
	}
}
