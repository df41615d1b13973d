package domain

import (
	"fmt"
	"sort"
	"time"
)

const DateLayout = "2006-01-02"

// ShowDate est une date calendaire (sans heure), toujours stockée à minuit UTC.
type ShowDate struct {
	t time.Time
}

func ParseShowDate(s string) (ShowDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return ShowDate{}, fmt.Errorf("invalid show date %q: %w", s, err)
	}
	return ShowDate{t: t}, nil
}

// DateOf renvoie la date calendaire de t dans loc (UTC si nil).
func DateOf(t time.Time, loc *time.Location) ShowDate {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return ShowDate{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d ShowDate) IsZero() bool { return d.t.IsZero() }

func (d ShowDate) After(o ShowDate) bool { return d.t.After(o.t) }

func (d ShowDate) Equal(o ShowDate) bool { return d.t.Equal(o.t) }

func (d ShowDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Long rend la date au format "Monday, January 2, 2006".
func (d ShowDate) Long() string {
	return d.t.Format("Monday, January 2, 2006")
}

// SortDates trie et dédoublonne.
func SortDates(in []ShowDate) []ShowDate {
	seen := make(map[ShowDate]struct{}, len(in))
	out := make([]ShowDate, 0, len(in))
	for _, d := range in {
		if d.IsZero() {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[j].After(out[i]) })
	return out
}
