package domain

import "time"

// Watcher est un couple (film, cinéma) suivi, avec l'URL de la page de réservation.
type Watcher struct {
	ID     string `json:"id" yaml:"id"`
	Movie  string `json:"movie" yaml:"movie"`
	Cinema string `json:"cinema" yaml:"cinema"`

	// URL de base de la page listant les séances (sans fromdate).
	URL string `json:"url" yaml:"url"`

	Enabled bool `json:"enabled" yaml:"enabled"`

	// ExpiresAt optionnel: au-delà, le watcher n'est plus vérifié.
	ExpiresAt *time.Time `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

func (w Watcher) Expired(now time.Time) bool {
	return w.ExpiresAt != nil && w.ExpiresAt.Before(now)
}

func (w Watcher) Active(now time.Time) bool {
	return w.Enabled && !w.Expired(now)
}

// ActiveWatchers garde l'ordre de la watchlist.
func ActiveWatchers(list []Watcher, now time.Time) []Watcher {
	out := make([]Watcher, 0, len(list))
	for _, w := range list {
		if w.Active(now) {
			out = append(out, w)
		}
	}
	return out
}
