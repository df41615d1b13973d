package watchlist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON5 Format = "json5"
	FormatYAML  Format = "yaml"
)

// File lit la watchlist depuis un fichier édité à la main (JSON5 ou YAML).
// Le fichier est relu à chaque Load: un opérateur peut l'éditer entre deux runs.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }

func (f *File) Load(ctx context.Context) ([]domain.Watcher, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &ports.CodedError{Code: "io_error", Message: "read watchlist " + f.path, Err: err}
	}
	return Parse(b, FormatFromPath(f.path))
}

func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON5
	}
}

type rawWatcher struct {
	ID     string `json:"id" yaml:"id"`
	Movie  string `json:"movie" yaml:"movie"`
	Cinema string `json:"cinema" yaml:"cinema"`
	URL    string `json:"url" yaml:"url"`

	// Absent => activé.
	Enabled   *bool  `json:"enabled" yaml:"enabled"`
	ExpiresAt string `json:"expiresAt" yaml:"expiresAt"`
}

type rawDocument struct {
	Watchers []rawWatcher `json:"watchers" yaml:"watchers"`
}

// Parse accepte une liste à la racine ou un objet {"watchers": [...]}.
func Parse(data []byte, format Format) ([]domain.Watcher, error) {
	raws, err := decode(data, format)
	if err != nil {
		return nil, &ports.CodedError{Code: "invalid_watchlist", Message: "decode watchlist", Err: err}
	}

	out := make([]domain.Watcher, 0, len(raws))
	seen := map[string]bool{}
	for i, rw := range raws {
		id := strings.TrimSpace(rw.ID)
		if id == "" {
			return nil, &ports.CodedError{Code: "invalid_watchlist", Message: fmt.Sprintf("watcher #%d has no id", i+1)}
		}
		if seen[id] {
			return nil, &ports.CodedError{Code: "invalid_watchlist", Message: fmt.Sprintf("duplicate watcher id %q", id), Err: ports.ErrConflict}
		}
		seen[id] = true

		w := domain.Watcher{
			ID:      id,
			Movie:   strings.TrimSpace(rw.Movie),
			Cinema:  strings.TrimSpace(rw.Cinema),
			URL:     strings.TrimSpace(rw.URL),
			Enabled: rw.Enabled == nil || *rw.Enabled,
		}
		if exp := strings.TrimSpace(rw.ExpiresAt); exp != "" {
			t, err := parseExpiry(exp)
			if err != nil {
				return nil, &ports.CodedError{Code: "invalid_watchlist", Message: fmt.Sprintf("watcher %q expiresAt", id), Err: err}
			}
			w.ExpiresAt = &t
		}
		out = append(out, w)
	}
	return out, nil
}

func decode(data []byte, format Format) ([]rawWatcher, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []rawWatcher{}, nil
	}
	switch format {
	case FormatYAML:
		var list []rawWatcher
		if err := yaml.Unmarshal(data, &list); err == nil {
			return list, nil
		}
		var doc rawDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.Watchers, nil
	case FormatJSON5:
		var list []rawWatcher
		if err := json5.Unmarshal(data, &list); err == nil {
			return list, nil
		}
		var doc rawDocument
		if err := json5.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.Watchers, nil
	default:
		return nil, errors.New("unknown watchlist format " + string(format))
	}
}

// parseExpiry accepte RFC3339 ou une date seule; une date seule expire à la
// fin de ce jour (UTC).
func parseExpiry(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 timestamp or YYYY-MM-DD, got %q", s)
	}
	return d.AddDate(0, 0, 1), nil
}
