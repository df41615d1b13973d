package watchlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
	"github.com/stretchr/testify/require"
)

const sampleJSON5 = `// watchlist suivie par le workflow
[
  {
    id: "dune-priya",
    movie: "Dune: Part Two",
    cinema: "Priya PVR IMAX (Laser)",
    url: "https://www.district.in/movies/dune-priya",
    enabled: true,
    expiresAt: "2025-07-01T00:00:00Z",
  },
  { id: "old", url: "https://example/old", enabled: false },
  { id: "implicit", url: "https://example/implicit" },
]
`

const sampleYAML = `
watchers:
  - id: dune-priya
    movie: "Dune: Part Two"
    cinema: Priya PVR IMAX (Laser)
    url: https://www.district.in/movies/dune-priya
    enabled: true
    expiresAt: "2025-07-01"
`

func TestParse_JSON5(t *testing.T) {
	got, err := Parse([]byte(sampleJSON5), FormatJSON5)
	require.NoError(t, err)
	require.Len(t, got, 3)

	require.Equal(t, "dune-priya", got[0].ID)
	require.Equal(t, "Priya PVR IMAX (Laser)", got[0].Cinema)
	require.True(t, got[0].Enabled)
	require.NotNil(t, got[0].ExpiresAt)
	require.True(t, got[0].ExpiresAt.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))

	require.False(t, got[1].Enabled)
	require.True(t, got[2].Enabled, "enabled defaults to true")
	require.Nil(t, got[2].ExpiresAt)
}

func TestParse_YAMLDocument(t *testing.T) {
	got, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Dune: Part Two", got[0].Movie)
	// Date seule: expire à la fin du jour.
	require.True(t, got[0].ExpiresAt.Equal(time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)))
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte(`[{id: "a"}, {id: "a"}]`), FormatJSON5)
	require.Error(t, err)
	require.True(t, errors.Is(err, ports.ErrConflict))
	require.Equal(t, "invalid_watchlist", ports.ErrorCode(err))
}

func TestParse_RejectsMissingID(t *testing.T) {
	_, err := Parse([]byte(`[{url: "https://example"}]`), FormatJSON5)
	require.Error(t, err)
}

func TestParse_RejectsBadExpiry(t *testing.T) {
	_, err := Parse([]byte(`[{id: "a", expiresAt: "next week"}]`), FormatJSON5)
	require.Error(t, err)
}

func TestParse_EmptyFile(t *testing.T) {
	got, err := Parse([]byte("  \n"), FormatYAML)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFile_LoadPicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watchlist.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	got, err := NewFile(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestFile_LoadMissing(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background())
	require.Error(t, err)
	require.Equal(t, "io_error", ports.ErrorCode(err))
}
