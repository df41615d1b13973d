package statefile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
	"github.com/Guilhem-Bonnet/showwatch/internal/ports"
)

// Store persiste l'état dans un fichier JSON indenté (clés triées, donc diff
// git lisible et stable d'un run à l'autre).
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Load(ctx context.Context) (domain.State, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Premier run.
			return domain.NewState(), nil
		}
		return domain.State{}, &ports.CodedError{Code: "io_error", Message: "read state " + s.path, Err: err}
	}
	if len(b) == 0 {
		return domain.NewState(), nil
	}
	var st domain.State
	if err := json.Unmarshal(b, &st); err != nil {
		return domain.State{}, &ports.CodedError{Code: "invalid_state", Message: "decode state " + s.path, Err: err}
	}
	return st, nil
}

func (s *Store) Save(ctx context.Context, st domain.State) error {
	b, err := Encode(st)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ports.CodedError{Code: "io_error", Message: "create state dir", Err: err}
	}

	// Écriture atomique: fichier temporaire dans le même dossier puis rename.
	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return &ports.CodedError{Code: "io_error", Message: "create temp state", Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return &ports.CodedError{Code: "io_error", Message: "write state", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &ports.CodedError{Code: "io_error", Message: "sync state", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &ports.CodedError{Code: "io_error", Message: "close state", Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &ports.CodedError{Code: "io_error", Message: "chmod state", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &ports.CodedError{Code: "io_error", Message: "rename state", Err: err}
	}
	return nil
}

// Encode produit la forme exacte écrite sur disque.
func Encode(st domain.State) ([]byte, error) {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
