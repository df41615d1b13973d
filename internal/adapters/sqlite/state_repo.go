package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
)

const metaKey = "default"

// StateRepository est l'alternative SQLite au fichier d'état (STATE_BACKEND=sqlite).
type StateRepository struct {
	db *sql.DB
}

func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

func (r *StateRepository) Load(ctx context.Context) (domain.State, error) {
	st := domain.NewState()

	rows, err := r.db.QueryContext(ctx, `SELECT watcher_id, last_max_date FROM watcher_state`)
	if err != nil {
		return domain.State{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, last string
		if err := rows.Scan(&id, &last); err != nil {
			return domain.State{}, err
		}
		st.Watchers[id] = domain.WatcherState{LastMaxDate: last}
	}
	if err := rows.Err(); err != nil {
		return domain.State{}, err
	}

	var b []byte
	err = r.db.QueryRowContext(ctx, `SELECT value_json FROM meta WHERE key = ?`, metaKey).Scan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return st, nil
		}
		return domain.State{}, err
	}
	if err := json.Unmarshal(b, &st.Meta); err != nil {
		// Métadonnées corrompues: on repart de zéro (au pire un heartbeat en double).
		st.Meta = domain.Meta{}
	}
	return st, nil
}

// Save écrit l'état complet dans une transaction. Les entrées absentes de st
// ne sont pas supprimées.
func (r *StateRepository) Save(ctx context.Context, st domain.State) error {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for id, ws := range st.Watchers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO watcher_state(watcher_id, last_max_date, updated_at)
			VALUES(?, ?, ?)
			ON CONFLICT(watcher_id) DO UPDATE SET last_max_date = excluded.last_max_date, updated_at = excluded.updated_at
			WHERE watcher_state.last_max_date <> excluded.last_max_date
		`, id, ws.LastMaxDate, now)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	b, err := json.Marshal(st.Meta)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO meta(key, value_json, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at
	`, metaKey, b, now)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
