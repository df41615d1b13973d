package ports

import (
	"context"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
)

// StateStore charge/sauve l'état complet. Load renvoie un état vide (pas d'erreur)
// si rien n'a encore été persisté.
type StateStore interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
}

// StatePersister publie l'état sauvegardé hors du process (ex: commit git).
// Best-effort: les erreurs sont loggées par l'appelant, jamais fatales.
type StatePersister interface {
	Persist(ctx context.Context) error
}
