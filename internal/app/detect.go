package app

import "github.com/Guilhem-Bonnet/showwatch/internal/domain"

type Decision string

const (
	// DecisionSkip: aucune date listée, rien à comparer.
	DecisionSkip Decision = "skip"
	// DecisionSeed: premier passage pour ce watcher, on enregistre sans notifier.
	DecisionSeed Decision = "seed"
	// DecisionNotify: nouvelle date max strictement plus récente.
	DecisionNotify Decision = "notify"
	// DecisionUnchanged: date max égale ou antérieure, aucune action.
	DecisionUnchanged Decision = "unchanged"
)

// Detect compare la date max trouvée à la dernière date max connue.
// found doit être trié (cf. domain.SortDates).
func Detect(prev domain.ShowDate, hasPrev bool, found []domain.ShowDate) (domain.ShowDate, Decision) {
	if len(found) == 0 {
		return domain.ShowDate{}, DecisionSkip
	}
	current := found[len(found)-1]
	if !hasPrev {
		return current, DecisionSeed
	}
	if current.After(prev) {
		return current, DecisionNotify
	}
	return current, DecisionUnchanged
}
