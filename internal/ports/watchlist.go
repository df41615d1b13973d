package ports

import (
	"context"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
)

type WatchlistSource interface {
	Load(ctx context.Context) ([]domain.Watcher, error)
}
