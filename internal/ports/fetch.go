package ports

import (
	"context"

	"github.com/Guilhem-Bonnet/showwatch/internal/domain"
)

// DateExtractor isole le parsing du HTML de la page de séances.
type DateExtractor interface {
	Extract(html []byte) ([]string, error)
}

type DateFetcher interface {
	// FetchDates renvoie les dates distinctes, triées, listées pour baseURL à partir de today.
	FetchDates(ctx context.Context, baseURL string, today domain.ShowDate) ([]domain.ShowDate, error)
}
