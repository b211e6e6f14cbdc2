package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
)

const reindexTimeout = 5 * time.Minute

// Reloader rebuilds and publishes the meal index.
type Reloader interface {
	Reload(ctx context.Context) (*domain.IndexStats, error)
}

// ReindexService reloads the index on a fixed interval. A failed reload is
// logged and the previous snapshot keeps serving.
type ReindexService struct {
	reloader Reloader
	interval time.Duration
	logger   zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReindexService(reloader Reloader, interval time.Duration, logger zerolog.Logger) *ReindexService {
	return &ReindexService{
		reloader: reloader,
		interval: interval,
		logger:   logger.With().Str("service", "reindex").Logger(),
	}
}

// Serve implements suture.Service.
func (s *ReindexService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("reindex service running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.reload(ctx)
		}
	}
}

func (s *ReindexService) reload(ctx context.Context) {
	reloadCtx, cancel := context.WithTimeout(ctx, reindexTimeout)
	defer cancel()

	stats, err := s.reloader.Reload(reloadCtx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("scheduled reindex failed")
		return
	}
	s.logger.Debug().Int64("version", stats.Version).Int("meals", stats.Meals).Msg("scheduled reindex complete")
}

func (s *ReindexService) String() string {
	return "reindex-service"
}
