package service

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
	"github.com/actuallystonmai/meal-recommendation-service/internal/metrics"
)

// Reload rebuilds the index from the repository and drops cached results.
func (s *Service) Reload(ctx context.Context) (*domain.IndexStats, error) {
	snap, err := s.engine.Reload(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.ClearAll(ctx); err != nil {
			metrics.CacheErrors.WithLabelValues("clear").Inc()
			s.logger.Warn().Err(err).Msg("cache clear after reload failed")
		}
	}

	stats := snap.IndexStats()
	return &stats, nil
}

// Repopulate reseeds the corpus tables when a seeder is configured, then reloads.
func (s *Service) Repopulate(ctx context.Context) (*domain.IndexStats, error) {
	if s.opts.Seed != nil {
		if err := s.opts.Seed(ctx); err != nil {
			return nil, fmt.Errorf("reseed corpus: %w", err)
		}
	}
	return s.Reload(ctx)
}

// ClearCorpus deletes every meal and ingredient and publishes the empty index.
func (s *Service) ClearCorpus(ctx context.Context) (*domain.IndexStats, error) {
	if err := s.store.ClearCorpus(ctx); err != nil {
		return nil, fmt.Errorf("clear corpus: %w", err)
	}
	return s.Reload(ctx)
}

func (s *Service) IndexStats() (*domain.IndexStats, error) {
	snap := s.engine.Snapshot()
	if snap == nil {
		return nil, domain.ErrIndexNotReady
	}
	stats := snap.IndexStats()
	return &stats, nil
}

type HealthStatus struct {
	Status       string `json:"status"`
	Database     string `json:"database"`
	DBVersion    string `json:"db_version,omitempty"`
	Cache        string `json:"cache"`
	IndexVersion int64  `json:"index_version"`
}

// Health pings the database and cache and reports the database server
// version. Status is "ok" only when both answer and an index is published.
func (s *Service) Health(ctx context.Context) HealthStatus {
	h := HealthStatus{Status: "ok", Database: "ok", Cache: "ok"}

	if err := s.store.Ping(ctx); err != nil {
		h.Status, h.Database = "degraded", "unavailable"
	} else if version, err := s.store.ServerVersion(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("database version lookup failed")
	} else {
		h.DBVersion = version
	}
	if s.cache == nil {
		h.Cache = "disabled"
	} else if err := s.cache.Ping(ctx); err != nil {
		h.Status, h.Cache = "degraded", "unavailable"
	}
	if snap := s.engine.Snapshot(); snap != nil {
		h.IndexVersion = snap.Version
	} else {
		h.Status = "degraded"
	}
	return h
}
