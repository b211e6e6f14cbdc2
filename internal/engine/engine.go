// Package engine ranks meals against a weighted ingredient profile.
//
// The engine reads an immutable Snapshot (catalog, inverted index and meal
// metadata) through an atomic pointer. Ranking passes never mutate shared
// state and run in parallel; Reload builds a complete new snapshot and swaps
// the pointer, so readers see either the old or the new snapshot in full.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
	"github.com/actuallystonmai/meal-recommendation-service/internal/metrics"
)

// Engine is safe for concurrent use.
type Engine struct {
	current  atomic.Pointer[Snapshot]
	reloadMu sync.Mutex
	logger   zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(logger zerolog.Logger) *Engine {
	return &Engine{
		logger: logger.With().Str("component", "engine").Logger(),
	}
}

// Snapshot returns the published snapshot, or nil before the first load.
func (e *Engine) Snapshot() *Snapshot {
	return e.current.Load()
}

// Swap publishes snap with the next version number and returns the snapshot it replaced.
func (e *Engine) Swap(snap *Snapshot) *Snapshot {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()
	return e.swapLocked(snap)
}

func (e *Engine) swapLocked(snap *Snapshot) *Snapshot {
	prev := e.current.Load()
	snap.Version = 1
	if prev != nil {
		snap.Version = prev.Version + 1
	}
	e.current.Store(snap)
	return prev
}

// Reload loads the corpus and swaps in the resulting snapshot. Reloads are
// serialized. On error the published snapshot is left untouched.
func (e *Engine) Reload(ctx context.Context, loader *Loader) (*Snapshot, error) {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	start := time.Now()
	snap, err := loader.Load(ctx)
	if err != nil {
		metrics.IndexBuildErrors.Inc()
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	e.swapLocked(snap)
	took := time.Since(start)

	metrics.RecordIndex(snap.Version, snap.Catalog.Len(), snap.Index.MealCount(),
		snap.Index.PostingCount(), snap.Stats.SkippedTokens, took)

	e.logger.Info().
		Int64("version", snap.Version).
		Int("ingredients", snap.Catalog.Len()).
		Int("meals", snap.Index.MealCount()).
		Int("postings", snap.Index.PostingCount()).
		Int("skipped_tokens", snap.Stats.SkippedTokens).
		Dur("took", took).
		Msg("index snapshot swapped")

	return snap, nil
}

// Recommend ranks meals against profile; see Snapshot.Rank.
func (e *Engine) Recommend(profile domain.Profile, topK int) ([]domain.RankedMeal, error) {
	recs, _, err := e.RecommendExcluding(profile, nil, topK)
	return recs, err
}

// RecommendExcluding ranks meals against profile, dropping meals that contain
// any of the excluded ingredients. It also returns the snapshot version used.
func (e *Engine) RecommendExcluding(profile domain.Profile, exclude []string, topK int) ([]domain.RankedMeal, int64, error) {
	snap := e.current.Load()
	if snap == nil {
		metrics.RecommendRequests.WithLabelValues("not_ready").Inc()
		return nil, 0, domain.ErrIndexNotReady
	}

	start := time.Now()
	recs, err := snap.Rank(profile, exclude, topK)
	if err != nil {
		metrics.RecommendRequests.WithLabelValues("invalid_input").Inc()
		return nil, snap.Version, err
	}
	metrics.RecommendRequests.WithLabelValues("ok").Inc()
	metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	metrics.RecommendResults.Observe(float64(len(recs)))

	return recs, snap.Version, nil
}
