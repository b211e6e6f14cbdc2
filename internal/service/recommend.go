package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/actuallystonmai/meal-recommendation-service/internal/cache"
	"github.com/actuallystonmai/meal-recommendation-service/internal/catalog"
	"github.com/actuallystonmai/meal-recommendation-service/internal/domain"
	"github.com/actuallystonmai/meal-recommendation-service/internal/engine"
	"github.com/actuallystonmai/meal-recommendation-service/internal/metrics"
)

// RecommendForProfile ranks meals for a caller supplied flavor profile.
func (s *Service) RecommendForProfile(ctx context.Context, profile domain.Profile, exclude []string, limit int) (*domain.RecommendationResult, error) {
	limit = s.normalizeLimit(limit)
	if err := engine.ValidateProfile(profile); err != nil {
		return nil, err
	}

	key := func(version int64) string { return cache.ProfileKey(version, profile, exclude, limit) }
	return s.recommend(ctx, limit, key, func() (domain.Profile, []string, error) {
		return profile, exclude, nil
	})
}

// RecommendForUser ranks meals using the user's stored likes and dislikes and
// never returns a meal containing one of the user's allergens.
func (s *Service) RecommendForUser(ctx context.Context, userID int64, limit int) (*domain.RecommendationResult, error) {
	limit = s.normalizeLimit(limit)

	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	key := func(version int64) string { return cache.UserKey(version, userID, limit) }
	return s.recommend(ctx, limit, key, func() (domain.Profile, []string, error) {
		prefs, err := s.store.GetUserPreferences(ctx, userID)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch preferences: %w", err)
		}
		allergies, err := s.store.GetUserAllergies(ctx, userID)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch allergies: %w", err)
		}
		return s.profileFor(prefs), allergies, nil
	})
}

// profileFor turns likes and dislikes into a weighted profile.
func (s *Service) profileFor(prefs *domain.Preferences) domain.Profile {
	profile := make(domain.Profile, 0, len(prefs.Likes)+len(prefs.Dislikes))
	for _, name := range prefs.Likes {
		profile = append(profile, domain.ProfileEntry{Ingredient: name, Weight: s.opts.LikeWeight})
	}
	for _, name := range prefs.Dislikes {
		profile = append(profile, domain.ProfileEntry{Ingredient: name, Weight: s.opts.DislikeWeight})
	}
	return profile
}

// recommend serves from cache for the current index version, and only on a
// miss asks input for the profile and ranks.
func (s *Service) recommend(ctx context.Context, limit int, key func(int64) string,
	input func() (domain.Profile, []string, error),
) (*domain.RecommendationResult, error) {
	snap := s.engine.Snapshot()
	if snap == nil {
		return nil, domain.ErrIndexNotReady
	}

	if recs, ok := s.cacheGet(ctx, key(snap.Version)); ok {
		return &domain.RecommendationResult{Recommendations: recs, CacheHit: true, IndexVersion: snap.Version}, nil
	}

	profile, exclude, err := input()
	if err != nil {
		return nil, err
	}

	recs, version, err := s.engine.RecommendExcluding(profile, exclude, limit)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key(version), recs)

	return &domain.RecommendationResult{Recommendations: recs, CacheHit: false, IndexVersion: version}, nil
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]domain.RankedMeal, bool) {
	if s.cache == nil {
		return nil, false
	}
	recs, found, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheErrors.WithLabelValues("get").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return nil, false
	}
	if !found {
		metrics.CacheMisses.Inc()
		return nil, false
	}
	metrics.CacheHits.Inc()
	return recs, true
}

func (s *Service) cacheSet(ctx context.Context, key string, recs []domain.RankedMeal) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, recs); err != nil {
		metrics.CacheErrors.WithLabelValues("set").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// RecommendBatch generates per-user recommendations for one page of users.
func (s *Service) RecommendBatch(ctx context.Context, page, limit int) (*domain.BatchResponse, error) {
	start := time.Now()

	users, err := s.store.ListUsers(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}

	totalUsers, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	// Process users concurrently with bounded worker pool
	results := make([]domain.BatchUserResult, len(users))
	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, u := range users {
		g.Go(func() error {
			results[i] = s.processUserForBatch(ctx, u.ID)
			return nil
		})
	}
	_ = g.Wait()

	successCount := 0
	failedCount := 0
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			successCount++
		} else {
			failedCount++
		}
	}

	return &domain.BatchResponse{
		Page:       page,
		Limit:      limit,
		TotalUsers: totalUsers,
		Results:    results,
		Summary: domain.BatchSummary{
			SuccessCount:     successCount,
			FailedCount:      failedCount,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		},
		Metadata: domain.BatchMeta{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// Generates recommendations for a single user, capturing errors.
func (s *Service) processUserForBatch(ctx context.Context, userID int64) domain.BatchUserResult {
	result, err := s.RecommendForUser(ctx, userID, batchRecLimit)
	if err != nil {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("batch recommendation failed")
		code, msg := categorizeError(err)
		return domain.BatchUserResult{
			UserID:  userID,
			Status:  domain.StatusFailed,
			Error:   code,
			Message: msg,
		}
	}

	return domain.BatchUserResult{
		UserID:          userID,
		Recommendations: result.Recommendations,
		Status:          domain.StatusSuccess,
	}
}

// UpdatePreferences replaces a user's likes and dislikes and clears the
// user's cached recommendations. Names are canonicalized and deduplicated.
func (s *Service) UpdatePreferences(ctx context.Context, userID int64, prefs domain.Preferences) (*domain.Preferences, error) {
	clean, err := normalizePreferences(prefs)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.store.ReplacePreferences(ctx, userID, *clean); err != nil {
		return nil, fmt.Errorf("replace preferences: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.ClearUserCache(ctx, userID); err != nil {
			metrics.CacheErrors.WithLabelValues("clear").Inc()
			s.logger.Warn().Err(err).Int64("user_id", userID).Msg("cache invalidation failed")
		}
	}
	return clean, nil
}

func normalizePreferences(prefs domain.Preferences) (*domain.Preferences, error) {
	likes := dedupe(prefs.Likes)
	dislikes := dedupe(prefs.Dislikes)

	liked := make(map[string]struct{}, len(likes))
	for _, name := range likes {
		liked[name] = struct{}{}
	}
	for _, name := range dislikes {
		if _, ok := liked[name]; ok {
			return nil, domain.NewInvalidInput("preferences", fmt.Sprintf("%q is both liked and disliked", name))
		}
	}
	return &domain.Preferences{Likes: likes, Dislikes: dislikes}, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := catalog.Canonicalize(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
