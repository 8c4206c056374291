package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/upgradist/eduquest-backend/internal/config"
	"github.com/upgradist/eduquest-backend/internal/model"
	"github.com/upgradist/eduquest-backend/internal/repository"
)

// LeaderboardService computes and caches the three leaderboard views. Cached
// boards are recomputed by the refresh worker after each stored attempt and
// expire on their own as a fallback.
type LeaderboardService struct {
	attemptRepo *repository.AttemptRepository
	testRepo    *repository.TestRepository
	rdb         *redis.Client
	cacheTTL    time.Duration
	log         zerolog.Logger
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	attemptRepo *repository.AttemptRepository,
	testRepo *repository.TestRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		attemptRepo: attemptRepo,
		testRepo:    testRepo,
		rdb:         rdb,
		cacheTTL:    cacheTTL,
		log:         log.With().Str("component", "leaderboard_service").Logger(),
	}
}

// ForTest returns the per-test leaderboard, ordered by score with earlier
// submissions breaking ties.
func (s *LeaderboardService) ForTest(ctx context.Context, testID uuid.UUID) ([]model.TestLeaderboardEntry, error) {
	cacheKey := config.CacheKey.TestLeaderboardKey(testID.String())

	var cached []model.TestLeaderboardEntry
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	entries, err := s.computeForTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, cacheKey, entries)
	return entries, nil
}

// Overall returns the cross-test leaderboard, ordered by accuracy then total
// score.
func (s *LeaderboardService) Overall(ctx context.Context) ([]model.OverallLeaderboardEntry, error) {
	cacheKey := config.CacheKey.OverallLeaderboardKey()

	var cached []model.OverallLeaderboardEntry
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	entries, err := s.computeOverall(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, cacheKey, entries)
	return entries, nil
}

// ForTestDetailed returns the per-test leaderboard enriched with each user's
// cross-test average and recent attempts.
func (s *LeaderboardService) ForTestDetailed(ctx context.Context, testID uuid.UUID) ([]model.DetailedLeaderboardEntry, error) {
	cacheKey := config.CacheKey.TestDetailedLeaderboardKey(testID.String())

	var cached []model.DetailedLeaderboardEntry
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	entries, err := s.computeForTestDetailed(ctx, testID)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, cacheKey, entries)
	return entries, nil
}

// Refresh recomputes and re-caches both leaderboard views for a test plus the
// overall board, then publishes the fresh per-test board to live subscribers.
// Called from the background worker after stored attempts.
func (s *LeaderboardService) Refresh(ctx context.Context, testID uuid.UUID) error {
	entries, err := s.computeForTest(ctx, testID)
	if err != nil {
		return fmt.Errorf("compute test leaderboard: %w", err)
	}
	s.writeCache(ctx, config.CacheKey.TestLeaderboardKey(testID.String()), entries)

	detailed, err := s.computeForTestDetailed(ctx, testID)
	if err != nil {
		return fmt.Errorf("compute detailed leaderboard: %w", err)
	}
	s.writeCache(ctx, config.CacheKey.TestDetailedLeaderboardKey(testID.String()), detailed)

	overall, err := s.computeOverall(ctx)
	if err != nil {
		return fmt.Errorf("compute overall leaderboard: %w", err)
	}
	s.writeCache(ctx, config.CacheKey.OverallLeaderboardKey(), overall)

	s.publish(ctx, testID, entries)
	return nil
}

// Invalidate drops the cached boards for a test and the overall board.
func (s *LeaderboardService) Invalidate(ctx context.Context, testID uuid.UUID) {
	err := s.rdb.Del(ctx,
		config.CacheKey.TestLeaderboardKey(testID.String()),
		config.CacheKey.TestDetailedLeaderboardKey(testID.String()),
		config.CacheKey.OverallLeaderboardKey(),
	).Err()
	if err != nil {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Leaderboard cache invalidation failed")
	}
}

func (s *LeaderboardService) computeForTest(ctx context.Context, testID uuid.UUID) ([]model.TestLeaderboardEntry, error) {
	if err := s.ensureTestExists(ctx, testID); err != nil {
		return nil, err
	}
	rows, err := s.attemptRepo.ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return rankTestLeaderboard(rows), nil
}

func (s *LeaderboardService) computeOverall(ctx context.Context) ([]model.OverallLeaderboardEntry, error) {
	users, err := s.attemptRepo.ListUsersWithAttempts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attempt history: %w", err)
	}
	return rankOverallLeaderboard(users), nil
}

func (s *LeaderboardService) computeForTestDetailed(ctx context.Context, testID uuid.UUID) ([]model.DetailedLeaderboardEntry, error) {
	if err := s.ensureTestExists(ctx, testID); err != nil {
		return nil, err
	}
	users, err := s.attemptRepo.ListUsersByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list attempt history: %w", err)
	}
	return rankDetailedLeaderboard(testID.String(), users), nil
}

func (s *LeaderboardService) ensureTestExists(ctx context.Context, testID uuid.UUID) error {
	if _, err := s.testRepo.GetByID(ctx, testID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTestNotFound
		}
		return fmt.Errorf("get test: %w", err)
	}
	return nil
}

// readCache reports whether dest was populated from the cache.
func (s *LeaderboardService) readCache(ctx context.Context, key string, dest any) bool {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("Leaderboard cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		_ = s.rdb.Del(ctx, key)
		return false
	}
	return true
}

func (s *LeaderboardService) writeCache(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Marshal leaderboard failed")
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Leaderboard cache write failed")
	}
}

// publish pushes the fresh per-test board onto the live channel for WebSocket
// subscribers.
func (s *LeaderboardService) publish(ctx context.Context, testID uuid.UUID, entries []model.TestLeaderboardEntry) {
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.LeaderboardChannel(testID.String()), payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Leaderboard publish failed")
	}
}
