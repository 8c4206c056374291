package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/upgradist/eduquest-backend/internal/config"
	"github.com/upgradist/eduquest-backend/internal/service"
)

// LeaderboardWorker consumes the refresh queue and recomputes cached
// leaderboards. Submissions only enqueue a test id, so a burst of submissions
// for the same test collapses into one recomputation per drain.
type LeaderboardWorker struct {
	rdb                *redis.Client
	leaderboardService *service.LeaderboardService
	log                zerolog.Logger
}

// NewLeaderboardWorker creates a new LeaderboardWorker.
func NewLeaderboardWorker(rdb *redis.Client, leaderboardService *service.LeaderboardService, log zerolog.Logger) *LeaderboardWorker {
	return &LeaderboardWorker{
		rdb:                rdb,
		leaderboardService: leaderboardService,
		log:                log.With().Str("component", "leaderboard_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *LeaderboardWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drainOnce(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *LeaderboardWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.LeaderboardRefreshQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	// Pull any queued duplicates so one burst means one recompute per test.
	pending := map[string]struct{}{result[1]: {}}
	for {
		next, err := w.rdb.LPop(ctx, config.WorkerKey.LeaderboardRefreshQueue).Result()
		if err != nil {
			break
		}
		pending[next] = struct{}{}
	}

	for raw := range pending {
		w.refresh(ctx, raw)
	}
}

func (w *LeaderboardWorker) refresh(ctx context.Context, raw string) {
	testID, err := uuid.Parse(raw)
	if err != nil {
		w.log.Error().Str("item", raw).Msg("Bad queue item, dropping")
		return
	}

	if err := w.leaderboardService.Refresh(ctx, testID); err != nil {
		w.log.Error().Err(err).
			Str("test_id", raw).
			Msg("Refresh error, retrying in 5s")
		w.rdb.RPush(ctx, config.WorkerKey.LeaderboardRefreshQueue, raw)
		time.Sleep(5 * time.Second)
		return
	}

	w.log.Debug().Str("test_id", raw).Msg("Leaderboard refreshed")
}

// drainOnce recomputes everything still queued before shutdown.
func (w *LeaderboardWorker) drainOnce(ctx context.Context) {
	drained := 0
	seen := map[string]struct{}{}
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.LeaderboardRefreshQueue).Result()
		if err != nil {
			break
		}
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}

		testID, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if err := w.leaderboardService.Refresh(ctx, testID); err != nil {
			w.log.Error().Err(err).Str("test_id", raw).Msg("Drain refresh error")
			continue
		}
		drained++
	}
	if drained > 0 {
		w.log.Info().Int("drained", drained).Msg("Drained refresh queue")
	}
}
