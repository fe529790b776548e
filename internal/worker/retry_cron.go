package worker

// Background goroutine that moves due entries from the retry ZSET back onto
// the live email queue. Skips ticks while the SMTP circuit breaker is open
// so retries don't hammer a downed relay.

import (
	"context"
	"strconv"
	"time"

	"shalom/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// StartRetryCron launches a goroutine that ticks every 30s and promotes due
// retry jobs. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				promoteDueRetries(ctx, rdb, cb)
			}
		}
	}()
}

func promoteDueRetries(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	if cb.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := strconv.FormatInt(time.Now().Unix(), 10)
	due, err := rdb.ZRangeByScore(ctx, QueueEmailRetry, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   now,
		Count: retryBatchSize,
	}).Result()
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query retry queue")
		return
	}
	if len(due) == 0 {
		return
	}

	for _, raw := range due {
		// Remove first so a crash cannot double-enqueue.
		removed, err := rdb.ZRem(ctx, QueueEmailRetry, raw).Result()
		if err != nil || removed == 0 {
			continue
		}
		if err := rdb.LPush(ctx, QueueEmail, raw).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-enqueue job")
		}
	}
	log.Info().Int("count", len(due)).Msg("retry_cron: promoted due retries")
}
