package cron

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"godsendjoseph.dev/edu-connect/internal/cache"
	"godsendjoseph.dev/edu-connect/internal/toast"
)

const CacheHealthJob = "cache-health"

// JobManager holds all available cron jobs
type JobManager struct {
	logger *zap.SugaredLogger
	cache  *cache.Client
	toasts *toast.Channel
}

func NewJobManager(logger *zap.SugaredLogger, c *cache.Client, toasts *toast.Channel) *JobManager {
	return &JobManager{
		logger: logger,
		cache:  c,
		toasts: toasts,
	}
}

// Register adds the manager's jobs to s.
func (j *JobManager) Register(s *Scheduler) {
	s.Custom(CacheHealthJob, "*/5 * * * *", j.CacheHealthCheck())
}

// CacheHealthCheck pings the cache and raises a warning toast when it is
// enabled but unreachable.
func (j *JobManager) CacheHealthCheck() func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := j.cache.Ping(ctx)
		if err == nil || errors.Is(err, cache.ErrDisabled) {
			return
		}

		j.logger.Errorw("cache health check failed", "error", err)
		j.toasts.Publish(toast.New(toast.Warning, "Cache unavailable", "Cached data may be stale until the cache recovers."))
	}
}
