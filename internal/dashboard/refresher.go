package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Refresher periodically re-fetches tracked subreddits whose cache has gone
// stale. Failures are logged and retried on the next tick.
type Refresher struct {
	manager       *Manager
	logger        *log.Logger
	checkInterval time.Duration
}

func NewRefresher(mgr *Manager, logger *log.Logger, checkIntervalSeconds int) *Refresher {
	return &Refresher{
		manager:       mgr,
		logger:        logger,
		checkInterval: time.Duration(checkIntervalSeconds) * time.Second,
	}
}

func (r *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.checkInterval)
	defer ticker.Stop()

	r.logger.Info("refresher started", "interval", r.checkInterval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopped")
			return
		case <-ticker.C:
			r.checkAndRefresh(ctx)
		}
	}
}

func (r *Refresher) checkAndRefresh(ctx context.Context) {
	subs, err := r.manager.ListTracked()
	if err != nil {
		r.logger.Error("failed to load subreddits", "error", err)
		return
	}

	now := time.Now()

	for i := range subs {
		elapsed := now.Sub(subs[i].LastRefreshAt)
		if elapsed < r.checkInterval {
			continue
		}

		r.logger.Info("subreddit needs refresh", "subreddit", subs[i].Name, "elapsed", elapsed)
		if err := r.manager.Refresh(ctx, &subs[i]); err != nil {
			r.logger.Error("failed to refresh subreddit", "subreddit", subs[i].Name, "error", err)
		}
	}
}
