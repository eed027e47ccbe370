package app

import (
	"context"
	"time"

	pkgcron "github.com/leadforge/site/internal/pkg/cron"
	"github.com/leadforge/site/internal/pkg/session"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func (a *App) registerCronJobs(s *services) {
	cronLogger := a.logger.Named("cron")
	ttl := a.cfg.Generator.RunTTL

	a.sched.Register(pkgcron.Job{
		Name:        "sweep_generation_runs",
		Description: "Drop abandoned and finished generation runs",
		Interval:    10 * time.Minute,
		Fn: func(ctx context.Context) error {
			if n := s.runs.Sweep(ttl); n > 0 {
				cronLogger.Info("swept generation runs", zap.Int("removed", n), zap.Int("remaining", s.runs.Len()))
			}
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "purge_sessions",
		Description: "Delete sessions that expired or were revoked over a week ago",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := session.PurgeExpired(a.db.WithContext(ctx), time.Now().AddDate(0, 0, -7))
			if err != nil {
				return err
			}
			cronLogger.Info("purged sessions", zap.Int64("deleted", n))
			return nil
		},
	})
}
