package accounts

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/store"
)

// CleanupJob periodically clears reset-token state whose expiry has
// passed. Expired tokens are already rejected at consumption time; the
// job only keeps stale secrets from lingering in the database.
type CleanupJob struct {
	users  store.UserStore
	logger *observability.Logger
	cron   *cron.Cron
}

// NewCleanupJob creates the job. Call Start to begin the schedule.
func NewCleanupJob(users store.UserStore, logger *observability.Logger) *CleanupJob {
	return &CleanupJob{
		users:  users,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start schedules the cleanup on the given cron spec (e.g. "@hourly")
// and runs one sweep immediately.
func (j *CleanupJob) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return err
	}
	j.cron.Start()
	go j.run()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *CleanupJob) Stop() {
	<-j.cron.Stop().Done()
}

func (j *CleanupJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := j.users.ClearExpiredResetTokens(ctx, time.Now())
	if err != nil {
		j.logger.WithError(err).Error("reset token cleanup failed")
		return
	}
	if n > 0 {
		j.logger.WithField("cleared", n).Info("cleared expired reset tokens")
	}
}
