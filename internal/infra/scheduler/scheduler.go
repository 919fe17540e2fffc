package scheduler

import (
	"context"
	"fmt"
	"time"

	"cpghub_cleanup/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RunReporter receives the outcome of every scheduled run.
type RunReporter interface {
	ReportRun(source string, result *app.Result, runErr error)
}

type CleanupScheduler struct {
	cronEngine *cron.Cron
	runner     app.CleanupRunner
	reporter   RunReporter // optional
	logger     *logrus.Entry
	cronSpec   string
}

func NewCleanupScheduler(
	runner app.CleanupRunner,
	reporter RunReporter,
	logger *logrus.Entry,
	cronSpec string, // e.g., "0 3 * * *" (03:00 daily)
) *CleanupScheduler {
	return &CleanupScheduler{
		// SkipIfStillRunning keeps a slow run from overlapping the next tick.
		cronEngine: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		runner:   runner,
		reporter: reporter,
		logger:   logger,
		cronSpec: cronSpec,
	}
}

// Start registers the cleanup job and starts the cron engine.
func (s *CleanupScheduler) Start() error {
	s.logger.WithField("cron_spec", s.cronSpec).Info("Starting cleanup scheduler")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for expired job cleanup")
		s.runOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("could not add cleanup cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.Info("Cleanup scheduler started")
	return nil
}

// runOnce executes one batch. No deadline is applied: the batch runs over its
// whole fetched list and relies on the HTTP client timeouts.
func (s *CleanupScheduler) runOnce(ctx context.Context) {
	result, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled cleanup failed")
	} else {
		s.logger.WithFields(logrus.Fields{
			"run_id":      result.RunID,
			"processed":   result.Processed,
			"emails_sent": result.EmailsSent,
			"deleted":     result.Deleted,
			"errors":      len(result.Errors),
		}).Info("Scheduled cleanup completed")
	}

	if s.reporter != nil {
		s.reporter.ReportRun("scheduled", result, err)
	}
}

// Stop stops the engine and waits for a running job to finish.
func (s *CleanupScheduler) Stop() {
	s.logger.Info("Stopping cleanup scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Cleanup scheduler gracefully stopped")
}
