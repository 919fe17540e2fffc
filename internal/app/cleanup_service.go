package app

import (
	"context"
	"fmt"
	"time"

	"cpghub_cleanup/internal/domain/job"
	"cpghub_cleanup/internal/domain/mail"
	"cpghub_cleanup/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Result is the run summary returned to the trigger. It is never persisted.
type Result struct {
	RunID      string   `json:"-"`
	Processed  int      `json:"processed"`
	EmailsSent int      `json:"emailsSent"`
	Deleted    int      `json:"deleted"`
	Errors     []string `json:"errors"`
}

// Claimer reserves a job for the current run so overlapping runs do not both notify.
// Claim returns false when another run already holds the job.
type Claimer interface {
	Claim(ctx context.Context, jobID, runID string) (bool, error)
}

// CleanupRunner is the operation exposed to triggers (HTTP, cron, Telegram).
type CleanupRunner interface {
	Run(ctx context.Context) (*Result, error)
}

// Options configures the cleanup service.
type Options struct {
	Jobs      job.Repository
	Profiles  profile.Repository
	Mailer    mail.Mailer
	FromEmail string
	Claimer   Claimer // optional
	Logger    *logrus.Entry
	Now       func() time.Time
}

// CleanupService removes expired job postings and notifies their posters.
type CleanupService struct {
	jobs      job.Repository
	profiles  profile.Repository
	mailer    mail.Mailer
	fromEmail string
	claimer   Claimer
	logger    *logrus.Entry
	now       func() time.Time
}

var _ CleanupRunner = (*CleanupService)(nil)

func NewCleanupService(opts Options) *CleanupService {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &CleanupService{
		jobs:      opts.Jobs,
		profiles:  opts.Profiles,
		mailer:    opts.Mailer,
		fromEmail: opts.FromEmail,
		claimer:   opts.Claimer,
		logger:    logger,
		now:       now,
	}
}

// Run performs one sequential pass over the expired postings. The returned
// error is non-nil only when the expired list could not be fetched; item
// failures are collected in Result.Errors.
func (s *CleanupService) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := s.logger.WithField("run_id", runID)

	cutoff := job.Cutoff(s.now())
	log.WithField("cutoff", cutoff.UTC().Format(time.RFC3339)).Info("Starting expired job cleanup")

	jobs, err := s.jobs.FetchExpired(ctx, cutoff)
	if err != nil {
		log.WithError(err).Error("Failed to fetch expired jobs")
		return nil, fmt.Errorf("fetch expired jobs: %w", err)
	}
	log.WithField("count", len(jobs)).Info("Fetched expired jobs")

	result := &Result{RunID: runID, Errors: []string{}}
	for _, j := range jobs {
		result.Processed++
		jobLog := log.WithFields(logrus.Fields{"job_id": j.ID, "poster_id": j.PosterID})

		if !s.claim(ctx, jobLog, j.ID, runID) {
			continue
		}

		emailed, err := s.processJob(ctx, jobLog, j)
		if emailed {
			result.EmailsSent++
		}
		if err != nil {
			jobLog.WithError(err).Error("Error processing expired job")
			result.Errors = append(result.Errors, fmt.Sprintf("Error processing job %s: %s", j.ID, err.Error()))
			continue
		}
		result.Deleted++
	}

	log.WithFields(logrus.Fields{
		"processed":   result.Processed,
		"emails_sent": result.EmailsSent,
		"deleted":     result.Deleted,
		"errors":      len(result.Errors),
	}).Info("Expired job cleanup finished")
	return result, nil
}

// processJob notifies the poster and deletes the posting. A failed send
// returns before the delete, so the posting is retried on the next run.
func (s *CleanupService) processJob(ctx context.Context, log *logrus.Entry, j job.Posting) (bool, error) {
	user := s.resolvePoster(ctx, log, j.PosterID)

	emailed := false

	if user.HasEmail() {
		msg, err := buildRemovalNotice(s.fromEmail, user, j.JobTitle)
		if err != nil {
			return false, err
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return false, err
		}
		emailed = true
		log.Info("Removal notice sent")
	} else {
		log.Warn("No email on file for poster, skipping removal notice")
	}

	if err := s.jobs.Delete(ctx, j.ID); err != nil {
		return emailed, err
	}
	log.Info("Expired job deleted")
	return emailed, nil
}

// resolvePoster never fails: lookup errors are logged and treated as "no profile".
func (s *CleanupService) resolvePoster(ctx context.Context, log *logrus.Entry, posterID string) *profile.UserProfile {
	user, err := s.profiles.GetByUserID(ctx, posterID)
	if err != nil {
		log.WithError(err).Error("Failed to fetch poster profile")
		return nil
	}
	if user == nil {
		log.Warn("Poster profile not found")
	}
	return user
}

// claim reports whether the job should be processed by this run. Claim errors
// fall back to processing the job.
func (s *CleanupService) claim(ctx context.Context, log *logrus.Entry, jobID, runID string) bool {
	if s.claimer == nil {
		return true
	}
	ok, err := s.claimer.Claim(ctx, jobID, runID)
	if err != nil {
		log.WithError(err).Warn("Failed to claim job, processing without claim")
		return true
	}
	if !ok {
		log.Info("Job already claimed by another run, skipping")
	}
	return ok
}
