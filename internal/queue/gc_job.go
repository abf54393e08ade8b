package queue

import (
	"time"

	"github.com/rs/zerolog"
)

// GCJob prunes finished jobs that passed the retention window. It is
// registered with the cron scheduler.
type GCJob struct {
	manager   *Manager
	retention time.Duration
	log       zerolog.Logger
}

// NewGCJob creates a job-history garbage collection job.
func NewGCJob(manager *Manager, retention time.Duration, log zerolog.Logger) *GCJob {
	return &GCJob{
		manager:   manager,
		retention: retention,
		log:       log.With().Str("job", "job_gc").Logger(),
	}
}

// Run removes finished jobs older than the retention window.
func (j *GCJob) Run() error {
	removed := j.manager.DeleteFinished(j.retention)
	if removed > 0 {
		j.log.Info().Int("removed", removed).Msg("Job history pruned")
	}
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *GCJob) Name() string {
	return "job_gc"
}
