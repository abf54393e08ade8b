package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrJobNotFound is returned when a job ID is unknown.
var ErrJobNotFound = errors.New("job not found")

// ErrNotCancellable is returned when cancellation is requested for a
// job that already left the pending state.
var ErrNotCancellable = errors.New("job is no longer pending")

const queueCapacity = 256

// Manager runs background jobs on a fixed pool of worker goroutines.
// Jobs are dispatched by priority: workers drain the high channel
// before medium, and medium before low.
type Manager struct {
	workers int
	log     zerolog.Logger

	mu   sync.RWMutex
	jobs map[string]*Job

	high   chan *Job
	medium chan *Job
	low    chan *Job
	stop   chan struct{}
	wg     sync.WaitGroup

	started bool
	stopped bool
}

// NewManager creates a job manager with the given worker count.
func NewManager(workers int, log zerolog.Logger) *Manager {
	if workers < 1 {
		workers = 1
	}
	return &Manager{
		workers: workers,
		log:     log.With().Str("component", "job_queue").Logger(),
		jobs:    make(map[string]*Job),
		high:    make(chan *Job, queueCapacity),
		medium:  make(chan *Job, queueCapacity),
		low:     make(chan *Job, queueCapacity),
		stop:    make(chan struct{}),
	}
}

// Start launches the worker goroutines.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started && !m.stopped {
		m.log.Warn().Msg("Job queue already started, ignoring")
		return
	}
	if m.stopped {
		m.stop = make(chan struct{})
		m.stopped = false
	}
	m.started = true

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}
	m.log.Info().Int("workers", m.workers).Msg("Job queue started")
}

// Stop signals all workers to finish and waits for them. In-flight
// jobs run to completion; queued jobs stay pending.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	close(m.stop)
	m.stopped = true
	m.started = false
	m.mu.Unlock()

	m.wg.Wait()
	m.log.Info().Msg("Job queue stopped")
}

// Submit registers a new job and enqueues it. Returns the job ID.
func (m *Manager) Submit(jobType JobType, priority Priority, task Task) (string, error) {
	job := &Job{
		ID:          uuid.New().String(),
		Type:        jobType,
		Description: GetJobDescription(jobType),
		Priority:    priority,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
		task:        task,
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	var ch chan *Job
	switch priority {
	case PriorityHigh:
		ch = m.high
	case PriorityLow:
		ch = m.low
	default:
		ch = m.medium
	}

	select {
	case ch <- job:
	default:
		m.mu.Lock()
		delete(m.jobs, job.ID)
		m.mu.Unlock()
		return "", errors.New("job queue is full")
	}

	m.log.Debug().
		Str("job_id", job.ID).
		Str("type", string(jobType)).
		Msg("Job enqueued")
	return job.ID, nil
}

// Get returns a snapshot of the job with the given ID.
func (m *Manager) Get(id string) (Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return *job, nil
}

// Cancel marks a pending job cancelled. Processing and finished jobs
// cannot be cancelled.
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.Status != StatusPending {
		return ErrNotCancellable
	}

	now := time.Now()
	job.Status = StatusCancelled
	job.CompletedAt = &now
	m.log.Info().Str("job_id", id).Msg("Job cancelled")
	return nil
}

// Stats returns per-status job counts.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{Workers: m.workers, Total: len(m.jobs)}
	for _, job := range m.jobs {
		switch job.Status {
		case StatusPending:
			stats.Pending++
		case StatusProcessing:
			stats.Processing++
		case StatusCompleted:
			stats.Completed++
		case StatusFailed:
			stats.Failed++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// DeleteFinished removes completed, failed and cancelled jobs older
// than the retention window. Returns the number removed.
func (m *Manager) DeleteFinished(retention time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-retention)
	removed := 0
	for id, job := range m.jobs {
		if job.CompletedAt == nil {
			continue
		}
		switch job.Status {
		case StatusCompleted, StatusFailed, StatusCancelled:
			if job.CompletedAt.Before(cutoff) {
				delete(m.jobs, id)
				removed++
			}
		}
	}

	if removed > 0 {
		m.log.Info().Int("removed", removed).Msg("Cleaned up finished jobs")
	}
	return removed
}

func (m *Manager) worker(id int) {
	defer m.wg.Done()
	log := m.log.With().Int("worker", id).Logger()

	for {
		// Drain priorities in order; fall through to a blocking select
		// only when every queue is empty.
		select {
		case <-m.stop:
			return
		case job := <-m.high:
			m.execute(job, log)
			continue
		default:
		}

		select {
		case <-m.stop:
			return
		case job := <-m.high:
			m.execute(job, log)
		case job := <-m.medium:
			m.execute(job, log)
		case job := <-m.low:
			m.execute(job, log)
		}
	}
}

func (m *Manager) execute(job *Job, log zerolog.Logger) {
	m.mu.Lock()
	if job.Status != StatusPending {
		// Cancelled while queued
		m.mu.Unlock()
		return
	}
	now := time.Now()
	job.Status = StatusProcessing
	job.StartedAt = &now
	m.mu.Unlock()

	log.Debug().Str("job_id", job.ID).Str("type", string(job.Type)).Msg("Job started")

	result, err := job.task()

	m.mu.Lock()
	done := time.Now()
	job.CompletedAt = &done
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
	} else {
		job.Status = StatusCompleted
		job.Result = result
	}
	m.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("Job failed")
	} else {
		log.Debug().
			Str("job_id", job.ID).
			Dur("duration_ms", done.Sub(now)).
			Msg("Job completed")
	}
}
