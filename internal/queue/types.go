// Package queue implements the in-process background job system used
// for asynchronous simulations.
package queue

import "time"

// JobType represents the type of job
type JobType string

const (
	JobTypeSimulation JobType = "simulation"
)

// Priority represents job priority
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// Status is the lifecycle state of a job. Cancellation is only
// possible while a job is still pending; a processing job runs to
// completion.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Task is the unit of work a job executes.
type Task func() (interface{}, error)

// Job represents a queued job and its outcome.
type Job struct {
	ID          string      `json:"job_id"`
	Type        JobType     `json:"type"`
	Description string      `json:"description"`
	Priority    Priority    `json:"-"`
	Status      Status      `json:"status"`
	Result      interface{} `json:"result,omitempty"`
	Error       string      `json:"error,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`

	task Task
}

// Stats summarizes queue state for monitoring endpoints.
type Stats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Cancelled  int `json:"cancelled"`
	Total      int `json:"total"`
	Workers    int `json:"workers"`
}

// GetJobDescription returns a human-readable description for a job type
func GetJobDescription(jobType JobType) string {
	switch jobType {
	case JobTypeSimulation:
		return "Running step-by-step circuit simulation"
	default:
		return string(jobType)
	}
}
