// Package jobs runs the ETL pipeline as queued database-backed jobs so that
// long season backfills survive restarts and report progress.
package jobs

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// JobType enumerates the supported ETL job variants.
type JobType string

const (
	JobTypePlays       JobType = "plays"
	JobTypeWeekly      JobType = "weekly"
	JobTypeSplits      JobType = "splits"
	JobTypeUsage       JobType = "usage"
	JobTypeTeamContext JobType = "team_context"
	JobTypeReference   JobType = "reference"
	JobTypeFull        JobType = "full"
)

// JobStatus represents the lifecycle state for a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job models the database representation of an ETL job.
type Job struct {
	JobID           string         `json:"job_id"`
	JobType         JobType        `json:"job_type"`
	Season          int            `json:"season"`
	Weeks           pq.Int64Array  `json:"weeks,omitempty"`
	Status          JobStatus      `json:"status"`
	StatusMessage   sql.NullString `json:"status_message,omitempty"`
	ProgressCurrent int            `json:"progress_current"`
	ProgressTotal   int            `json:"progress_total"`
	LastError       sql.NullString `json:"last_error,omitempty"`
	RetryCount      int            `json:"retry_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	StartedAt       sql.NullTime   `json:"started_at,omitempty"`
	CompletedAt     sql.NullTime   `json:"completed_at,omitempty"`
}

// Copy returns a shallow copy to prevent external mutation.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	return &cpy
}

// JobSpec describes the work to be performed by the runner.
type JobSpec struct {
	Type   JobType
	Season int
	Weeks  []int
	DryRun bool
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec)
	OnStageStart(stage string, index, total int)
	OnProgress(message string, current, total int)
	OnJobComplete()
	OnJobError(err error)
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob *Job   `json:"active_job,omitempty"`
	History   []*Job `json:"recent_jobs,omitempty"`
}
