package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Request represents an ETL job invocation request.
type Request struct {
	Type   JobType `json:"job_type"`
	Season int     `json:"season"`
	Weeks  []int   `json:"weeks,omitempty"`
	DryRun bool    `json:"dry_run,omitempty"`
}

// Validate checks the request fields against the known job types.
func (r Request) Validate() error {
	switch r.Type {
	case JobTypePlays, JobTypeWeekly, JobTypeSplits, JobTypeUsage,
		JobTypeTeamContext, JobTypeReference, JobTypeFull:
	default:
		return fmt.Errorf("unknown job type %q", r.Type)
	}
	if r.Season < 1999 {
		return fmt.Errorf("season %d predates play-by-play coverage", r.Season)
	}
	for _, w := range r.Weeks {
		if w < 1 || w > 22 {
			return fmt.Errorf("week %d out of range", w)
		}
	}
	return nil
}

// Service coordinates job persistence, execution, and status reporting.
type Service struct {
	repo   *Repository
	runner *Runner

	historyLimit int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logrus.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(db *store.Database, nflverseBaseURL string, logger *logrus.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Service{
		repo:         NewRepository(db),
		runner:       NewRunner(db, nflverseBaseURL, logger),
		historyLimit: 10,
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger,
	}
}

// WithBatchSize overrides the play upsert batch size. Zero keeps the
// repository default.
func (s *Service) WithBatchSize(n int) *Service {
	s.runner.WithBatchSize(n)
	return s
}

// Start launches the background worker loop.
func (s *Service) Start() {
	if err := s.repo.ResetStuckJobs(s.ctx); err != nil {
		s.logger.WithError(err).Error("failed to reset stuck jobs")
	}

	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops the worker and waits for completion.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Enqueue creates a new job from the provided request.
func (s *Service) Enqueue(ctx context.Context, req Request) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	weeks := make(pq.Int64Array, 0, len(req.Weeks))
	for _, w := range req.Weeks {
		weeks = append(weeks, int64(w))
	}

	job := &Job{
		JobType:       req.Type,
		Season:        req.Season,
		Weeks:         weeks,
		Status:        JobStatusQueued,
		StatusMessage: sql.NullString{String: "Queued", Valid: true},
		ProgressTotal: len(JobSpec{Type: req.Type}.stages()),
	}

	stored, err := s.repo.CreateJob(ctx, job)
	if err != nil {
		return nil, err
	}

	_ = s.repo.AppendEvent(ctx, stored.JobID, "queued", "Job queued", nil, nil)

	return stored, nil
}

// GetJob returns one job by id, or nil when absent.
func (s *Service) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return s.repo.GetJob(ctx, jobID)
}

// GetStatus returns the currently running job plus recent history.
func (s *Service) GetStatus(ctx context.Context) (*StatusSummary, error) {
	active, err := s.repo.GetActiveJob(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListRecentJobs(ctx, s.historyLimit)
	if err != nil {
		return nil, err
	}

	return &StatusSummary{
		ActiveJob: active,
		History:   history,
	}, nil
}

func (s *Service) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
			job, err := s.repo.MarkNextJobRunning(s.ctx)
			if err != nil {
				s.logger.WithError(err).Error("claim job error")
				time.Sleep(time.Second)
				continue
			}
			if job == nil {
				select {
				case <-s.ctx.Done():
					return
				case <-ticker.C:
					continue
				}
			}

			s.executeJob(job)
		}
	}
}

func (s *Service) executeJob(job *Job) {
	spec := JobSpec{
		Type:   job.JobType,
		Season: job.Season,
	}
	for _, w := range job.Weeks {
		spec.Weeks = append(spec.Weeks, int(w))
	}

	reporter := &jobReporter{
		ctx:   s.ctx,
		repo:  s.repo,
		jobID: job.JobID,
		total: len(spec.stages()),
	}

	if job.ProgressTotal == 0 {
		_ = s.repo.UpdateProgress(s.ctx, job.JobID, 0, reporter.total, "Starting job...")
	}

	if err := s.runner.Run(s.ctx, spec, reporter); err != nil {
		s.logger.WithError(err).WithField("job_id", job.JobID).Error("❌ job failed")
		_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusFailed, "Job failed", err)
		return
	}

	_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusCompleted, "Job completed", nil)
}

type jobReporter struct {
	ctx   context.Context
	repo  *Repository
	jobID string
	total int
}

func (r *jobReporter) OnJobStart(spec JobSpec) {
	if r.total == 0 {
		r.total = len(spec.stages())
	}
	_ = r.repo.UpdateProgress(r.ctx, r.jobID, 0, r.total, "Job starting")
}

func (r *jobReporter) OnStageStart(stage string, index, total int) {
	msg := fmt.Sprintf("Running %s (%d/%d)", stage, index+1, total)
	_ = r.repo.UpdateProgress(r.ctx, r.jobID, index, valueOr(total, r.total), msg)
	_ = r.repo.AppendEvent(r.ctx, r.jobID, "stage", msg, &index, &total)
}

func (r *jobReporter) OnProgress(message string, current, total int) {
	_ = r.repo.UpdateProgress(r.ctx, r.jobID, current, valueOr(total, r.total), message)
}

func (r *jobReporter) OnJobComplete() {
	_ = r.repo.UpdateProgress(r.ctx, r.jobID, r.total, r.total, "Job complete")
}

func (r *jobReporter) OnJobError(err error) {
	_ = r.repo.AppendEvent(r.ctx, r.jobID, "error", err.Error(), nil, nil)
}

func valueOr(val, fallback int) int {
	if val > 0 {
		return val
	}
	return fallback
}
