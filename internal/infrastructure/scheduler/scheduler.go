package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobType identifies the report operation a job runs
type JobType string

const (
	// JobTypeForceRange regenerates every date of a range through the forced path
	JobTypeForceRange JobType = "FORCE_RANGE"
	// JobTypeRegenerateMonth re-runs Monthly and Yearly aggregation for one month
	JobTypeRegenerateMonth JobType = "REGENERATE_MONTH"
	// JobTypeRecomputeFinance refreshes finance totals of a year's monthly reports
	JobTypeRecomputeFinance JobType = "RECOMPUTE_FINANCE"
	// JobTypeAutoGenerate runs the scheduled daily and new-month generation
	JobTypeAutoGenerate JobType = "AUTO_GENERATE"
)

// AllJobTypes returns all known job types
func AllJobTypes() []JobType {
	return []JobType{
		JobTypeForceRange,
		JobTypeRegenerateMonth,
		JobTypeRecomputeFinance,
		JobTypeAutoGenerate,
	}
}

// IsValid checks if the job type is known
func (t JobType) IsValid() bool {
	switch t {
	case JobTypeForceRange, JobTypeRegenerateMonth, JobTypeRecomputeFinance, JobTypeAutoGenerate:
		return true
	}
	return false
}

// JobParams carries the arguments of a job. Which fields apply depends on the type.
type JobParams struct {
	From      time.Time `json:"from,omitzero"`
	To        time.Time `json:"to,omitzero"`
	Year      int       `json:"year,omitempty"`
	Month     int       `json:"month,omitempty"`
	SkipEmpty bool      `json:"skip_empty,omitempty"`
	Force     bool      `json:"force,omitempty"`
}

// Job represents a queued report job
type Job struct {
	ID          uuid.UUID
	Type        JobType
	Params      JobParams
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob creates a new job instance
func NewJob(jobType JobType, params JobParams, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Params:     params,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.CompletedAt = nil
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for retry
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
}

// JobExecutor is the interface for executing report jobs
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// JobRecorder persists the current state of a job. It is called on every transition.
type JobRecorder interface {
	SaveJob(ctx context.Context, job *Job) error
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	Enabled           bool
	MaxConcurrentJobs int
	QueueSize         int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:           true,
		MaxConcurrentJobs: 2,
		QueueSize:         100,
		JobTimeout:        30 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        5 * time.Minute,
	}
}

// Scheduler runs report jobs on a fixed worker pool
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	recorder JobRecorder
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithRecorder persists job runs through recorder
func WithRecorder(recorder JobRecorder) Option {
	return func(s *Scheduler) {
		s.recorder = recorder
	}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config SchedulerConfig, executor JobExecutor, logger *zap.Logger, opts ...Option) *Scheduler {
	if config.MaxConcurrentJobs <= 0 {
		config.MaxConcurrentJobs = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 100
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 30 * time.Minute
	}
	s := &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, config.QueueSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Report job scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler. Queued jobs that have not started are dropped.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	close(s.jobs)
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Report job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Report job scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the worker pool is accepting jobs
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Schedule creates a job of the given type and submits it
func (s *Scheduler) Schedule(jobType JobType, params JobParams) (*Job, error) {
	if !jobType.IsValid() {
		return nil, ErrInvalidJobType
	}
	job := NewJob(jobType, params, s.config.RetryAttempts)
	s.record(context.Background(), job)
	if err := s.SubmitJob(job); err != nil {
		job.Fail(err.Error())
		s.record(context.Background(), job)
		return nil, err
	}
	return job, nil
}

// SubmitJob submits a job for execution
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("Worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Worker stopping", zap.Int("worker_id", workerID))
			return
		case job, ok := <-s.jobs:
			if !ok {
				s.logger.Debug("Job channel closed", zap.Int("worker_id", workerID))
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	job.Start()
	s.record(ctx, job)
	s.logger.Info("Processing job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.Int("retry_count", job.RetryCount),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	err := s.executor.Execute(jobCtx, job)
	if err != nil {
		job.Fail(err.Error())
		s.record(ctx, job)
		s.logger.Error("Job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
			zap.Error(err),
		)

		if job.ShouldRetry() {
			job.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("Job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
			)
			s.record(ctx, job)
			time.AfterFunc(s.config.RetryDelay, func() {
				if err := s.SubmitJob(job); err != nil {
					s.logger.Warn("Failed to re-queue job for retry",
						zap.String("job_id", job.ID.String()),
						zap.Error(err),
					)
				}
			})
		}
		return
	}

	job.Complete()
	s.record(ctx, job)
	s.logger.Info("Job completed successfully",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
	)
}

// record writes a job transition. Recorder failures are logged, never fatal to the job.
func (s *Scheduler) record(ctx context.Context, job *Job) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.SaveJob(ctx, job); err != nil {
		s.logger.Warn("Failed to record job state",
			zap.String("job_id", job.ID.String()),
			zap.String("status", string(job.Status)),
			zap.Error(err),
		)
	}
}
