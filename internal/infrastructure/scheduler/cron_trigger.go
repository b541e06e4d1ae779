package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// AutoGenerateLockKey guards the scheduled generation across replicas
const AutoGenerateLockKey = "report:auto-generate"

// Locker acquires a short-lived exclusive key. TryLock returns false when
// another holder owns the key.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// JobScheduler enqueues typed jobs
type JobScheduler interface {
	Schedule(jobType JobType, params JobParams) (*Job, error)
}

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// Spec is a standard five-field cron expression evaluated in Location
	Spec     string
	Location *time.Location
	// LockTTL bounds how long one replica owns a tick
	LockTTL time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		Spec:     "10 0 * * *",
		Location: time.UTC,
		LockTTL:  10 * time.Minute,
	}
}

// CronTrigger enqueues AUTO_GENERATE jobs on a cron schedule
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler JobScheduler
	locker    Locker
	logger    *zap.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
	lastRunAt *time.Time
}

// NewCronTrigger creates a new cron trigger. The schedule is validated here.
func NewCronTrigger(config CronTriggerConfig, scheduler JobScheduler, locker Locker, logger *zap.Logger) (*CronTrigger, error) {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 10 * time.Minute
	}
	if _, err := cron.ParseStandard(config.Spec); err != nil {
		return nil, fmt.Errorf("%w: cron spec %q: %v", ErrInvalidConfig, config.Spec, err)
	}

	c := &CronTrigger{
		config:    config,
		scheduler: scheduler,
		locker:    locker,
		logger:    logger,
		cron:      cron.New(cron.WithLocation(config.Location)),
	}
	id, err := c.cron.AddFunc(config.Spec, func() { c.Trigger(context.Background()) })
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.entryID = id
	return c, nil
}

// Start starts the cron loop
func (c *CronTrigger) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return
	}
	c.isRunning = true
	c.cron.Start()

	c.logger.Info("Cron trigger started",
		zap.String("spec", c.config.Spec),
		zap.String("location", c.config.Location.String()),
		zap.Timep("next_run_at", c.NextRunAt()),
	)
}

// Stop stops the cron loop and waits for a running tick to finish
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	select {
	case <-c.cron.Stop().Done():
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger enqueues one AUTO_GENERATE job unless another replica holds the lock.
// The lock is left to expire so peers firing within LockTTL skip the tick.
func (c *CronTrigger) Trigger(ctx context.Context) {
	now := time.Now()
	c.mu.Lock()
	c.lastRunAt = &now
	c.mu.Unlock()

	if c.locker != nil {
		acquired, err := c.locker.TryLock(ctx, AutoGenerateLockKey, c.config.LockTTL)
		if err != nil {
			c.logger.Error("Failed to obtain auto-generate lock", zap.Error(err))
			return
		}
		if !acquired {
			c.logger.Info("Auto-generate lock held elsewhere, skipping tick")
			return
		}
	}

	job, err := c.scheduler.Schedule(JobTypeAutoGenerate, JobParams{})
	if err != nil {
		c.logger.Error("Failed to schedule auto-generate job", zap.Error(err))
		return
	}
	c.logger.Info("Auto-generate job scheduled", zap.String("job_id", job.ID.String()))
}

// NextRunAt returns when the next tick will fire, or nil before Start
func (c *CronTrigger) NextRunAt() *time.Time {
	next := c.cron.Entry(c.entryID).Next
	if next.IsZero() {
		return nil
	}
	return &next
}

// LastRunAt returns when the last tick fired
func (c *CronTrigger) LastRunAt() *time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRunAt
}
