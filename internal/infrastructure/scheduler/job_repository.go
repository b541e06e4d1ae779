package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SchedulerJobRecord is the persisted state of one scheduler job
type SchedulerJobRecord struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	JobType     string     `gorm:"column:job_type;size:50;not null" json:"job_type"`
	Params      JobParams  `gorm:"column:params;serializer:json;type:text" json:"params"`
	Status      string     `gorm:"column:status;size:20;not null" json:"status"`
	Error       string     `gorm:"column:last_error;type:text" json:"error,omitempty"`
	RetryCount  int        `gorm:"column:retry_count;not null;default:0" json:"retry_count"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at" json:"next_retry_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name for GORM
func (SchedulerJobRecord) TableName() string {
	return "report_scheduler_jobs"
}

func recordFromJob(job *Job) *SchedulerJobRecord {
	return &SchedulerJobRecord{
		ID:          job.ID,
		JobType:     string(job.Type),
		Params:      job.Params,
		Status:      string(job.Status),
		Error:       job.Error,
		RetryCount:  job.RetryCount,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		NextRetryAt: job.NextRetryAt,
	}
}

// SchedulerJobRepository handles persistence of scheduler job records
type SchedulerJobRepository struct {
	db *gorm.DB
}

// NewSchedulerJobRepository creates a new SchedulerJobRepository
func NewSchedulerJobRepository(db *gorm.DB) *SchedulerJobRepository {
	return &SchedulerJobRepository{db: db}
}

var _ JobRecorder = (*SchedulerJobRepository)(nil)

// SaveJob inserts or updates the job's record
func (r *SchedulerJobRepository) SaveJob(ctx context.Context, job *Job) error {
	now := time.Now()
	record := recordFromJob(job)
	record.CreatedAt = now
	record.UpdatedAt = now
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "last_error", "retry_count", "started_at", "completed_at", "next_retry_at", "updated_at",
			}),
		}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("save scheduler job %s: %w", job.ID, err)
	}
	return nil
}

// FindByID returns the record of one job
func (r *SchedulerJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*SchedulerJobRecord, error) {
	var record SchedulerJobRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListRecent returns the most recently created job records, newest first
func (r *SchedulerJobRepository) ListRecent(ctx context.Context, jobType JobType, limit int) ([]SchedulerJobRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if jobType != "" {
		query = query.Where("job_type = ?", string(jobType))
	}
	var records []SchedulerJobRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
