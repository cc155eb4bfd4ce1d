package repository

import (
	"context"

	"github.com/es2/countrysync/internal/domain"
	"gorm.io/gorm"
)

// JobRepository persists ingestion jobs. Every call is its own commit.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *JobRepository: repository instance bound to db.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job and fills in its generated ID and timestamps.
func (r *JobRepository) Create(ctx context.Context, job *domain.IngestionJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// Save writes every column of the job.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - job: job carrying the new status, message and artifact paths.
// Returns:
//   - error: non-nil if the update fails.
func (r *JobRepository) Save(ctx context.Context, job *domain.IngestionJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// GetByID retrieves a job by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: job ID.
// Returns:
//   - *domain.IngestionJob: job record if found.
//   - error: wraps domain.ErrNotFound when no such job exists.
func (r *JobRepository) GetByID(ctx context.Context, id uint) (*domain.IngestionJob, error) {
	var job domain.IngestionJob
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, notFound(err, "ingestion job", id)
	}
	return &job, nil
}

// List returns all jobs ordered by ID.
func (r *JobRepository) List(ctx context.Context) ([]domain.IngestionJob, error) {
	var jobs []domain.IngestionJob
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListByStatus returns jobs in the given status, oldest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - status: job status filter.
//   - limit: maximum number of jobs to return; <= 0 means no limit.
// Returns:
//   - []domain.IngestionJob: matching jobs.
//   - error: non-nil if the query fails.
func (r *JobRepository) ListByStatus(ctx context.Context, status domain.JobStatus, limit int) ([]domain.IngestionJob, error) {
	var jobs []domain.IngestionJob
	query := r.db.WithContext(ctx).Where("status = ?", status).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}
