package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/forgo/jobboard/internal/database"
	"github.com/forgo/jobboard/internal/model"
)

// GormJobRepository stores jobs in a relational database
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new job repository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// List returns all jobs, newest first
func (r *GormJobRepository) List(ctx context.Context) ([]*model.Job, error) {
	var rows []jobRow
	if err := r.db.WithContext(ctx).Order("created_on DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, database.TranslateGormError(err)
	}
	return jobRowsToModels(rows), nil
}

// ListByEmployer returns one employer's jobs, newest first
func (r *GormJobRepository) ListByEmployer(ctx context.Context, employerID int64) ([]*model.Job, error) {
	var rows []jobRow
	err := r.db.WithContext(ctx).
		Where("employer_id = ?", employerID).
		Order("created_on DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, database.TranslateGormError(err)
	}
	return jobRowsToModels(rows), nil
}

// GetByID retrieves a job by ID, returning nil, nil when it does not exist
func (r *GormJobRepository) GetByID(ctx context.Context, id int64) (*model.Job, error) {
	var row jobRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, database.TranslateGormError(err)
	}
	return row.toModel(), nil
}

// Create inserts a job and fills in its ID and timestamps
func (r *GormJobRepository) Create(ctx context.Context, job *model.Job) error {
	row := newJobRow(job)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return database.TranslateGormError(err)
	}

	job.ID = row.ID
	job.CreatedOn = row.CreatedOn
	job.UpdatedOn = row.UpdatedOn
	return nil
}

// Update writes the editable fields of a job. EmployerID and CreatedOn are
// never changed.
func (r *GormJobRepository) Update(ctx context.Context, job *model.Job) error {
	row := newJobRow(job)
	row.UpdatedOn = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&jobRow{ID: job.ID}).
		Select("Title", "Description", "Location", "EmploymentType", "SalaryMin", "SalaryMax", "Status", "UpdatedOn").
		Updates(row)
	if result.Error != nil {
		return database.TranslateGormError(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}

	job.UpdatedOn = row.UpdatedOn
	return nil
}

// Delete removes a job
func (r *GormJobRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&jobRow{}, id)
	if result.Error != nil {
		return database.TranslateGormError(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func jobRowsToModels(rows []jobRow) []*model.Job {
	jobs := make([]*model.Job, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, rows[i].toModel())
	}
	return jobs
}
