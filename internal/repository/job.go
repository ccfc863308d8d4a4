package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgo/jobboard/internal/database"
	"github.com/forgo/jobboard/internal/model"
)

// JobRepository stores jobs in SurrealDB. Records are keyed job:<n> where n
// comes from the sequence:job counter.
type JobRepository struct {
	db database.Database
}

// NewJobRepository creates a new job repository
func NewJobRepository(db database.Database) *JobRepository {
	return &JobRepository{db: db}
}

// List returns all jobs, newest first
func (r *JobRepository) List(ctx context.Context) ([]*model.Job, error) {
	query := `SELECT * FROM job ORDER BY created_on DESC`

	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	return parseJobs(firstRecords(result)), nil
}

// ListByEmployer returns one employer's jobs, newest first
func (r *JobRepository) ListByEmployer(ctx context.Context, employerID int64) ([]*model.Job, error) {
	query := `SELECT * FROM job WHERE employer_id = $employer_id ORDER BY created_on DESC`
	vars := map[string]interface{}{"employer_id": employerID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return parseJobs(firstRecords(result)), nil
}

// GetByID retrieves a job by ID, returning nil, nil when it does not exist
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*model.Job, error) {
	query := `SELECT * FROM type::thing('job', $id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return parseJob(data), nil
}

// Create allocates the next id and stores the job in one transaction
func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	tb := database.NewTxBuilder()
	tb.Add(nextIDStatement("job"), nil)
	tb.Add(`
		CREATE type::thing('job', $next) CONTENT {
			title: $title,
			description: $description,
			location: $location,
			employment_type: $employment_type,
			salary_min: $salary_min,
			salary_max: $salary_max,
			status: $status,
			employer_id: $employer_id,
			created_on: time::now(),
			updated_on: time::now()
		}
	`, jobVars(job))

	result, err := database.ExecuteTransaction(ctx, r.db, tb)
	if err != nil {
		return err
	}

	data, err := lastRecord(result)
	if err != nil {
		return fmt.Errorf("%w: create job: %v", database.ErrQuery, err)
	}

	created := parseJob(data)
	job.ID = created.ID
	job.CreatedOn = created.CreatedOn
	job.UpdatedOn = created.UpdatedOn
	return nil
}

// Update writes the editable fields of a job. employer_id and created_on
// are never changed.
func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	query := `
		UPDATE job SET
			title = $title,
			description = $description,
			location = $location,
			employment_type = $employment_type,
			salary_min = $salary_min,
			salary_max = $salary_max,
			status = $status,
			updated_on = time::now()
		WHERE id = type::thing('job', $id)
		RETURN AFTER
	`
	vars := jobVars(job)
	vars["id"] = job.ID
	delete(vars, "employer_id")

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	recs := firstRecords(result)
	if len(recs) == 0 {
		return database.ErrNotFound
	}
	job.UpdatedOn = parseTime(recs[0]["updated_on"])
	return nil
}

// Delete removes a job
func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE type::thing('job', $id) RETURN BEFORE`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}
	if len(firstRecords(result)) == 0 {
		return database.ErrNotFound
	}
	return nil
}

func jobVars(job *model.Job) map[string]interface{} {
	return map[string]interface{}{
		"title":           job.Title,
		"description":     job.Description,
		"location":        job.Location,
		"employment_type": string(job.EmploymentType),
		"salary_min":      intPtrValue(job.SalaryMin),
		"salary_max":      intPtrValue(job.SalaryMax),
		"status":          string(job.Status),
		"employer_id":     job.EmployerID,
	}
}

func parseJobs(records []map[string]interface{}) []*model.Job {
	jobs := make([]*model.Job, 0, len(records))
	for _, rec := range records {
		jobs = append(jobs, parseJob(rec))
	}
	return jobs
}

func parseJob(data map[string]interface{}) *model.Job {
	return &model.Job{
		ID:             recordNumber(data["id"]),
		Title:          getString(data, "title"),
		Description:    getString(data, "description"),
		Location:       getString(data, "location"),
		EmploymentType: model.EmploymentType(getString(data, "employment_type")),
		SalaryMin:      getIntPtr(data, "salary_min"),
		SalaryMax:      getIntPtr(data, "salary_max"),
		Status:         model.JobStatus(getString(data, "status")),
		EmployerID:     toInt64(data["employer_id"]),
		CreatedOn:      parseTime(data["created_on"]),
		UpdatedOn:      parseTime(data["updated_on"]),
	}
}
