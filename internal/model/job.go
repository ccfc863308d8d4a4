package model

import (
	"strings"
	"time"
)

// JobStatus represents whether a posting accepts applications
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// EmploymentType describes the kind of engagement offered
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentTemporary  EmploymentType = "temporary"
)

// Job represents a job posting.
// EmployerID is set from the creating caller and never changes afterwards.
type Job struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Location       string         `json:"location,omitempty"`
	EmploymentType EmploymentType `json:"employment_type"`
	SalaryMin      *int           `json:"salary_min,omitempty"`
	SalaryMax      *int           `json:"salary_max,omitempty"`
	Status         JobStatus      `json:"status"`
	EmployerID     int64          `json:"employer_id"`
	CreatedOn      time.Time      `json:"created_on"`
	UpdatedOn      time.Time      `json:"updated_on"`
}

// Clone returns a deep copy so cached values cannot be mutated through
// a pointer handed to a caller.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	c.SalaryMin = cloneInt(j.SalaryMin)
	c.SalaryMax = cloneInt(j.SalaryMax)
	return &c
}

// CloneJobs deep-copies a slice of jobs
func CloneJobs(jobs []*Job) []*Job {
	if jobs == nil {
		return nil
	}
	out := make([]*Job, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}

// JobDraft is the client payload for creating or replacing a job.
// EmployerID is accepted on the wire for compatibility but always ignored;
// the owner comes from the authenticated caller.
type JobDraft struct {
	Title          string         `json:"title" validate:"required,min=3,max=200"`
	Description    string         `json:"description" validate:"required,max=10000"`
	Location       string         `json:"location,omitempty" validate:"max=200"`
	EmploymentType EmploymentType `json:"employment_type" validate:"required,oneof=full_time part_time contract internship temporary"`
	SalaryMin      *int           `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax      *int           `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
	Status         JobStatus      `json:"status,omitempty" validate:"omitempty,oneof=open closed"`
	EmployerID     *int64         `json:"employer_id,omitempty" validate:"-"`
}

// Normalize trims free text and fills defaults
func (d *JobDraft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Location = strings.TrimSpace(d.Location)
	if d.Status == "" {
		d.Status = JobStatusOpen
	}
}

// Validate checks the draft and returns field errors, or nil when valid
func (d *JobDraft) Validate() []FieldError {
	return ValidateStruct(d)
}

// Apply copies the draft's fields onto a job. ID, EmployerID and
// timestamps are left untouched.
func (d *JobDraft) Apply(j *Job) {
	j.Title = d.Title
	j.Description = d.Description
	j.Location = d.Location
	j.EmploymentType = d.EmploymentType
	j.SalaryMin = cloneInt(d.SalaryMin)
	j.SalaryMax = cloneInt(d.SalaryMax)
	j.Status = d.Status
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
