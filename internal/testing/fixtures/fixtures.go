package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/forgo/jobboard/internal/model"
	"github.com/forgo/jobboard/internal/repository"
)

// DefaultPassword is the plaintext password of every fixture user
const DefaultPassword = "testpass123"

// Factory creates test entities in the database
type Factory struct {
	users *repository.GormUserRepository
	jobs  *repository.GormJobRepository
}

// New creates a new fixture factory
func New(db *gorm.DB) *Factory {
	return &Factory{
		users: repository.NewGormUserRepository(db),
		jobs:  repository.NewGormJobRepository(db),
	}
}

// randomID generates a random hex suffix
func randomID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Username string
	Password string
	Name     string
	Contacts string
	Role     model.UserRole
}

// CreateUser creates an applicant unless opts say otherwise
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	o := &UserOpts{
		Username: fmt.Sprintf("user_%s", randomID()),
		Password: DefaultPassword,
		Name:     "Test User",
		Role:     model.UserRoleApplicant,
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	user := &model.User{
		Username: o.Username,
		Hash:     string(hash),
		Name:     o.Name,
		Contacts: o.Contacts,
		Role:     o.Role,
	}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return user
}

// CreateEmployer creates a user with the Employer role
func (f *Factory) CreateEmployer(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()
	return f.CreateUser(t, append([]func(*UserOpts){func(o *UserOpts) {
		o.Role = model.UserRoleEmployer
		o.Username = fmt.Sprintf("employer_%s", randomID())
	}}, opts...)...)
}

// CreateApplicant creates a user with the Applicant role
func (f *Factory) CreateApplicant(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()
	return f.CreateUser(t, opts...)
}

// ============================================================================
// Job Fixtures
// ============================================================================

// CreateJob stores an open full-time job owned by employer
func (f *Factory) CreateJob(t *testing.T, employer *model.User, opts ...func(*model.Job)) *model.Job {
	t.Helper()

	job := &model.Job{
		Title:          fmt.Sprintf("Engineer %s", randomID()),
		Description:    "Design, build and run services.",
		Location:       "Remote",
		EmploymentType: model.EmploymentFullTime,
		Status:         model.JobStatusOpen,
		EmployerID:     employer.ID,
	}
	for _, fn := range opts {
		fn(job)
	}

	if err := f.jobs.Create(context.Background(), job); err != nil {
		t.Fatalf("fixtures: failed to create job: %v", err)
	}
	return job
}

// WithTitle sets the job title
func WithTitle(title string) func(*model.Job) {
	return func(j *model.Job) { j.Title = title }
}

// WithSalary sets the salary range
func WithSalary(lo, hi int) func(*model.Job) {
	return func(j *model.Job) {
		j.SalaryMin = &lo
		j.SalaryMax = &hi
	}
}

// WithStatus sets the job status
func WithStatus(status model.JobStatus) func(*model.Job) {
	return func(j *model.Job) { j.Status = status }
}
