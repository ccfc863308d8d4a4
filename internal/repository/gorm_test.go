package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/jobboard/internal/database"
	"github.com/forgo/jobboard/internal/model"
	"github.com/forgo/jobboard/internal/repository"
	"github.com/forgo/jobboard/internal/testing/fixtures"
	"github.com/forgo/jobboard/internal/testing/testdb"
)

// ============================================================================
// Jobs
// ============================================================================

func TestGormJobRepository_CreateAndGet(t *testing.T) {
	t.Parallel()
	db := testdb.New(t)
	f := fixtures.New(db)
	repo := repository.NewGormJobRepository(db)
	ctx := context.Background()

	employer := f.CreateEmployer(t)
	job := f.CreateJob(t, employer, fixtures.WithSalary(1000, 2000))
	require.NotZero(t, job.ID)
	assert.False(t, job.CreatedOn.IsZero())

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, job.Title, got.Title)
	assert.Equal(t, employer.ID, got.EmployerID)
	require.NotNil(t, got.SalaryMin)
	assert.Equal(t, 1000, *got.SalaryMin)
	assert.Equal(t, 2000, *got.SalaryMax)
	assert.Equal(t, model.EmploymentFullTime, got.EmploymentType)
}

func TestGormJobRepository_GetByID_MissingReturnsNil(t *testing.T) {
	t.Parallel()
	repo := repository.NewGormJobRepository(testdb.New(t))

	got, err := repo.GetByID(context.Background(), 12345)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestGormJobRepository_ListAndListByEmployer(t *testing.T) {
	t.Parallel()
	db := testdb.New(t)
	f := fixtures.New(db)
	repo := repository.NewGormJobRepository(db)
	ctx := context.Background()

	a := f.CreateEmployer(t)
	b := f.CreateEmployer(t)
	f.CreateJob(t, a)
	f.CreateJob(t, a)
	f.CreateJob(t, b)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.ListByEmployer(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, j := range mine {
		assert.Equal(t, a.ID, j.EmployerID)
	}

	none, err := repo.ListByEmployer(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGormJobRepository_UpdateKeepsOwnerAndCreatedOn(t *testing.T) {
	t.Parallel()
	db := testdb.New(t)
	f := fixtures.New(db)
	repo := repository.NewGormJobRepository(db)
	ctx := context.Background()

	employer := f.CreateEmployer(t)
	job := f.CreateJob(t, employer, fixtures.WithSalary(1, 2))
	created := job.CreatedOn

	changed := job.Clone()
	changed.Title = "Renamed"
	changed.Status = model.JobStatusClosed
	changed.SalaryMin = nil
	changed.SalaryMax = nil
	changed.EmployerID = employer.ID + 100
	changed.CreatedOn = time.Time{}
	require.NoError(t, repo.Update(ctx, changed))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, model.JobStatusClosed, got.Status)
	assert.Nil(t, got.SalaryMin)
	assert.Nil(t, got.SalaryMax)
	assert.Equal(t, employer.ID, got.EmployerID)
	assert.WithinDuration(t, created, got.CreatedOn, time.Second)
}

func TestGormJobRepository_UpdateAfterDeleteReturnsNotFound(t *testing.T) {
	t.Parallel()
	db := testdb.New(t)
	f := fixtures.New(db)
	repo := repository.NewGormJobRepository(db)
	ctx := context.Background()

	job := f.CreateJob(t, f.CreateEmployer(t))

	// An unchanged row still counts as updated
	require.NoError(t, repo.Update(ctx, job.Clone()))

	require.NoError(t, repo.Delete(ctx, job.ID))
	assert.ErrorIs(t, repo.Update(ctx, job.Clone()), database.ErrNotFound)
}

func TestGormJobRepository_Delete(t *testing.T) {
	t.Parallel()
	db := testdb.New(t)
	f := fixtures.New(db)
	repo := repository.NewGormJobRepository(db)
	ctx := context.Background()

	job := f.CreateJob(t, f.CreateEmployer(t))
	require.NoError(t, repo.Delete(ctx, job.ID))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, repo.Delete(ctx, job.ID), database.ErrNotFound)
}

// ============================================================================
// Users
// ============================================================================

func TestGormUserRepository_CreateAndLookup(t *testing.T) {
	t.Parallel()
	db := testdb.New(t)
	repo := repository.NewGormUserRepository(db)
	ctx := context.Background()

	user := &model.User{Username: "acme", Hash: "hash", Name: "Acme Inc", Role: model.UserRoleEmployer}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", byID.Username)
	assert.Equal(t, "hash", byID.Hash)
	assert.Equal(t, model.UserRoleEmployer, byID.Role)

	byName, err := repo.GetByUsername(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGormUserRepository_DuplicateUsername(t *testing.T) {
	t.Parallel()
	db := testdb.New(t)
	repo := repository.NewGormUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Username: "dup", Hash: "h", Name: "n", Role: model.UserRoleApplicant}))
	err := repo.Create(ctx, &model.User{Username: "dup", Hash: "h", Name: "n", Role: model.UserRoleApplicant})
	assert.ErrorIs(t, err, database.ErrDuplicate)
}

// ============================================================================
// SurrealDB (opt-in)
// ============================================================================

func TestSurrealRepositories_RoundTrip(t *testing.T) {
	tdb := testdb.NewSurreal(t)
	users := repository.NewUserRepository(tdb.DB)
	jobs := repository.NewJobRepository(tdb.DB)
	ctx := context.Background()

	employer := &model.User{Username: "acme", Hash: "h", Name: "Acme", Role: model.UserRoleEmployer}
	require.NoError(t, users.Create(ctx, employer))
	require.NotZero(t, employer.ID)

	err := users.Create(ctx, &model.User{Username: "acme", Hash: "h", Name: "Other", Role: model.UserRoleApplicant})
	assert.ErrorIs(t, err, database.ErrDuplicate)

	job := &model.Job{
		Title:          "Backend Engineer",
		Description:    "Build APIs",
		EmploymentType: model.EmploymentFullTime,
		Status:         model.JobStatusOpen,
		EmployerID:     employer.ID,
	}
	require.NoError(t, jobs.Create(ctx, job))
	require.NotZero(t, job.ID)

	got, err := jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, employer.ID, got.EmployerID)

	listed, err := jobs.ListByEmployer(ctx, employer.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	require.NoError(t, jobs.Delete(ctx, job.ID))
	got, err = jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, jobs.Update(ctx, job), database.ErrNotFound)
	assert.ErrorIs(t, jobs.Delete(ctx, job.ID), database.ErrNotFound)
}
