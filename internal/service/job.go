package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/forgo/jobboard/internal/authz"
	"github.com/forgo/jobboard/internal/cache"
	"github.com/forgo/jobboard/internal/model"
)

// JobRepository defines the interface for job storage
type JobRepository interface {
	List(ctx context.Context) ([]*model.Job, error)
	ListByEmployer(ctx context.Context, employerID int64) ([]*model.Job, error)
	// GetByID returns nil, nil when no job has the given id
	GetByID(ctx context.Context, id int64) (*model.Job, error)
	// Create assigns ID, CreatedOn and UpdatedOn
	Create(ctx context.Context, job *model.Job) error
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, id int64) error
}

// Cache is the subset of cache.Store used by the job service
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, p cache.Policy)
	Remove(key string)
}

// OwnershipPolicy decides whether caller may mutate job. It runs after the
// role check and the existence check.
type OwnershipPolicy func(caller *authz.Identity, job *model.Job) error

// AllowAnyEmployer lets any employer mutate any job
func AllowAnyEmployer(*authz.Identity, *model.Job) error {
	return nil
}

// RequireJobOwner only lets the employer who posted a job mutate it
func RequireJobOwner(caller *authz.Identity, job *model.Job) error {
	return authz.RequireOwnership(caller, job.EmployerID)
}

// DefaultListingPolicy is used for per-employer listings and single jobs
var DefaultListingPolicy = cache.Policy{
	Sliding:  180 * time.Second,
	Absolute: 30 * time.Minute,
	Priority: cache.PriorityNormal,
}

// JobKey is the cache key for a single job
func JobKey(id int64) string {
	return fmt.Sprintf("jobs_%d", id)
}

// EmployerJobsKey is the cache key for an employer's listing
func EmployerJobsKey(employerID int64) string {
	return fmt.Sprintf("jobs_employer_%d", employerID)
}

// JobService handles job postings with read-through caching
type JobService struct {
	repo      JobRepository
	cache     Cache
	policy    cache.Policy
	ownership OwnershipPolicy

	// gen counts invalidations. A read-through fill is dropped when an
	// invalidation ran while the repository read was in flight.
	mu  sync.Mutex
	gen uint64
}

// JobServiceConfig holds configuration for the job service
type JobServiceConfig struct {
	Repo      JobRepository
	Cache     Cache
	Policy    cache.Policy    // Default: DefaultListingPolicy
	Ownership OwnershipPolicy // Default: AllowAnyEmployer
}

// NewJobService creates a new job service
func NewJobService(cfg JobServiceConfig) *JobService {
	if cfg.Policy == (cache.Policy{}) {
		cfg.Policy = DefaultListingPolicy
	}
	if cfg.Ownership == nil {
		cfg.Ownership = AllowAnyEmployer
	}

	return &JobService{
		repo:      cfg.Repo,
		cache:     cfg.Cache,
		policy:    cfg.Policy,
		ownership: cfg.Ownership,
	}
}

// ListAll returns every job straight from the repository
func (s *JobService) ListAll(ctx context.Context) ([]*model.Job, error) {
	return s.repo.List(ctx)
}

// ListByEmployer returns the jobs posted by one employer
func (s *JobService) ListByEmployer(ctx context.Context, employerID int64) ([]*model.Job, error) {
	key := EmployerJobsKey(employerID)
	if cached, ok := s.cache.Get(key); ok {
		if jobs, ok := cached.([]*model.Job); ok {
			return model.CloneJobs(jobs), nil
		}
	}

	gen := s.generation()
	jobs, err := s.repo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []*model.Job{}
	}

	s.fill(gen, key, model.CloneJobs(jobs))
	return jobs, nil
}

// GetByID returns a job or ErrJobNotFound. Misses are not cached.
func (s *JobService) GetByID(ctx context.Context, id int64) (*model.Job, error) {
	key := JobKey(id)
	if cached, ok := s.cache.Get(key); ok {
		if job, ok := cached.(*model.Job); ok {
			return job.Clone(), nil
		}
	}

	gen := s.generation()
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	s.fill(gen, key, job.Clone())
	return job, nil
}

// Create posts a new job owned by caller. Any employer id in the draft is
// ignored.
func (s *JobService) Create(ctx context.Context, caller *authz.Identity, draft *model.JobDraft) (*model.Job, error) {
	if err := authz.RequireRole(caller, model.UserRoleEmployer); err != nil {
		return nil, err
	}
	employerID, err := authz.IdentityOf(caller)
	if err != nil {
		return nil, err
	}

	draft.Normalize()
	if err := validationError(draft.Validate()); err != nil {
		return nil, err
	}

	job := &model.Job{EmployerID: employerID}
	draft.Apply(job)

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.invalidate(job.ID, job.EmployerID)
	return job, nil
}

// Update replaces the editable fields of an existing job
func (s *JobService) Update(ctx context.Context, caller *authz.Identity, id int64, draft *model.JobDraft) (*model.Job, error) {
	if err := authz.RequireRole(caller, model.UserRoleEmployer); err != nil {
		return nil, err
	}

	draft.Normalize()
	if err := validationError(draft.Validate()); err != nil {
		return nil, err
	}

	existing, err := s.mutable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	updated := existing.Clone()
	draft.Apply(updated)

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.invalidate(id, existing.EmployerID)
	return updated, nil
}

// Delete removes an existing job
func (s *JobService) Delete(ctx context.Context, caller *authz.Identity, id int64) error {
	if err := authz.RequireRole(caller, model.UserRoleEmployer); err != nil {
		return err
	}

	existing, err := s.mutable(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(id, existing.EmployerID)
	return nil
}

// mutable loads a job from the repository, bypassing the cache, and applies
// the ownership policy
func (s *JobService) mutable(ctx context.Context, caller *authz.Identity, id int64) (*model.Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	if err := s.ownership(caller, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// fill caches value unless an invalidation happened since gen was read
func (s *JobService) fill(gen uint64, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.cache.Set(key, value, s.policy)
}

func (s *JobService) invalidate(jobID, employerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.cache.Remove(JobKey(jobID))
	s.cache.Remove(EmployerJobsKey(employerID))
}
