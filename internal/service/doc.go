// Package service implements the business logic layer for the job board API.
//
// Services sit between HTTP handlers and repositories. Each one takes a
// config struct, defines the repository interfaces it needs, and returns
// sentinel errors from errors.go that handlers map to problem details.
//
// # Job Access
//
// JobService wraps job storage with a read-through cache. Single jobs are
// cached under JobKey(id) and per-employer listings under
// EmployerJobsKey(employerID); the unscoped listing is never cached. Every
// successful Create, Update or Delete removes both affected keys before
// returning.
//
// Mutations check, in order: caller role, payload validity, existence,
// ownership policy. Nothing is persisted when an earlier step fails.
//
//	jobs := NewJobService(JobServiceConfig{
//	    Repo:      jobRepository,
//	    Cache:     store,
//	    Ownership: RequireJobOwner,
//	})
//	job, err := jobs.Create(ctx, caller, &model.JobDraft{...})
//
// # Authentication
//
// AuthService registers users with bcrypt-hashed passwords and issues
// bearer tokens through TokenService.
package service
