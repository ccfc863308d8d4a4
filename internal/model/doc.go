// Package model defines domain entities and data structures for the job board API.
//
// # Domain Entities
//
//   - User: an account registered as either an Employer or an Applicant
//   - Job: a posting owned by the employer that created it
//
// # Requests
//
// Request payloads (JobDraft, RegisterRequest, LoginRequest) carry
// go-playground/validator tags and expose a Validate method returning
// []FieldError. Field names in errors use the json tag, so clients see the
// names they sent.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go and written with
// the application/problem+json content type.
package model
