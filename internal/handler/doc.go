// Package handler provides HTTP request handlers for the job board API.
//
// Each handler struct wraps the service it serves behind a small interface
// (AuthAPI, JobAPI) and mounts itself on a ServeMux with RegisterRoutes.
//
// # Response Format
//
//   - WriteData: {"data": ...} envelope with optional HATEOAS links
//   - WriteNoContent: 204 for updates and deletes
//   - WriteError: RFC 9457 Problem Details error response
//
// Service errors go through MapServiceError. Unrecognised errors become a
// generic 500 and are logged, never echoed.
//
// # Authentication
//
// Job routes and /v1/auth/me are wrapped in the auth middleware passed to
// RegisterRoutes. Handlers read the caller with authz.FromContext and pass it
// to the service, which performs the role and ownership checks.
//
// # Example Usage
//
//	mux := http.NewServeMux()
//	auth := middleware.Auth(authz.NewGate(tokens))
//	handler.NewJobHandler(jobService).RegisterRoutes(mux, auth)
package handler
