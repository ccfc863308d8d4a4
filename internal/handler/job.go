package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/forgo/jobboard/internal/authz"
	"github.com/forgo/jobboard/internal/model"
)

// JobAPI is the part of service.JobService used by JobHandler
type JobAPI interface {
	ListAll(ctx context.Context) ([]*model.Job, error)
	ListByEmployer(ctx context.Context, employerID int64) ([]*model.Job, error)
	GetByID(ctx context.Context, id int64) (*model.Job, error)
	Create(ctx context.Context, caller *authz.Identity, draft *model.JobDraft) (*model.Job, error)
	Update(ctx context.Context, caller *authz.Identity, id int64, draft *model.JobDraft) (*model.Job, error)
	Delete(ctx context.Context, caller *authz.Identity, id int64) error
}

// JobHandler handles job posting endpoints
type JobHandler struct {
	jobService JobAPI
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService JobAPI) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// RegisterRoutes mounts the job endpoints. Every one of them requires a
// caller, so each is wrapped in auth.
func (h *JobHandler) RegisterRoutes(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.Handle("GET /v1/jobs", auth(http.HandlerFunc(h.List)))
	mux.Handle("GET /v1/jobs/employer/{employerId}", auth(http.HandlerFunc(h.ListByEmployer)))
	mux.Handle("GET /v1/jobs/{id}", auth(http.HandlerFunc(h.Get)))
	mux.Handle("POST /v1/jobs", auth(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /v1/jobs/{id}", auth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /v1/jobs/{id}", auth(http.HandlerFunc(h.Delete)))
}

func jobLinks(job *model.Job) map[string]string {
	return map[string]string{
		"self":     fmt.Sprintf("/v1/jobs/%d", job.ID),
		"employer": fmt.Sprintf("/v1/jobs/employer/%d", job.EmployerID),
	}
}

// List handles GET /v1/jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, "list jobs", err)
		return
	}
	if jobs == nil {
		jobs = []*model.Job{}
	}

	WriteData(w, http.StatusOK, jobs, nil)
}

// ListByEmployer handles GET /v1/jobs/employer/{employerId}
func (h *JobHandler) ListByEmployer(w http.ResponseWriter, r *http.Request) {
	employerID, ok := pathID(r, "employerId")
	if !ok {
		WriteError(w, model.NewBadRequestError("employer id must be a positive integer"))
		return
	}

	jobs, err := h.jobService.ListByEmployer(r.Context(), employerID)
	if err != nil {
		writeServiceError(w, r, "list employer jobs", err)
		return
	}

	WriteData(w, http.StatusOK, jobs, nil)
}

// Get handles GET /v1/jobs/{id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		WriteError(w, model.NewBadRequestError("job id must be a positive integer"))
		return
	}

	job, err := h.jobService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get job", err)
		return
	}

	WriteData(w, http.StatusOK, job, jobLinks(job))
}

// Create handles POST /v1/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft model.JobDraft
	if err := DecodeJSON(w, r, &draft); err != nil {
		WriteError(w, model.NewBadRequestError(decodeErrorDetail(err)))
		return
	}

	job, err := h.jobService.Create(r.Context(), authz.FromContext(r.Context()), &draft)
	if err != nil {
		writeServiceError(w, r, "create job", err)
		return
	}

	links := jobLinks(job)
	w.Header().Set("Location", links["self"])
	WriteData(w, http.StatusCreated, job, links)
}

// Update handles PUT /v1/jobs/{id}
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		WriteError(w, model.NewBadRequestError("job id must be a positive integer"))
		return
	}

	var draft model.JobDraft
	if err := DecodeJSON(w, r, &draft); err != nil {
		WriteError(w, model.NewBadRequestError(decodeErrorDetail(err)))
		return
	}

	if _, err := h.jobService.Update(r.Context(), authz.FromContext(r.Context()), id, &draft); err != nil {
		writeServiceError(w, r, "update job", err)
		return
	}

	WriteNoContent(w)
}

// Delete handles DELETE /v1/jobs/{id}
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		WriteError(w, model.NewBadRequestError("job id must be a positive integer"))
		return
	}

	if err := h.jobService.Delete(r.Context(), authz.FromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, "delete job", err)
		return
	}

	WriteNoContent(w)
}
