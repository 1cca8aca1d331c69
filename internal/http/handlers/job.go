package handlers

import (
	"net/http"

	"jobboard/internal/app"
	"jobboard/internal/domain/job"
	"jobboard/internal/http/middleware"
	"jobboard/internal/http/response"
)

type JobHandler struct {
	jobs *app.JobService
}

func NewJobHandler(jobs *app.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type jobRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	JobType        string  `json:"job_type"`
	Salary         float64 `json:"salary"`
	Vacancy        int     `json:"vacancy"`
	CourseCriteria string  `json:"course_criteria"`
}

type jobPatchRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	JobType        *string  `json:"job_type"`
	Salary         *float64 `json:"salary"`
	Vacancy        *int     `json:"vacancy"`
	CourseCriteria *string  `json:"course_criteria"`
	Status         *string  `json:"status"`
}

type jobEnvelope struct {
	Message string   `json:"message"`
	Job     *job.Job `json:"job,omitempty"`
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.jobs.Create(r.Context(), employerID, app.JobInput{
		Title:          req.Title,
		Description:    req.Description,
		JobType:        req.JobType,
		Salary:         req.Salary,
		Vacancy:        req.Vacancy,
		CourseCriteria: req.CourseCriteria,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, jobEnvelope{Message: "job created successfully", Job: created})
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.jobs.Get(r.Context(), jobID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.jobs.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req jobPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.jobs.Update(r.Context(), jobID, employerID, app.JobPatch{
		Title:          req.Title,
		Description:    req.Description,
		JobType:        req.JobType,
		Salary:         req.Salary,
		Vacancy:        req.Vacancy,
		CourseCriteria: req.CourseCriteria,
		Status:         req.Status,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, jobEnvelope{Message: "job updated successfully", Job: updated})
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.jobs.Delete(r.Context(), jobID, employerID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, jobEnvelope{Message: "job deleted successfully"})
}

func (h *JobHandler) ListByEmployer(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.jobs.ListByEmployer(r.Context(), employerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) ListAnnotated(w http.ResponseWriter, r *http.Request) {
	seekerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.jobs.ListAnnotated(r.Context(), seekerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) ListApplied(w http.ResponseWriter, r *http.Request) {
	seekerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.jobs.ListApplied(r.Context(), seekerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) ListEmployerApplications(w http.ResponseWriter, r *http.Request) {
	employerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.jobs.ListEmployerApplications(r.Context(), employerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
