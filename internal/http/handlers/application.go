package handlers

import (
	"net/http"
	"time"

	"jobboard/internal/app"
	"jobboard/internal/common"
	"jobboard/internal/domain/job"
	"jobboard/internal/http/middleware"
	"jobboard/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter}
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	seekerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	jobID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "apply:" + jobID.String() + ":" + seekerID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	updated, err := h.applications.Apply(r.Context(), jobID, seekerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, jobEnvelope{Message: "job applied successfully", Job: updated})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	applicationID, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Status == "" {
		response.Error(w, common.NewError(common.CodeValidation, "status is required", nil))
		return
	}
	updated, err := h.applications.UpdateStatus(r.Context(), jobID, applicationID, job.ApplicationStatus(req.Status), employerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, jobEnvelope{Message: "application status updated successfully", Job: updated})
}

func (h *ApplicationHandler) Accept(w http.ResponseWriter, r *http.Request) {
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
	applicationID, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.Accept(r.Context(), jobID, applicationID, employerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, jobEnvelope{Message: "application accepted successfully", Job: updated})
}

func (h *ApplicationHandler) Reject(w http.ResponseWriter, r *http.Request) {
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
	applicationID, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.Reject(r.Context(), jobID, applicationID, employerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, jobEnvelope{Message: "application rejected successfully", Job: updated})
}
