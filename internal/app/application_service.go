package app

import (
	"context"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/job"
)

// ApplicationService owns the apply/accept/reject/status-update
// transition rules. Every mutation is a read-validate-persist cycle
// against the authoritative aggregate, serialized per job id and
// backed by the repository's version check with one bounded retry.
type ApplicationService struct {
	jobs  job.Repository
	locks *keyedMutex
}

func NewApplicationService(jobs job.Repository) *ApplicationService {
	return &ApplicationService{jobs: jobs, locks: newKeyedMutex()}
}

func (s *ApplicationService) Apply(ctx context.Context, jobID, seekerID common.UUID) (*job.Job, error) {
	unlock := s.locks.Lock(jobID)
	defer unlock()
	for attempt := 0; ; attempt++ {
		current, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if current.Status == job.StatusClosed || current.Vacancy <= 0 {
			return nil, common.NewError(common.CodeConflict, "job closed", nil)
		}
		if _, ok := current.ApplicationByUser(seekerID); ok {
			return nil, common.NewError(common.CodeConflict, "duplicate application", nil)
		}
		current.Applications = append(current.Applications, job.Application{
			ID:        common.NewUUID(),
			UserID:    seekerID,
			Status:    job.ApplicationApplied,
			AppliedAt: time.Now().UTC(),
		})
		current.Vacancy--
		if current.Vacancy == 0 {
			current.Status = job.StatusClosed
		}
		updated, err := s.jobs.Persist(ctx, *current)
		if err != nil {
			if common.Is(err, common.CodeConflict) && attempt == 0 {
				continue
			}
			return nil, err
		}
		return updated, nil
	}
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, jobID, applicationID common.UUID, status job.ApplicationStatus, employerID common.UUID) (*job.Job, error) {
	next, err := job.ParseApplicationStatus(string(status))
	if err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(jobID)
	defer unlock()
	for attempt := 0; ; attempt++ {
		current, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if current.EmployerID != employerID {
			return nil, common.NewError(common.CodeForbidden, "job belongs to another employer", nil)
		}
		app, ok := current.ApplicationByID(applicationID)
		if !ok {
			return nil, common.NewError(common.CodeNotFound, "application not found", nil)
		}
		if app.Status != next {
			if isFinalStatus(app.Status) {
				return nil, common.NewError(common.CodeValidation, "application status is final", nil)
			}
			if !isAllowedTransition(app.Status, next) {
				return nil, common.NewError(common.CodeValidation, "invalid status transition", nil)
			}
		}
		app.Status = next
		updated, err := s.jobs.Persist(ctx, *current)
		if err != nil {
			if common.Is(err, common.CodeConflict) && attempt == 0 {
				continue
			}
			return nil, err
		}
		return updated, nil
	}
}

func (s *ApplicationService) Accept(ctx context.Context, jobID, applicationID, employerID common.UUID) (*job.Job, error) {
	return s.UpdateStatus(ctx, jobID, applicationID, job.ApplicationAccepted, employerID)
}

func (s *ApplicationService) Reject(ctx context.Context, jobID, applicationID, employerID common.UUID) (*job.Job, error) {
	return s.UpdateStatus(ctx, jobID, applicationID, job.ApplicationRejected, employerID)
}

func isAllowedTransition(from, to job.ApplicationStatus) bool {
	switch from {
	case job.ApplicationApplied:
		return to == job.ApplicationShortlisted || to == job.ApplicationInterviewed || to == job.ApplicationRejected || to == job.ApplicationAccepted
	case job.ApplicationShortlisted, job.ApplicationInterviewed:
		return to == job.ApplicationRejected || to == job.ApplicationAccepted
	default:
		return false
	}
}

func isFinalStatus(status job.ApplicationStatus) bool {
	return status == job.ApplicationRejected || status == job.ApplicationAccepted
}
