package app

import (
	"context"
	"strings"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
)

type JobService struct {
	jobs  job.Repository
	users user.Repository
}

func NewJobService(jobs job.Repository, users user.Repository) *JobService {
	return &JobService{jobs: jobs, users: users}
}

type JobInput struct {
	Title          string
	Description    string
	JobType        string
	Salary         float64
	Vacancy        int
	CourseCriteria string
}

// JobPatch carries the employer-editable fields; nil means "leave
// unchanged".
type JobPatch struct {
	Title          *string
	Description    *string
	JobType        *string
	Salary         *float64
	Vacancy        *int
	CourseCriteria *string
	Status         *string
}

func (s *JobService) Create(ctx context.Context, employerID common.UUID, input JobInput) (*job.Job, error) {
	fields := map[string]string{}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(input.Description) == "" {
		fields["description"] = "description is required"
	}
	if strings.TrimSpace(input.CourseCriteria) == "" {
		fields["course_criteria"] = "course criteria is required"
	}
	if input.Salary < 0 {
		fields["salary"] = "salary must be a non-negative number"
	}
	if input.Vacancy < 0 {
		fields["vacancy"] = "vacancy must be a non-negative number"
	}
	jobType, err := job.ParseType(input.JobType)
	if err != nil {
		fields["job_type"] = "job type must be Remote or On-Site"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid job", fields)
	}
	created, err := s.jobs.Create(ctx, job.Job{
		EmployerID:     employerID,
		Title:          input.Title,
		Description:    input.Description,
		JobType:        jobType,
		Salary:         input.Salary,
		Vacancy:        input.Vacancy,
		CourseCriteria: input.CourseCriteria,
		Status:         job.StatusActive,
		Applications:   []job.Application{},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *JobService) Get(ctx context.Context, id common.UUID) (*job.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

func (s *JobService) List(ctx context.Context) ([]job.Job, error) {
	return s.jobs.List(ctx)
}

func (s *JobService) ListByEmployer(ctx context.Context, employerID common.UUID) ([]job.Job, error) {
	return s.jobs.ListByEmployer(ctx, employerID)
}

func (s *JobService) Update(ctx context.Context, jobID, employerID common.UUID, patch JobPatch) (*job.Job, error) {
	for attempt := 0; ; attempt++ {
		current, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if current.EmployerID != employerID {
			return nil, common.NewError(common.CodeForbidden, "job belongs to another employer", nil)
		}
		if err := applyPatch(current, patch); err != nil {
			return nil, err
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

func applyPatch(current *job.Job, patch JobPatch) error {
	fields := map[string]string{}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			fields["title"] = "title is required"
		} else {
			current.Title = *patch.Title
		}
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			fields["description"] = "description is required"
		} else {
			current.Description = *patch.Description
		}
	}
	if patch.CourseCriteria != nil {
		if strings.TrimSpace(*patch.CourseCriteria) == "" {
			fields["course_criteria"] = "course criteria is required"
		} else {
			current.CourseCriteria = *patch.CourseCriteria
		}
	}
	if patch.JobType != nil {
		jobType, err := job.ParseType(*patch.JobType)
		if err != nil {
			fields["job_type"] = "job type must be Remote or On-Site"
		} else {
			current.JobType = jobType
		}
	}
	if patch.Salary != nil {
		if *patch.Salary < 0 {
			fields["salary"] = "salary must be a non-negative number"
		} else {
			current.Salary = *patch.Salary
		}
	}
	if patch.Vacancy != nil {
		if *patch.Vacancy < 0 {
			fields["vacancy"] = "vacancy must be a non-negative number"
		} else {
			current.Vacancy = *patch.Vacancy
		}
	}
	if patch.Status != nil {
		status, err := job.ParseStatus(*patch.Status)
		if err != nil {
			fields["status"] = "status must be Active, Closed, or Pending"
		} else {
			current.Status = status
		}
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid job", fields)
	}
	return nil
}

func (s *JobService) Delete(ctx context.Context, jobID, employerID common.UUID) error {
	current, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if current.EmployerID != employerID {
		return common.NewError(common.CodeForbidden, "job belongs to another employer", nil)
	}
	return s.jobs.Delete(ctx, jobID)
}

// AnnotatedJob is a job with the calling seeker's application status
// attached; "Not Applied" when the seeker has no application on it.
type AnnotatedJob struct {
	job.Job
	ApplicationStatus string `json:"application_status"`
}

func (s *JobService) ListAnnotated(ctx context.Context, seekerID common.UUID) ([]AnnotatedJob, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	annotated := make([]AnnotatedJob, 0, len(jobs))
	for _, j := range jobs {
		status := job.NotApplied
		if app, ok := j.ApplicationByUser(seekerID); ok {
			status = string(app.Status)
		}
		annotated = append(annotated, AnnotatedJob{Job: j, ApplicationStatus: status})
	}
	return annotated, nil
}

// AppliedJob is a job the seeker has applied to, with that
// application's status and timestamp.
type AppliedJob struct {
	job.Job
	ApplicationStatus string    `json:"application_status"`
	AppliedAt         time.Time `json:"applied_at"`
}

func (s *JobService) ListApplied(ctx context.Context, seekerID common.UUID) ([]AppliedJob, error) {
	jobs, err := s.jobs.ListByApplicant(ctx, seekerID)
	if err != nil {
		return nil, err
	}
	applied := make([]AppliedJob, 0, len(jobs))
	for _, j := range jobs {
		app, ok := j.ApplicationByUser(seekerID)
		if !ok {
			continue
		}
		applied = append(applied, AppliedJob{Job: j, ApplicationStatus: string(app.Status), AppliedAt: app.AppliedAt})
	}
	return applied, nil
}

type ApplicantView struct {
	ApplicationID common.UUID           `json:"application_id"`
	UserName      string                `json:"user_name"`
	Status        job.ApplicationStatus `json:"status"`
	AppliedAt     time.Time             `json:"applied_at"`
}

type JobApplicationsView struct {
	ID             common.UUID     `json:"id"`
	JobTitle       string          `json:"job_title"`
	JobDescription string          `json:"job_description"`
	JobStatus      job.Status      `json:"job_status"`
	Applications   []ApplicantView `json:"applications"`
}

// ListEmployerApplications projects every application on the
// employer's jobs, with applicant display names resolved through the
// user repository.
func (s *JobService) ListEmployerApplications(ctx context.Context, employerID common.UUID) ([]JobApplicationsView, error) {
	jobs, err := s.jobs.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, err
	}
	applicantIDs := make([]common.UUID, 0)
	seen := make(map[common.UUID]bool)
	for _, j := range jobs {
		for _, app := range j.Applications {
			if !seen[app.UserID] {
				seen[app.UserID] = true
				applicantIDs = append(applicantIDs, app.UserID)
			}
		}
	}
	names := make(map[common.UUID]string, len(applicantIDs))
	if len(applicantIDs) > 0 {
		applicants, err := s.users.ListByIDs(ctx, applicantIDs)
		if err != nil {
			return nil, err
		}
		for _, applicant := range applicants {
			names[applicant.ID] = applicant.DisplayName()
		}
	}
	views := make([]JobApplicationsView, 0, len(jobs))
	for _, j := range jobs {
		view := JobApplicationsView{
			ID:             j.ID,
			JobTitle:       j.Title,
			JobDescription: j.Description,
			JobStatus:      j.Status,
			Applications:   make([]ApplicantView, 0, len(j.Applications)),
		}
		for _, app := range j.Applications {
			view.Applications = append(view.Applications, ApplicantView{
				ApplicationID: app.ID,
				UserName:      names[app.UserID],
				Status:        app.Status,
				AppliedAt:     app.AppliedAt,
			})
		}
		views = append(views, view)
	}
	return views, nil
}
