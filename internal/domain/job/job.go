package job

import (
	"strings"
	"time"

	"jobboard/internal/common"
)

type Status string

const (
	StatusActive  Status = "Active"
	StatusClosed  Status = "Closed"
	StatusPending Status = "Pending"
)

type Type string

const (
	TypeRemote Type = "Remote"
	TypeOnSite Type = "On-Site"
)

type ApplicationStatus string

const (
	ApplicationApplied     ApplicationStatus = "Applied"
	ApplicationShortlisted ApplicationStatus = "Shortlisted"
	ApplicationInterviewed ApplicationStatus = "Interviewed"
	ApplicationRejected    ApplicationStatus = "Rejected"
	ApplicationAccepted    ApplicationStatus = "Accepted"
)

// NotApplied is not a stored status; it is the annotation value for
// seekers who have no application on a job.
const NotApplied = "Not Applied"

// Application exists only embedded in its parent Job and is persisted
// together with it.
type Application struct {
	ID        common.UUID       `json:"id"`
	UserID    common.UUID       `json:"user_id"`
	Status    ApplicationStatus `json:"status"`
	AppliedAt time.Time         `json:"applied_at"`
}

// Job is the aggregate root. Version guards whole-aggregate writes:
// the repository rejects a Persist whose Version does not match the
// stored row.
type Job struct {
	ID             common.UUID   `json:"id"`
	EmployerID     common.UUID   `json:"employer_id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	JobType        Type          `json:"job_type"`
	Salary         float64       `json:"salary"`
	CourseCriteria string        `json:"course_criteria"`
	Vacancy        int           `json:"vacancy"`
	Status         Status        `json:"status"`
	Applications   []Application `json:"applications"`
	CreatedAt      time.Time     `json:"created_at"`
	Version        int64         `json:"-"`
}

// ApplicationByUser returns the caller's application, if any.
func (j *Job) ApplicationByUser(userID common.UUID) (*Application, bool) {
	for i := range j.Applications {
		if j.Applications[i].UserID == userID {
			return &j.Applications[i], true
		}
	}
	return nil, false
}

// ApplicationByID returns the application with the given id, if any.
func (j *Job) ApplicationByID(id common.UUID) (*Application, bool) {
	for i := range j.Applications {
		if j.Applications[i].ID == id {
			return &j.Applications[i], true
		}
	}
	return nil, false
}

func ParseStatus(value string) (Status, error) {
	switch normalize(value) {
	case "active":
		return StatusActive, nil
	case "closed":
		return StatusClosed, nil
	case "pending":
		return StatusPending, nil
	default:
		return "", common.NewValidationError("invalid job status", map[string]string{"status": "status must be Active, Closed, or Pending"})
	}
}

func ParseType(value string) (Type, error) {
	switch normalize(value) {
	case "remote":
		return TypeRemote, nil
	case "on-site", "onsite":
		return TypeOnSite, nil
	default:
		return "", common.NewValidationError("invalid job type", map[string]string{"job_type": "job type must be Remote or On-Site"})
	}
}

// ParseApplicationStatus maps any casing to the canonical capitalized
// form used in storage and responses.
func ParseApplicationStatus(value string) (ApplicationStatus, error) {
	switch normalize(value) {
	case "applied":
		return ApplicationApplied, nil
	case "shortlisted":
		return ApplicationShortlisted, nil
	case "interviewed":
		return ApplicationInterviewed, nil
	case "rejected":
		return ApplicationRejected, nil
	case "accepted":
		return ApplicationAccepted, nil
	default:
		return "", common.NewValidationError("invalid application status", map[string]string{"status": "status must be Applied, Shortlisted, Interviewed, Rejected, or Accepted"})
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
