package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"jobboard/internal/common"
	"jobboard/internal/domain/job"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, employer_id, title, description, job_type, salary, course_criteria, vacancy, status, created_at, version`

func (r *JobRepository) Create(ctx context.Context, j job.Job) (*job.Job, error) {
	j.ID = common.NewUUID()
	j.CreatedAt = time.Now().UTC()
	j.Version = 1
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()
	_, err = tx.ExecContext(ctx, `INSERT INTO jobs (id, employer_id, title, description, job_type, salary, course_criteria, vacancy, status, created_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		j.ID, j.EmployerID, j.Title, j.Description, j.JobType, j.Salary, j.CourseCriteria, j.Vacancy, j.Status, j.CreatedAt, j.Version)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job", err)
	}
	if err := insertApplications(ctx, tx, j.ID, j.Applications); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit job", err)
	}
	return &j, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		return nil, err
	}
	apps, err := r.loadApplications(ctx, `SELECT id, job_id, user_id, status, applied_at FROM applications WHERE job_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	j.Applications = apps[j.ID]
	if j.Applications == nil {
		j.Applications = []job.Application{}
	}
	return j, nil
}

func (r *JobRepository) List(ctx context.Context) ([]job.Job, error) {
	jobs, err := r.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	apps, err := r.loadApplications(ctx, `SELECT id, job_id, user_id, status, applied_at FROM applications ORDER BY job_id, position`)
	if err != nil {
		return nil, err
	}
	return attachApplications(jobs, apps), nil
}

func (r *JobRepository) ListByEmployer(ctx context.Context, employerID common.UUID) ([]job.Job, error) {
	jobs, err := r.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs WHERE employer_id = $1 ORDER BY created_at DESC`, employerID)
	if err != nil {
		return nil, err
	}
	apps, err := r.loadApplications(ctx, `SELECT a.id, a.job_id, a.user_id, a.status, a.applied_at
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE j.employer_id = $1
		ORDER BY a.job_id, a.position`, employerID)
	if err != nil {
		return nil, err
	}
	return attachApplications(jobs, apps), nil
}

func (r *JobRepository) ListByApplicant(ctx context.Context, userID common.UUID) ([]job.Job, error) {
	jobs, err := r.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs
		WHERE id IN (SELECT job_id FROM applications WHERE user_id = $1)
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	apps, err := r.loadApplications(ctx, `SELECT id, job_id, user_id, status, applied_at FROM applications
		WHERE job_id IN (SELECT job_id FROM applications WHERE user_id = $1)
		ORDER BY job_id, position`, userID)
	if err != nil {
		return nil, err
	}
	return attachApplications(jobs, apps), nil
}

// Persist writes the whole aggregate in one transaction. The version
// predicate rejects writes over a concurrently modified row so the
// vacancy counter and application list are never torn apart.
func (r *JobRepository) Persist(ctx context.Context, j job.Job) (*job.Job, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()
	result, err := tx.ExecContext(ctx, `UPDATE jobs SET title = $1, description = $2, job_type = $3, salary = $4, course_criteria = $5, vacancy = $6, status = $7, version = version + 1
		WHERE id = $8 AND version = $9`,
		j.Title, j.Description, j.JobType, j.Salary, j.CourseCriteria, j.Vacancy, j.Status, j.ID, j.Version)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		var exists bool
		if scanErr := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, j.ID).Scan(&exists); scanErr == nil && !exists {
			return nil, common.NewError(common.CodeNotFound, "job not found", sql.ErrNoRows)
		}
		return nil, common.NewError(common.CodeConflict, "job was modified concurrently", nil)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE job_id = $1`, j.ID); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to replace applications", err)
	}
	if err := insertApplications(ctx, tx, j.ID, j.Applications); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit job", err)
	}
	j.Version++
	return &j, nil
}

func (r *JobRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete job", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "job not found", sql.ErrNoRows)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertApplications(ctx context.Context, tx execer, jobID common.UUID, apps []job.Application) error {
	for i, app := range apps {
		_, err := tx.ExecContext(ctx, `INSERT INTO applications (id, job_id, user_id, status, applied_at, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			app.ID, jobID, app.UserID, app.Status, app.AppliedAt, i)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return common.NewError(common.CodeConflict, "duplicate application", err)
			}
			return common.NewError(common.CodeInternal, "failed to insert application", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*job.Job, error) {
	var j job.Job
	if err := row.Scan(&j.ID, &j.EmployerID, &j.Title, &j.Description, &j.JobType, &j.Salary, &j.CourseCriteria, &j.Vacancy, &j.Status, &j.CreatedAt, &j.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load job", err)
	}
	return &j, nil
}

func (r *JobRepository) queryJobs(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list jobs", err)
	}
	defer rows.Close()
	var items []job.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *j)
	}
	return items, nil
}

func (r *JobRepository) loadApplications(ctx context.Context, query string, args ...any) (map[common.UUID][]job.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	grouped := make(map[common.UUID][]job.Application)
	for rows.Next() {
		var app job.Application
		var jobID common.UUID
		if err := rows.Scan(&app.ID, &jobID, &app.UserID, &app.Status, &app.AppliedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		grouped[jobID] = append(grouped[jobID], app)
	}
	return grouped, nil
}

func attachApplications(jobs []job.Job, apps map[common.UUID][]job.Application) []job.Job {
	for i := range jobs {
		jobs[i].Applications = apps[jobs[i].ID]
		if jobs[i].Applications == nil {
			jobs[i].Applications = []job.Application{}
		}
	}
	return jobs
}
