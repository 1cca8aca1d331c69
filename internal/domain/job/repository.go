package job

import (
	"context"

	"jobboard/internal/common"
)

// Repository stores Job aggregates whole. Persist writes the job row
// and its applications in one unit and fails with CodeConflict when
// the aggregate Version no longer matches the stored one.
type Repository interface {
	Create(ctx context.Context, j Job) (*Job, error)
	GetByID(ctx context.Context, id common.UUID) (*Job, error)
	List(ctx context.Context) ([]Job, error)
	ListByEmployer(ctx context.Context, employerID common.UUID) ([]Job, error)
	ListByApplicant(ctx context.Context, userID common.UUID) ([]Job, error)
	Persist(ctx context.Context, j Job) (*Job, error)
	Delete(ctx context.Context, id common.UUID) error
}
