package user

import (
	"context"

	"jobboard/internal/common"
)

type Repository interface {
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	ListByIDs(ctx context.Context, ids []common.UUID) ([]User, error)
}
