package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
)

// UserRepository reads identity records for display-name joins. The
// password_hash column is deliberately never selected.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, username, role, created_at`

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	var u user.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Username, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	return &u, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []common.UUID) ([]user.User, error) {
	if len(ids) == 0 {
		return []user.User{}, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list users", err)
	}
	defer rows.Close()
	var items []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Username, &u.Role, &u.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan user", err)
		}
		items = append(items, u)
	}
	return items, nil
}
