package user

import (
	"time"

	"jobboard/internal/common"
)

type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// User is the identity record the core joins against for display
// names. Password hashes live in this table but are never selected
// by the repository.
type User struct {
	ID        common.UUID `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	Role      Role        `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}
