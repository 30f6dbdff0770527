package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleCoach  UserRole = "coach"
	RolePlayer UserRole = "player"
)

type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CanManageTournaments reports whether the role may mutate tournament state.
func (r UserRole) CanManageTournaments() bool {
	return r == RoleAdmin || r == RoleCoach
}
