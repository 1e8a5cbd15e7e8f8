package domain

import "time"

// User is a platform account. Accounts are created (or linked) when an
// invite is accepted; email is the unique account key.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	Role          Role
	InstitutionID string // empty for platform-level roles
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
