package domain

import "time"

// Institution is a tenant on the accreditation platform.
type Institution struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
