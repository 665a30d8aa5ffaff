package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the read-only view of a registered account needed to resolve invitees.
type User struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Handicap  *float64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
