package model

import (
	"time"

	"bandroom/internal/util"

	"github.com/google/uuid"
)

// User is a login account. Accounts are separate from roster members: an
// account belongs to whoever opens the scheduler, a member is an entry on the
// team roster that availability and rehearsals reference.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Member is one person on the team roster.
type Member struct {
	ID         uuid.UUID             `json:"id"`
	Name       string                `json:"name"`
	Email      util.Optional[string] `json:"email"`
	Instrument util.Optional[string] `json:"instrument"`
	Color      string                `json:"color"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusUnavailable AvailabilityStatus = "unavailable"
	StatusMaybe       AvailabilityStatus = "maybe"
)

// Valid reports whether s is one of the three recorded statuses. The absence
// of a record is the fourth state ("no response") and is never stored.
func (s AvailabilityStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusUnavailable, StatusMaybe:
		return true
	}
	return false
}

// Availability records one member's status for one calendar day. At most one
// record exists per (member, day) pair; reconciliation enforces this.
type Availability struct {
	ID        uuid.UUID             `json:"id"`
	MemberID  uuid.UUID             `json:"member_id"`
	Day       string                `json:"day"` // YYYY-MM-DD
	Status    AvailabilityStatus    `json:"status"`
	Notes     util.Optional[string] `json:"notes"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Rehearsal is a scheduled rehearsal. Participants are fixed to the roster as
// it stood at creation time and are not recomputed afterwards.
type Rehearsal struct {
	ID           uuid.UUID   `json:"id"`
	Day          string      `json:"day"` // YYYY-MM-DD
	Time         string      `json:"time"`
	Duration     string      `json:"duration"`
	Location     string      `json:"location"`
	Description  string      `json:"description"`
	Participants []uuid.UUID `json:"participants"`
	CreatedAt    time.Time   `json:"created_at"`
}
