package repository

import (
	"context"
	"errors"

	"bandroom/internal/model"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrAvailabilityNotFound = errors.New("availability record not found")
	ErrRehearsalNotFound    = errors.New("rehearsal not found")
)

// Repository defines the contract for the persistence layer. The Postgres
// implementation is authoritative; the memory implementation backs tests.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	// Member operations
	CreateMember(ctx context.Context, member model.Member) error
	GetMemberByID(ctx context.Context, id uuid.UUID) (model.Member, error)
	ListMembers(ctx context.Context) ([]model.Member, error)
	UpdateMember(ctx context.Context, member model.Member) error
	DeleteMember(ctx context.Context, id uuid.UUID) error

	// Availability operations
	GetAvailability(ctx context.Context, memberID uuid.UUID, day string) (model.Availability, error)
	ListAvailability(ctx context.Context) ([]model.Availability, error)
	ListAvailabilityByMember(ctx context.Context, memberID uuid.UUID) ([]model.Availability, error)
	CreateAvailability(ctx context.Context, availability model.Availability) error
	UpdateAvailability(ctx context.Context, availability model.Availability) error
	DeleteAvailability(ctx context.Context, id uuid.UUID) error
	DeleteAvailabilityByMember(ctx context.Context, memberID uuid.UUID) error

	// Rehearsal operations
	CreateRehearsal(ctx context.Context, rehearsal model.Rehearsal) error
	ListRehearsals(ctx context.Context) ([]model.Rehearsal, error)
	ListRehearsalsOnDay(ctx context.Context, day string) ([]model.Rehearsal, error)
	RemoveParticipantFromRehearsals(ctx context.Context, memberID uuid.UUID) error
}
