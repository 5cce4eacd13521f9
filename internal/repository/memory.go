package repository

import (
	"context"
	"slices"
	"sync"

	"bandroom/internal/model"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository used by tests. It applies the
// same uniqueness rules as the Postgres schema but provides no persistence.
type MemoryRepository struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]model.User
	members      map[uuid.UUID]model.Member
	availability map[uuid.UUID]model.Availability
	rehearsals   map[uuid.UUID]model.Rehearsal
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:        make(map[uuid.UUID]model.User),
		members:      make(map[uuid.UUID]model.Member),
		availability: make(map[uuid.UUID]model.Availability),
		rehearsals:   make(map[uuid.UUID]model.Rehearsal),
	}
}

func (r *MemoryRepository) CreateUser(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *MemoryRepository) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

func (r *MemoryRepository) CreateMember(_ context.Context, member model.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[member.ID] = member
	return nil
}

func (r *MemoryRepository) GetMemberByID(_ context.Context, id uuid.UUID) (model.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	member, ok := r.members[id]
	if !ok {
		return model.Member{}, ErrMemberNotFound
	}
	return member, nil
}

func (r *MemoryRepository) ListMembers(_ context.Context) ([]model.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]model.Member, 0, len(r.members))
	for _, member := range r.members {
		members = append(members, member)
	}
	slices.SortFunc(members, func(a, b model.Member) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return members, nil
}

func (r *MemoryRepository) UpdateMember(_ context.Context, member model.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[member.ID]; !ok {
		return ErrMemberNotFound
	}
	r.members[member.ID] = member
	return nil
}

func (r *MemoryRepository) DeleteMember(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return ErrMemberNotFound
	}
	delete(r.members, id)
	return nil
}

func (r *MemoryRepository) GetAvailability(_ context.Context, memberID uuid.UUID, day string) (model.Availability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, availability := range r.availability {
		if availability.MemberID == memberID && availability.Day == day {
			return availability, nil
		}
	}
	return model.Availability{}, ErrAvailabilityNotFound
}

func (r *MemoryRepository) ListAvailability(_ context.Context) ([]model.Availability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]model.Availability, 0, len(r.availability))
	for _, availability := range r.availability {
		records = append(records, availability)
	}
	slices.SortFunc(records, func(a, b model.Availability) int {
		if a.Day != b.Day {
			if a.Day < b.Day {
				return -1
			}
			return 1
		}
		return 0
	})
	return records, nil
}

func (r *MemoryRepository) ListAvailabilityByMember(ctx context.Context, memberID uuid.UUID) ([]model.Availability, error) {
	all, err := r.ListAvailability(ctx)
	if err != nil {
		return nil, err
	}
	var records []model.Availability
	for _, availability := range all {
		if availability.MemberID == memberID {
			records = append(records, availability)
		}
	}
	return records, nil
}

func (r *MemoryRepository) CreateAvailability(_ context.Context, availability model.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.availability[availability.ID] = availability
	return nil
}

func (r *MemoryRepository) UpdateAvailability(_ context.Context, availability model.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.availability[availability.ID]
	if !ok {
		return ErrAvailabilityNotFound
	}
	existing.Status = availability.Status
	existing.Notes = availability.Notes
	r.availability[availability.ID] = existing
	return nil
}

func (r *MemoryRepository) DeleteAvailability(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.availability[id]; !ok {
		return ErrAvailabilityNotFound
	}
	delete(r.availability, id)
	return nil
}

func (r *MemoryRepository) DeleteAvailabilityByMember(_ context.Context, memberID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, availability := range r.availability {
		if availability.MemberID == memberID {
			delete(r.availability, id)
		}
	}
	return nil
}

func (r *MemoryRepository) CreateRehearsal(_ context.Context, rehearsal model.Rehearsal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rehearsals[rehearsal.ID] = rehearsal
	return nil
}

func (r *MemoryRepository) ListRehearsals(_ context.Context) ([]model.Rehearsal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rehearsals := make([]model.Rehearsal, 0, len(r.rehearsals))
	for _, rehearsal := range r.rehearsals {
		rehearsals = append(rehearsals, rehearsal)
	}
	slices.SortFunc(rehearsals, func(a, b model.Rehearsal) int {
		if a.Day != b.Day {
			if a.Day < b.Day {
				return -1
			}
			return 1
		}
		return 0
	})
	return rehearsals, nil
}

func (r *MemoryRepository) ListRehearsalsOnDay(ctx context.Context, day string) ([]model.Rehearsal, error) {
	all, err := r.ListRehearsals(ctx)
	if err != nil {
		return nil, err
	}
	var rehearsals []model.Rehearsal
	for _, rehearsal := range all {
		if rehearsal.Day == day {
			rehearsals = append(rehearsals, rehearsal)
		}
	}
	return rehearsals, nil
}

func (r *MemoryRepository) RemoveParticipantFromRehearsals(_ context.Context, memberID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rehearsal := range r.rehearsals {
		rehearsal.Participants = slices.DeleteFunc(slices.Clone(rehearsal.Participants), func(p uuid.UUID) bool {
			return p == memberID
		})
		r.rehearsals[id] = rehearsal
	}
	return nil
}
