package member

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bandroom/internal/model"
	"bandroom/internal/repository"
	"bandroom/internal/util"

	"github.com/google/uuid"
)

// Manager owns the team roster.
type Manager struct {
	logger *slog.Logger
	repo   repository.Repository
}

func NewManager(logger *slog.Logger, repo repository.Repository) Manager {
	return Manager{logger: logger, repo: repo}
}

type CreateParams struct {
	Name       string
	Email      util.Optional[string]
	Instrument util.Optional[string]
	Color      string
}

func (m *Manager) Create(ctx context.Context, params CreateParams) (model.Member, error) {
	now := time.Now().UTC()
	member := model.Member{
		ID:         uuid.New(),
		Name:       params.Name,
		Email:      params.Email,
		Instrument: params.Instrument,
		Color:      params.Color,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := m.repo.CreateMember(ctx, member); err != nil {
		return model.Member{}, fmt.Errorf("create member: %w", err)
	}

	m.logger.InfoContext(ctx, "Member added to roster", "member_id", member.ID, "name", member.Name)
	return member, nil
}

func (m *Manager) Get(ctx context.Context, id uuid.UUID) (model.Member, error) {
	return m.repo.GetMemberByID(ctx, id)
}

func (m *Manager) List(ctx context.Context) ([]model.Member, error) {
	return m.repo.ListMembers(ctx)
}

type UpdateParams struct {
	Name       string
	Email      util.Optional[string]
	Instrument util.Optional[string]
	Color      string
}

func (m *Manager) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (model.Member, error) {
	member, err := m.repo.GetMemberByID(ctx, id)
	if err != nil {
		return model.Member{}, err
	}

	member.Name = params.Name
	member.Email = params.Email
	member.Instrument = params.Instrument
	member.Color = params.Color
	member.UpdatedAt = time.Now().UTC()

	if err := m.repo.UpdateMember(ctx, member); err != nil {
		return model.Member{}, fmt.Errorf("update member: %w", err)
	}
	return member, nil
}

// Delete removes a member and cascades: the member's availability records go
// with them and their id is struck from every rehearsal's participant list.
// Other members' records are untouched.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := m.repo.GetMemberByID(ctx, id); err != nil {
		return err
	}

	if err := m.repo.DeleteAvailabilityByMember(ctx, id); err != nil {
		return fmt.Errorf("delete member availability: %w", err)
	}
	if err := m.repo.RemoveParticipantFromRehearsals(ctx, id); err != nil {
		return fmt.Errorf("remove member from rehearsals: %w", err)
	}
	if err := m.repo.DeleteMember(ctx, id); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}

	m.logger.InfoContext(ctx, "Member removed from roster", "member_id", id)
	return nil
}
