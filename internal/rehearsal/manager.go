package rehearsal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bandroom/internal/model"
	"bandroom/internal/monitoring"
	"bandroom/internal/repository"

	"github.com/google/uuid"
)

// Manager schedules rehearsals. Rehearsals are created and listed only;
// there is no update or delete path.
type Manager struct {
	logger    *slog.Logger
	repo      repository.Repository
	telemetry monitoring.Telemetry
}

func NewManager(logger *slog.Logger, repo repository.Repository, telemetry monitoring.Telemetry) Manager {
	return Manager{logger: logger, repo: repo, telemetry: telemetry}
}

type CreateParams struct {
	Day         string
	Time        string
	Duration    string
	Location    string
	Description string
}

// Create schedules a rehearsal. Participants default to the full roster as
// it stands right now; later roster changes do not recompute the list
// (except member deletion, which strikes the id).
func (m *Manager) Create(ctx context.Context, params CreateParams) (model.Rehearsal, error) {
	members, err := m.repo.ListMembers(ctx)
	if err != nil {
		return model.Rehearsal{}, fmt.Errorf("list roster: %w", err)
	}

	participants := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		participants = append(participants, member.ID)
	}

	rehearsal := model.Rehearsal{
		ID:           uuid.New(),
		Day:          params.Day,
		Time:         params.Time,
		Duration:     params.Duration,
		Location:     params.Location,
		Description:  params.Description,
		Participants: participants,
		CreatedAt:    time.Now().UTC(),
	}

	if err := m.repo.CreateRehearsal(ctx, rehearsal); err != nil {
		return model.Rehearsal{}, fmt.Errorf("create rehearsal: %w", err)
	}

	m.telemetry.RecordRehearsalCreated(ctx)
	m.logger.InfoContext(ctx, "Rehearsal scheduled",
		"rehearsal_id", rehearsal.ID, "day", rehearsal.Day, "participants", len(participants))
	return rehearsal, nil
}

func (m *Manager) List(ctx context.Context) ([]model.Rehearsal, error) {
	return m.repo.ListRehearsals(ctx)
}

func (m *Manager) ListOnDay(ctx context.Context, day string) ([]model.Rehearsal, error) {
	return m.repo.ListRehearsalsOnDay(ctx, day)
}
