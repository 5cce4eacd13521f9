package rehearsal

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"bandroom/internal/config"
	"bandroom/internal/model"
	"bandroom/internal/monitoring"
	"bandroom/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, repo repository.Repository) Manager {
	t.Helper()
	tel, err := monitoring.NewOpenTelemetry(config.TelemetryConfig{})
	require.NoError(t, err)
	return NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, tel)
}

func addMember(t *testing.T, repo repository.Repository, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, repo.CreateMember(context.Background(), model.Member{
		ID:        id,
		Name:      name,
		Color:     "#336699",
		CreatedAt: time.Now().UTC(),
	}))
	return id
}

func TestCreateDefaultsParticipantsToRoster(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(t, repo)

	anna := addMember(t, repo, "Anna")
	ben := addMember(t, repo, "Ben")

	created, err := m.Create(context.Background(), CreateParams{
		Day:      "2025-06-09",
		Time:     "19:00",
		Duration: "2h",
		Location: "Studio B",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{anna, ben}, created.Participants)

	// Roster growth after creation does not change the list.
	addMember(t, repo, "Cleo")
	rehearsals, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rehearsals, 1)
	assert.Len(t, rehearsals[0].Participants, 2)
}

func TestCreateWithEmptyRoster(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(t, repo)

	created, err := m.Create(context.Background(), CreateParams{
		Day:      "2025-06-09",
		Time:     "19:00",
		Duration: "2h",
		Location: "Studio B",
	})
	require.NoError(t, err)
	assert.Empty(t, created.Participants)
}

func TestListOnDay(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(t, repo)

	_, err := m.Create(context.Background(), CreateParams{Day: "2025-06-09", Time: "19:00", Duration: "2h", Location: "Studio B"})
	require.NoError(t, err)
	_, err = m.Create(context.Background(), CreateParams{Day: "2025-06-10", Time: "20:00", Duration: "1h", Location: "Studio A"})
	require.NoError(t, err)

	onDay, err := m.ListOnDay(context.Background(), "2025-06-09")
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, "Studio B", onDay[0].Location)
}
