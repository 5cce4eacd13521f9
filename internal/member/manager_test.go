package member

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"bandroom/internal/model"
	"bandroom/internal/repository"
	"bandroom/internal/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(repo repository.Repository) Manager {
	return NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)
}

func TestCreateMember(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(repo)

	created, err := m.Create(context.Background(), CreateParams{
		Name:       "Anna",
		Email:      util.Some("anna@example.com"),
		Instrument: util.Some("drums"),
		Color:      "#ff0000",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	stored, err := repo.GetMemberByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", stored.Name)
	assert.Equal(t, "drums", stored.Instrument.UnwrapOr(""))
}

func TestUpdateMemberNotFound(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(repo)

	_, err := m.Update(context.Background(), uuid.New(), UpdateParams{Name: "Anna", Color: "#ff0000"})
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)
}

func TestDeleteMemberCascades(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(repo)
	ctx := context.Background()

	anna, err := m.Create(ctx, CreateParams{Name: "Anna", Color: "#ff0000"})
	require.NoError(t, err)
	ben, err := m.Create(ctx, CreateParams{Name: "Ben", Color: "#00ff00"})
	require.NoError(t, err)

	for _, memberID := range []uuid.UUID{anna.ID, ben.ID} {
		require.NoError(t, repo.CreateAvailability(ctx, model.Availability{
			ID:       uuid.New(),
			MemberID: memberID,
			Day:      "2025-06-09",
			Status:   model.StatusAvailable,
		}))
	}
	rehearsal := model.Rehearsal{
		ID:           uuid.New(),
		Day:          "2025-06-09",
		Participants: []uuid.UUID{anna.ID, ben.ID},
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.CreateRehearsal(ctx, rehearsal))

	require.NoError(t, m.Delete(ctx, anna.ID))

	// Anna is gone, along with her availability and her rehearsal slot.
	_, err = repo.GetMemberByID(ctx, anna.ID)
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)
	_, err = repo.GetAvailability(ctx, anna.ID, "2025-06-09")
	assert.ErrorIs(t, err, repository.ErrAvailabilityNotFound)

	rehearsals, err := repo.ListRehearsals(ctx)
	require.NoError(t, err)
	require.Len(t, rehearsals, 1)
	assert.Equal(t, []uuid.UUID{ben.ID}, rehearsals[0].Participants)

	// Ben's records are untouched.
	_, err = repo.GetMemberByID(ctx, ben.ID)
	require.NoError(t, err)
	_, err = repo.GetAvailability(ctx, ben.ID, "2025-06-09")
	require.NoError(t, err)
}

func TestDeleteMemberNotFound(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(repo)

	err := m.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)
}
