package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"bandroom/internal/config"
	"bandroom/internal/model"
	"bandroom/internal/monitoring"
	"bandroom/internal/repository"
	"bandroom/internal/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, repo repository.Repository) Manager {
	t.Helper()
	tel, err := monitoring.NewOpenTelemetry(config.TelemetryConfig{})
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(logger, repo, tel)
}

func TestReconcileCreatesMissingRecords(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(t, repo)
	memberID := uuid.New()

	err := m.Reconcile(context.Background(), memberID, model.StatusAvailable, []DayKey{"2025-06-09", "2025-06-10"})
	require.NoError(t, err)

	records, err := repo.ListAvailabilityByMember(context.Background(), memberID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, model.StatusAvailable, record.Status)
	}
}

func TestReconcileOverwritesDifferentStatus(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(t, repo)
	memberID := uuid.New()

	require.NoError(t, m.Reconcile(context.Background(), memberID, model.StatusAvailable, []DayKey{"2025-06-09"}))
	require.NoError(t, m.Reconcile(context.Background(), memberID, model.StatusUnavailable, []DayKey{"2025-06-09"}))

	record, err := repo.GetAvailability(context.Background(), memberID, "2025-06-09")
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnavailable, record.Status)

	// Still exactly one record for the day.
	records, err := repo.ListAvailabilityByMember(context.Background(), memberID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReconcileSameStatusTogglesOff(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(t, repo)
	memberID := uuid.New()

	require.NoError(t, m.Reconcile(context.Background(), memberID, model.StatusMaybe, []DayKey{"2025-06-09"}))
	require.NoError(t, m.Reconcile(context.Background(), memberID, model.StatusMaybe, []DayKey{"2025-06-09"}))

	// The round trip ends in absence, not in a record with some cleared state.
	_, err := repo.GetAvailability(context.Background(), memberID, "2025-06-09")
	assert.ErrorIs(t, err, repository.ErrAvailabilityNotFound)
}

func TestReconcileMixedRange(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(t, repo)
	memberID := uuid.New()

	// Day one already carries the requested status, day two carries another,
	// day three has no record. One pass toggles, overwrites and creates.
	require.NoError(t, m.Reconcile(context.Background(), memberID, model.StatusAvailable, []DayKey{"2025-06-09"}))
	require.NoError(t, m.Reconcile(context.Background(), memberID, model.StatusUnavailable, []DayKey{"2025-06-10"}))

	err := m.Reconcile(context.Background(), memberID, model.StatusAvailable, []DayKey{"2025-06-09", "2025-06-10", "2025-06-11"})
	require.NoError(t, err)

	_, err = repo.GetAvailability(context.Background(), memberID, "2025-06-09")
	assert.ErrorIs(t, err, repository.ErrAvailabilityNotFound)

	record, err := repo.GetAvailability(context.Background(), memberID, "2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, record.Status)

	record, err = repo.GetAvailability(context.Background(), memberID, "2025-06-11")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, record.Status)
}

func TestReconcileKeepsNotesOnOverwrite(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(t, repo)
	memberID := uuid.New()

	require.NoError(t, repo.CreateAvailability(context.Background(), model.Availability{
		ID:       uuid.New(),
		MemberID: memberID,
		Day:      "2025-06-09",
		Status:   model.StatusAvailable,
		Notes:    util.Some("bring the spare amp"),
	}))

	require.NoError(t, m.Reconcile(context.Background(), memberID, model.StatusMaybe, []DayKey{"2025-06-09"}))

	record, err := repo.GetAvailability(context.Background(), memberID, "2025-06-09")
	require.NoError(t, err)
	assert.Equal(t, model.StatusMaybe, record.Status)
	assert.Equal(t, "bring the spare amp", record.Notes.UnwrapOr(""))
}

func TestReconcileRejectsInvalidStatus(t *testing.T) {
	repo := repository.NewMemoryRepository()
	m := newTestManager(t, repo)

	err := m.Reconcile(context.Background(), uuid.New(), model.AvailabilityStatus("busy"), []DayKey{"2025-06-09"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

// failingRepository injects a write failure for one specific day.
type failingRepository struct {
	*repository.MemoryRepository
	failDay string
}

func (r *failingRepository) CreateAvailability(ctx context.Context, availability model.Availability) error {
	if availability.Day == r.failDay {
		return errors.New("write failed")
	}
	return r.MemoryRepository.CreateAvailability(ctx, availability)
}

func TestReconcileContinuesPastFailedDay(t *testing.T) {
	repo := &failingRepository{MemoryRepository: repository.NewMemoryRepository(), failDay: "2025-06-10"}
	m := newTestManager(t, repo)
	memberID := uuid.New()

	err := m.Reconcile(context.Background(), memberID, model.StatusAvailable, []DayKey{"2025-06-09", "2025-06-10", "2025-06-11"})
	require.Error(t, err)

	// The failed day is absent, the surrounding days landed and nothing was
	// rolled back.
	_, err = repo.GetAvailability(context.Background(), memberID, "2025-06-10")
	assert.ErrorIs(t, err, repository.ErrAvailabilityNotFound)

	for _, day := range []string{"2025-06-09", "2025-06-11"} {
		record, err := repo.GetAvailability(context.Background(), memberID, day)
		require.NoError(t, err)
		assert.Equal(t, model.StatusAvailable, record.Status)
	}
}
