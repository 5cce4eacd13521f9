package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bandroom/internal/model"
	"bandroom/internal/monitoring"
	"bandroom/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidStatus = errors.New("invalid availability status")

// Manager owns the reconciliation operation: making stored availability
// records match a requested status for a set of days.
type Manager struct {
	logger    *slog.Logger
	repo      repository.Repository
	telemetry monitoring.Telemetry
}

func NewManager(logger *slog.Logger, repo repository.Repository, telemetry monitoring.Telemetry) Manager {
	return Manager{logger: logger, repo: repo, telemetry: telemetry}
}

// Reconcile upserts or deletes availability records so that every day in
// days ends up either carrying the requested status or, where that status
// was already recorded, cleared back to no response (toggle-off).
//
// Days are independent: a failed write abandons that day only, the others
// proceed and nothing is rolled back. The first error is returned after all
// days have been tried. Concurrent calls for the same (member, day) are not
// sequenced; the store's write order decides, last write wins.
func (m *Manager) Reconcile(ctx context.Context, memberID uuid.UUID, status model.AvailabilityStatus, days []DayKey) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var firstErr error
	for _, day := range days {
		if err := m.reconcileDay(ctx, memberID, status, day); err != nil {
			m.logger.ErrorContext(ctx, "Failed to reconcile availability",
				"member_id", memberID, "day", day, "status", status, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *Manager) reconcileDay(ctx context.Context, memberID uuid.UUID, status model.AvailabilityStatus, day DayKey) error {
	existing, err := m.repo.GetAvailability(ctx, memberID, string(day))
	switch {
	case errors.Is(err, repository.ErrAvailabilityNotFound):
		now := time.Now().UTC()
		record := model.Availability{
			ID:        uuid.New(),
			MemberID:  memberID,
			Day:       string(day),
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := m.repo.CreateAvailability(ctx, record); err != nil {
			return fmt.Errorf("create availability: %w", err)
		}
		m.telemetry.RecordAvailabilityWrite(ctx, "create")
		return nil

	case err != nil:
		return fmt.Errorf("lookup availability: %w", err)

	case existing.Status != status:
		existing.Status = status
		if err := m.repo.UpdateAvailability(ctx, existing); err != nil {
			return fmt.Errorf("update availability: %w", err)
		}
		m.telemetry.RecordAvailabilityWrite(ctx, "update")
		return nil

	default:
		// Same status marked again: toggle-off, clear the day entirely.
		if err := m.repo.DeleteAvailability(ctx, existing.ID); err != nil {
			return fmt.Errorf("delete availability: %w", err)
		}
		m.telemetry.RecordAvailabilityWrite(ctx, "delete")
		return nil
	}
}
