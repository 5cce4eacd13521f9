package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"bandroom/internal/model"
	"bandroom/internal/schedule"
	"bandroom/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CalendarDay is the rendering input for one calendar cell: the acting
// member's recorded status (empty when no response) and any rehearsals that
// day.
type CalendarDay struct {
	Day        schedule.DayKey   `json:"day"`
	Status     string            `json:"status,omitempty"`
	Rehearsals []model.Rehearsal `json:"rehearsals,omitempty"`
}

// Calendar serves the month view: GET /api/calendar/:month with month in
// YYYY-MM form and an optional member_id query for whose availability to
// project onto the cells.
func (h *AppHandler) Calendar(c *fiber.Ctx) error {
	month, err := time.Parse("2006-01", c.Params("month"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month, expected YYYY-MM"})
	}

	memberID := uuid.Nil
	if raw := c.Query("member_id"); raw != "" {
		memberID, err = uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid member id"})
		}
	}

	snap := h.projection.Snapshot()
	rehearsalsByDay := make(map[string][]model.Rehearsal)
	for _, rehearsal := range snap.Rehearsals {
		rehearsalsByDay[rehearsal.Day] = append(rehearsalsByDay[rehearsal.Day], rehearsal)
	}

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var days []CalendarDay
	for _, key := range schedule.ExpandRange(first, last) {
		day := CalendarDay{Day: key, Rehearsals: rehearsalsByDay[string(key)]}
		if memberID != uuid.Nil {
			if record, ok := h.projection.AvailabilityFor(memberID, string(key)); ok {
				day.Status = string(record.Status)
			}
		}
		days = append(days, day)
	}

	return c.JSON(fiber.Map{"month": c.Params("month"), "days": days})
}

// CalendarStream pushes a server-sent event with the full snapshot on every
// change, so the client re-renders without polling. The subscription is
// cancelled when the client goes away.
func (h *AppHandler) CalendarStream(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	snapshots, cancel := h.projection.Subscribe()
	logger := h.telemetry.Logger()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		streamSnapshots(w, snapshots, logger)
	})
	return nil
}

// streamSnapshots writes one SSE frame per snapshot until the subscription
// closes or the client goes away (a failed write or flush).
func streamSnapshots(w *bufio.Writer, snapshots <-chan store.Snapshot, logger *slog.Logger) {
	for snap := range snapshots {
		payload, err := json.Marshal(snap)
		if err != nil {
			logger.Error("Failed to marshal snapshot", "error", err)
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}
