package api

import (
	"bandroom/internal/model"
	"bandroom/internal/schedule"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type reconcileRequest struct {
	MemberID string   `json:"member_id" validate:"required,uuid"`
	Status   string   `json:"status" validate:"required,availability_status"`
	Days     []string `json:"days" validate:"required,min=1,dive,day_key"`
}

// Reconcile applies a status to a set of days directly, without a gesture.
// This is the path that can record "maybe".
func (h *AppHandler) Reconcile(c *fiber.Ctx) error {
	var req reconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	memberID := uuid.MustParse(req.MemberID)
	days := make([]schedule.DayKey, 0, len(req.Days))
	for _, day := range req.Days {
		days = append(days, schedule.DayKey(day))
	}

	if err := h.scheduler.Reconcile(c.Context(), memberID, model.AvailabilityStatus(req.Status), days); err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to update availability", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update availability"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

type dragPressRequest struct {
	MemberID string `json:"member_id" validate:"omitempty,uuid"`
	Status   string `json:"status" validate:"required,availability_status"`
	Day      string `json:"day" validate:"required,day_key"`
}

// DragPress anchors a gesture. Pressing with no acting member selected is a
// no-op and the gesture stays idle.
func (h *AppHandler) DragPress(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	var req dragPressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	memberID := uuid.Nil
	if req.MemberID != "" {
		memberID = uuid.MustParse(req.MemberID)
	}

	var selection []schedule.DayKey
	h.withDrag(sess.ID(), func(d *schedule.Drag) {
		d.Press(memberID, model.AvailabilityStatus(req.Status), schedule.DayKey(req.Day))
		selection = d.Selection()
	})
	return c.JSON(fiber.Map{"selection": selection})
}

type dragEnterRequest struct {
	Day string `json:"day" validate:"required,day_key"`
}

func (h *AppHandler) DragEnter(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	var req dragEnterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var selection []schedule.DayKey
	h.withDrag(sess.ID(), func(d *schedule.Drag) {
		d.Enter(schedule.DayKey(req.Day))
		selection = d.Selection()
	})
	return c.JSON(fiber.Map{"selection": selection})
}

// DragRelease commits the gesture. The client calls this both on pointer
// release and on the pointer leaving the calendar surface; both commit,
// neither cancels.
func (h *AppHandler) DragRelease(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	var (
		memberID uuid.UUID
		status   model.AvailabilityStatus
		days     []schedule.DayKey
		ok       bool
	)
	h.withDrag(sess.ID(), func(d *schedule.Drag) {
		memberID, status, days, ok = d.Release()
	})
	if !ok {
		return c.JSON(fiber.Map{"days": []schedule.DayKey{}})
	}

	if err := h.scheduler.Reconcile(c.Context(), memberID, status, days); err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to update availability", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update availability"})
	}
	return c.JSON(fiber.Map{"days": days})
}
