package api

import (
	"bandroom/internal/rehearsal"

	"github.com/gofiber/fiber/v2"
)

type rehearsalRequest struct {
	Day         string `json:"day" validate:"required,day_key"`
	Time        string `json:"time" validate:"required,max=20"`
	Duration    string `json:"duration" validate:"required,max=50"`
	Location    string `json:"location" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
}

func (h *AppHandler) ListRehearsals(c *fiber.Ctx) error {
	rehearsals, err := h.rehearsals.List(c.Context())
	if err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to list rehearsals", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(fiber.Map{"rehearsals": rehearsals})
}

func (h *AppHandler) CreateRehearsal(c *fiber.Ctx) error {
	var req rehearsalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := h.rehearsals.Create(c.Context(), rehearsal.CreateParams{
		Day:         req.Day,
		Time:        req.Time,
		Duration:    req.Duration,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to create rehearsal", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"rehearsal": created})
}
