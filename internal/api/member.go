package api

import (
	"errors"

	"bandroom/internal/member"
	"bandroom/internal/repository"
	"bandroom/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type memberRequest struct {
	Name       string  `json:"name" validate:"required,min=1,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Instrument *string `json:"instrument" validate:"omitempty,max=100"`
	Color      string  `json:"color" validate:"required,hexcolor"`
}

func (r memberRequest) params() member.CreateParams {
	params := member.CreateParams{Name: r.Name, Color: r.Color}
	if r.Email != nil {
		params.Email = util.Some(*r.Email)
	}
	if r.Instrument != nil {
		params.Instrument = util.Some(*r.Instrument)
	}
	return params
}

func (h *AppHandler) ListMembers(c *fiber.Ctx) error {
	members, err := h.members.List(c.Context())
	if err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to list members", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(fiber.Map{"members": members})
}

func (h *AppHandler) CreateMember(c *fiber.Ctx) error {
	var req memberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	created, err := h.members.Create(c.Context(), req.params())
	if err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to create member", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"member": created})
}

func (h *AppHandler) UpdateMember(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid member id"})
	}

	var req memberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	params := req.params()
	updated, err := h.members.Update(c.Context(), id, member.UpdateParams{
		Name:       params.Name,
		Email:      params.Email,
		Instrument: params.Instrument,
		Color:      params.Color,
	})
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
		}
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to update member", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(fiber.Map{"member": updated})
}

func (h *AppHandler) DeleteMember(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid member id"})
	}

	if err := h.members.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
		}
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to delete member", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
