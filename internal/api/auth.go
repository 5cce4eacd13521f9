package api

import (
	"errors"
	"strings"
	"time"

	"bandroom/internal/model"
	"bandroom/internal/repository"
	"bandroom/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (h *AppHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if _, err := h.repo.GetUserByEmail(c.Context(), req.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "An account with this email already exists"})
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to check existing user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to hash password", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.repo.CreateUser(c.Context(), user); err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to create user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	h.telemetry.Logger().InfoContext(c.Context(), "User registered", "user_id", user.ID, "email", user.Email)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AppHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	if h.rateLimiter != nil {
		if err := h.rateLimiter.CheckLogin(c.Context(), req.Email); err != nil {
			if errors.Is(err, service.ErrTooManyAttempts) {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many login attempts. Please try again later.",
				})
			}
			// The limiter backend being down should not lock everyone out.
			h.telemetry.Logger().ErrorContext(c.Context(), "Rate limiter unavailable", "error", err)
		}
	}

	user, err := h.repo.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Generic message to prevent email enumeration.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
		}
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to get user by email", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to get session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create session"})
	}
	sess.Set("user_id", user.ID.String())
	if err := sess.Save(); err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to save session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session"})
	}

	if h.rateLimiter != nil {
		_ = h.rateLimiter.ResetLogin(c.Context(), req.Email)
	}

	h.telemetry.Logger().InfoContext(c.Context(), "User logged in", "user_id", user.ID, "ip", c.IP())
	return c.JSON(fiber.Map{"user": user})
}

func (h *AppHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to get session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	sess.Delete("user_id")
	if err := sess.Save(); err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to save session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session"})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
