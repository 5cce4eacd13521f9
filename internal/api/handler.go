package api

import (
	"errors"
	"sync"

	"bandroom/internal/member"
	"bandroom/internal/monitoring"
	"bandroom/internal/rehearsal"
	"bandroom/internal/repository"
	"bandroom/internal/schedule"
	"bandroom/internal/service"
	"bandroom/internal/store"
	"bandroom/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

var ErrSessionUserIDNotFound = errors.New("user ID not found in session")

type AppHandler struct {
	sessions    *session.Store
	repo        repository.Repository
	projection  *store.Store
	validator   *validator.Validator
	telemetry   monitoring.Telemetry
	rateLimiter *service.RateLimiter
	scheduler   schedule.Manager
	members     member.Manager
	rehearsals  rehearsal.Manager

	// One drag gesture per session, keyed by session ID.
	dragMu sync.Mutex
	drags  map[string]*schedule.Drag
}

func NewAppHandler(
	sessions *session.Store,
	repo repository.Repository,
	projection *store.Store,
	v *validator.Validator,
	telemetry monitoring.Telemetry,
	rateLimiter *service.RateLimiter,
	scheduler schedule.Manager,
	members member.Manager,
	rehearsals rehearsal.Manager,
) *AppHandler {
	return &AppHandler{
		sessions:    sessions,
		repo:        repo,
		projection:  projection,
		validator:   v,
		telemetry:   telemetry,
		rateLimiter: rateLimiter,
		scheduler:   scheduler,
		members:     members,
		rehearsals:  rehearsals,
		drags:       make(map[string]*schedule.Drag),
	}
}

func (h *AppHandler) Healthy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// RequireAuth guards routes that need a signed-in user.
func (h *AppHandler) RequireAuth(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		h.telemetry.Logger().ErrorContext(c.Context(), "Failed to get session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if _, err := h.sessionUserID(sess); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
	}
	return c.Next()
}

func (h *AppHandler) sessionUserID(sess *session.Session) (uuid.UUID, error) {
	raw, ok := sess.Get("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, ErrSessionUserIDNotFound
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrSessionUserIDNotFound
	}
	return id, nil
}

// withDrag runs fn against the session's gesture state, creating it on first
// use. Drag is not safe for concurrent use and requests for one session can
// overlap (release and leave fire for the same gesture), so the entire
// mutation stays inside the critical section.
func (h *AppHandler) withDrag(sessionID string, fn func(*schedule.Drag)) {
	h.dragMu.Lock()
	defer h.dragMu.Unlock()
	d, ok := h.drags[sessionID]
	if !ok {
		d = &schedule.Drag{}
		h.drags[sessionID] = d
	}
	fn(d)
}
