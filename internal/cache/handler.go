package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"bandroom/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Conn is one short-lived cache connection.
type Conn interface {
	// Get returns the stored JSON text for key; found is false on a miss.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// DialFunc opens a fresh connection. The proxy dials per request and closes
// after one operation; no pooling. That only holds up because call volume is
// low, it is not a pattern to copy elsewhere.
type DialFunc func(ctx context.Context) (Conn, error)

// Handler proxies GET/SET operations to the cache backend.
type Handler struct {
	logger *slog.Logger
	dial   DialFunc
}

func NewHandler(logger *slog.Logger, dial DialFunc) Handler {
	return Handler{logger: logger, dial: dial}
}

// RedisDialer dials the configured Redis over TLS when enabled, skipping
// certificate verification when the deployment's cache uses a self-signed
// chain (mirrors rejectUnauthorized=false on the hosted cache).
func RedisDialer(cfg config.RedisConfig) DialFunc {
	return func(ctx context.Context) (Conn, error) {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if cfg.TLS {
			opts.TLSConfig = &tls.Config{InsecureSkipVerify: cfg.SkipTLSVerify}
		}

		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return &redisConn{client: client}, nil
	}
}

type redisConn struct {
	client *redis.Client
}

func (c *redisConn) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (c *redisConn) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, key, value, 0).Err()
}

func (c *redisConn) Close() error {
	return c.client.Close()
}

type getRequest struct {
	Key string `json:"key"`
}

type setRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Get handles POST /redis/get. The stored value is JSON text, decoded back
// into the response; an absent key yields value null.
func (h *Handler) Get(c *fiber.Ctx) error {
	if done := h.preflight(c); done {
		return nil
	}

	var req getRequest
	if err := c.BodyParser(&req); err != nil || req.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Key is required"})
	}

	conn, err := h.dial(c.Context())
	if err != nil {
		h.logger.ErrorContext(c.Context(), "Redis error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Redis operation failed"})
	}
	defer conn.Close()

	value, found, err := conn.Get(c.Context(), req.Key)
	if err != nil {
		h.logger.ErrorContext(c.Context(), "Redis error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Redis operation failed"})
	}
	if !found {
		return c.JSON(fiber.Map{"value": nil})
	}
	return c.JSON(fiber.Map{"value": json.RawMessage(value)})
}

// Set handles POST /redis/set.
func (h *Handler) Set(c *fiber.Ctx) error {
	if done := h.preflight(c); done {
		return nil
	}

	var req setRequest
	if err := c.BodyParser(&req); err != nil || req.Key == "" || len(req.Value) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Key and value are required"})
	}

	conn, err := h.dial(c.Context())
	if err != nil {
		h.logger.ErrorContext(c.Context(), "Redis error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Redis operation failed"})
	}
	defer conn.Close()

	if err := conn.Set(c.Context(), req.Key, string(req.Value)); err != nil {
		h.logger.ErrorContext(c.Context(), "Redis error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Redis operation failed"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// preflight applies the CORS headers and handles OPTIONS and wrong-method
// requests. It reports true when the response has already been written.
func (h *Handler) preflight(c *fiber.Ctx) bool {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type")

	switch c.Method() {
	case fiber.MethodOptions:
		c.Status(fiber.StatusOK)
		return true
	case fiber.MethodPost:
		return false
	default:
		c.Set("Allow", "POST, OPTIONS")
		_ = c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"error": fmt.Sprintf("Method %s Not Allowed", c.Method()),
		})
		return true
	}
}
