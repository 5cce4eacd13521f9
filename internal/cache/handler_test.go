package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn is an in-memory Conn shared across dials, so a value written
// through one request is visible to the next.
type fakeConn struct {
	mu     sync.Mutex
	values map[string]string
	err    error
	closed int
}

func (c *fakeConn) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", false, c.err
	}
	value, ok := c.values[key]
	return value, ok, nil
}

func (c *fakeConn) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func newTestApp(conn *fakeConn, dialErr error) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, func(ctx context.Context) (Conn, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return conn, nil
	})

	app := fiber.New()
	app.All("/redis/get", h.Get)
	app.All("/redis/set", h.Set)
	return app
}

func TestSetThenGetRoundTrip(t *testing.T) {
	conn := &fakeConn{values: make(map[string]string)}
	app := newTestApp(conn, nil)

	req := httptest.NewRequest("POST", "/redis/set", strings.NewReader(`{"key":"band","value":{"a":1}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("POST", "/redis/get", strings.NewReader(`{"key":"band"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Value json.RawMessage `json:"value"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.JSONEq(t, `{"a":1}`, string(body.Value))
}

func TestGetMissingKeyReturnsNull(t *testing.T) {
	conn := &fakeConn{values: make(map[string]string)}
	app := newTestApp(conn, nil)

	req := httptest.NewRequest("POST", "/redis/get", strings.NewReader(`{"key":"absent"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":null}`, string(raw))
}

func TestGetRequiresKey(t *testing.T) {
	conn := &fakeConn{values: make(map[string]string)}
	app := newTestApp(conn, nil)

	for _, body := range []string{`{}`, `{"key":""}`, `not json`} {
		req := httptest.NewRequest("POST", "/redis/get", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body %q", body)
	}
}

func TestSetRequiresKeyAndValue(t *testing.T) {
	conn := &fakeConn{values: make(map[string]string)}
	app := newTestApp(conn, nil)

	for _, body := range []string{`{}`, `{"key":"band"}`, `{"value":{"a":1}}`} {
		req := httptest.NewRequest("POST", "/redis/set", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body %q", body)
	}
}

func TestOptionsPreflightAllowed(t *testing.T) {
	conn := &fakeConn{values: make(map[string]string)}
	app := newTestApp(conn, nil)

	for _, path := range []string{"/redis/get", "/redis/set"} {
		req := httptest.NewRequest("OPTIONS", path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func TestWrongMethodRejected(t *testing.T) {
	conn := &fakeConn{values: make(map[string]string)}
	app := newTestApp(conn, nil)

	req := httptest.NewRequest("GET", "/redis/get", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "POST, OPTIONS", resp.Header.Get("Allow"))
}

func TestBackendFailure(t *testing.T) {
	app := newTestApp(nil, errors.New("connection refused"))

	req := httptest.NewRequest("POST", "/redis/get", strings.NewReader(`{"key":"band"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Redis operation failed"}`, string(raw))
}

func TestConnectionClosedAfterEachRequest(t *testing.T) {
	conn := &fakeConn{values: make(map[string]string)}
	app := newTestApp(conn, nil)

	for range 3 {
		req := httptest.NewRequest("POST", "/redis/get", strings.NewReader(`{"key":"band"}`))
		req.Header.Set("Content-Type", "application/json")
		_, err := app.Test(req)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, conn.closed)
}
