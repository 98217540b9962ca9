package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"slygems-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryIdempotencyStore struct {
	records map[string]models.IdempotencyKey
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{records: map[string]models.IdempotencyKey{}}
}

func (s *memoryIdempotencyStore) Claim(rec models.IdempotencyKey) (models.IdempotencyKey, bool, error) {
	if existing, ok := s.records[rec.Key]; ok {
		return existing, existing.ResponseStatus != 0 && existing.ResponseBody != nil, nil
	}
	s.records[rec.Key] = rec
	return rec, false, nil
}

func (s *memoryIdempotencyStore) Complete(key string, status int, body []byte) error {
	rec := s.records[key]
	rec.ResponseStatus = status
	rec.ResponseBody = body
	s.records[key] = rec
	return nil
}

func newIdempotencyApp(store IdempotencyStore, calls *int) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "user-1")
		return c.Next()
	})
	app.Use(idempotencyWith(store))
	app.Post("/invoice", func(c *fiber.Ctx) error {
		*calls++
		return c.JSON(fiber.Map{"call": *calls})
	})
	app.Get("/invoices", func(c *fiber.Ctx) error {
		*calls++
		return c.JSON(fiber.Map{"call": *calls})
	})
	return app
}

func keyedRequest(method, target, key, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	return req
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	var calls int
	app := newIdempotencyApp(newMemoryIdempotencyStore(), &calls)

	first, err := app.Test(keyedRequest(fiber.MethodPost, "/invoice", "key-1", `{"total":500}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, first.StatusCode)
	firstBody, _ := io.ReadAll(first.Body)
	require.Equal(t, 1, calls)

	second, err := app.Test(keyedRequest(fiber.MethodPost, "/invoice", "key-1", `{"total":500}`))
	require.NoError(t, err)
	secondBody, _ := io.ReadAll(second.Body)

	assert.Equal(t, 1, calls, "retry must not re-run the handler")
	assert.Equal(t, first.StatusCode, second.StatusCode)
	assert.Equal(t, string(firstBody), string(secondBody))
}

func TestIdempotencyRejectsKeyReuseWithDifferentRequest(t *testing.T) {
	var calls int
	app := newIdempotencyApp(newMemoryIdempotencyStore(), &calls)

	first, err := app.Test(keyedRequest(fiber.MethodPost, "/invoice", "key-1", `{"total":500}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, first.StatusCode)

	second, err := app.Test(keyedRequest(fiber.MethodPost, "/invoice", "key-1", `{"total":900}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, second.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyWithoutKeyRunsEveryTime(t *testing.T) {
	var calls int
	app := newIdempotencyApp(newMemoryIdempotencyStore(), &calls)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(keyedRequest(fiber.MethodPost, "/invoice", "", `{"total":500}`))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 2, calls)
}

func TestIdempotencySkipsReadMethods(t *testing.T) {
	var calls int
	store := newMemoryIdempotencyStore()
	app := newIdempotencyApp(store, &calls)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(keyedRequest(fiber.MethodGet, "/invoices", "key-1", ""))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.records)
}

func TestIdempotencyRejectsOverlongKey(t *testing.T) {
	var calls int
	app := newIdempotencyApp(newMemoryIdempotencyStore(), &calls)

	resp, err := app.Test(keyedRequest(fiber.MethodPost, "/invoice", strings.Repeat("k", 129), `{}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, calls)
}

func TestIdempotencyRequiresAuthContext(t *testing.T) {
	var calls int
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(idempotencyWith(newMemoryIdempotencyStore()))
	app.Post("/invoice", func(c *fiber.Ctx) error {
		calls++
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(keyedRequest(fiber.MethodPost, "/invoice", "key-1", `{}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, calls)
}

func TestRequestTxSkipsRequestsWithoutUser(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestTx())

	var sawTx bool
	app.Post("/login", func(c *fiber.Ctx) error {
		sawTx = c.Locals("tx") != nil
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(keyedRequest(fiber.MethodPost, "/login", "", `{}`))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, sawTx, "public requests get no transaction")
}
