package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"slygems-backend/database"
	"slygems-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// IdempotencyStore persists key claims and the first completed response
// recorded for each key.
type IdempotencyStore interface {
	// Claim registers rec as pending if the key is unseen. It returns the
	// record now on file and whether a completed response is stored for it.
	Claim(rec models.IdempotencyKey) (models.IdempotencyKey, bool, error)
	// Complete stores the response for the key.
	Complete(key string, status int, body []byte) error
}

// Idempotency processes Idempotency-Key for mutating HTTP methods.
// The GORM store uses its own short transactions so stored responses
// survive a rolled-back handler transaction.
func Idempotency() fiber.Handler {
	return idempotencyWith(gormIdempotencyStore{})
}

func idempotencyWith(store IdempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Idempotency-Key too long"})
		}

		userID, _ := c.Locals("userID").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "auth context missing"})
		}

		path := c.OriginalURL() // includes query string
		body := c.Body()

		// Build deterministic request hash: method|path|body|user
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(body)
		h.Write([]byte{'\n'})
		h.Write([]byte(userID))
		reqHash := hex.EncodeToString(h.Sum(nil))

		existing, replay, err := store.Claim(models.IdempotencyKey{
			Key:         key,
			RequestHash: reqHash,
			Method:      method,
			Path:        path,
			UserID:      userID,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
		}
		if existing.RequestHash != reqHash {
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		}
		if replay {
			// Completed response on file: serve it, never re-run the handler.
			c.Status(existing.ResponseStatus)
			return c.Send(existing.ResponseBody)
		}

		// First time (or still pending): run the handler once.
		if err := c.Next(); err != nil {
			return err
		}

		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)
		_ = store.Complete(key, c.Response().StatusCode(), blob)

		return nil
	}
}

type gormIdempotencyStore struct{}

func (gormIdempotencyStore) Claim(rec models.IdempotencyKey) (models.IdempotencyKey, bool, error) {
	var existing models.IdempotencyKey
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", rec.Key).First(&existing).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			if e2 := tx.Create(&rec).Error; e2 != nil {
				// Unique race: another request claimed the key first.
				return tx.Where("key = ?", rec.Key).First(&existing).Error
			}
			existing = rec
		}
		return nil
	})
	if err != nil {
		return existing, false, err
	}
	return existing, existing.ResponseStatus != 0 && existing.ResponseBody != nil, nil
}

func (gormIdempotencyStore) Complete(key string, status int, body []byte) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		return tx.Model(&models.IdempotencyKey{}).
			Where("key = ?", key).
			Updates(map[string]any{
				"response_status": status,
				"response_body":   body,
				"completed_at":    &now,
			}).Error
	})
}
