package middlewares

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// BindAndValidate decodes the JSON body into dst and runs its validate
// tags. A parse failure maps to 400; rule failures come back as
// validator.ValidationErrors, which ErrorHandler turns into a per-field
// 422 map.
func BindAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return validate.Struct(dst)
}

// ValidateStruct runs the shared validator over a single struct value.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}
