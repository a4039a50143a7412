package middleware

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/technews/internal/logger"
)

const queryParamsKey = "queryParams"

var validate = validator.New()

// ValidateQueryParams parses the query string into a fresh T per request and
// validates it. Handlers read the result with QueryParams.
func ValidateQueryParams[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := new(T)
		if err := c.QueryParser(params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid query parameters",
				"msg":   err.Error(),
			})
		}

		if err := validate.Struct(params); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return err
			}

			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}

			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Invalid query parameters",
				"fields": fields,
			})
		}

		c.Locals(queryParamsKey, params)
		return c.Next()
	}
}

// QueryParams returns the parameters stored by ValidateQueryParams, or a
// zero T when the middleware did not run.
func QueryParams[T any](c *fiber.Ctx) *T {
	if params, ok := c.Locals(queryParamsKey).(*T); ok {
		return params
	}
	return new(T)
}

// ErrorHandler renders errors as JSON. Client errors keep their message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := http.StatusText(code)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = http.StatusText(code)
		if code < fiber.StatusInternalServerError && fe.Message != "" {
			message = fe.Message
		}
	}

	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
