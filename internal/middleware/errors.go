package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the Fiber error handler. Client errors keep their
// message; server errors are logged and replaced with a generic one.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
		Status:  code,
		Code:    codeFor(code),
	})
}

func codeFor(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return dto.CodeBadRequest
	case fiber.StatusUnauthorized:
		return dto.CodeUnauthorized
	case fiber.StatusForbidden:
		return dto.CodeForbidden
	case fiber.StatusNotFound:
		return dto.CodeNotFound
	case fiber.StatusConflict:
		return dto.CodeConflict
	case fiber.StatusTooManyRequests:
		return dto.CodeTooManyRequests
	}
	if status >= 500 {
		return dto.CodeInternal
	}
	return dto.CodeBadRequest
}
