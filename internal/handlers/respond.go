package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/database"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/identity"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/news"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/services"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
		Status:  status,
		Code:    code,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusBadRequest, dto.CodeBadRequest, message)
}

func unauthorized(c *fiber.Ctx) error {
	return fail(c, fiber.StatusUnauthorized, dto.CodeUnauthorized, "Unauthorized")
}

// parseBody decodes the JSON body into dst and validates it. A non-nil
// return has already been written to the response.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.Struct(dst); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Validation failed",
				Status:  fiber.StatusBadRequest,
				Code:    dto.CodeValidation,
				Details: verr.Fields,
			})
		}
		return badRequest(c, err.Error())
	}
	return nil
}

// serviceError maps service sentinel errors to responses. Anything unknown
// is logged and reported as a 500 with a generic message.
func serviceError(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, services.ErrCompanyNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, services.ErrFlagNotFound),
		errors.Is(err, services.ErrIndicatorNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, dto.CodeNotFound, capitalize(err.Error()))
	case errors.Is(err, services.ErrForbidden):
		return fail(c, fiber.StatusForbidden, dto.CodeForbidden, "You are not allowed to perform this action")
	case errors.Is(err, services.ErrCompanyExists),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyReported):
		return fail(c, fiber.StatusConflict, dto.CodeConflict, capitalize(err.Error()))
	case errors.Is(err, services.ErrRateLimited):
		return fail(c, fiber.StatusTooManyRequests, dto.CodeRateLimited, "Daily submission limit reached. Try again later.")
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidFlag),
		errors.Is(err, services.ErrPasswordRequired):
		return badRequest(c, capitalize(err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrGoogleSignIn):
		return fail(c, fiber.StatusUnauthorized, dto.CodeUnauthorized, capitalize(err.Error()))
	case errors.Is(err, news.ErrDisabled):
		return fail(c, fiber.StatusServiceUnavailable, dto.CodeUnavailable, "News ingestion is currently disabled")
	}

	slog.Error(action+" failed", "error", err, "path", c.Path(), "request_id", c.Locals("requestid"))
	return fail(c, fiber.StatusInternalServerError, dto.CodeInternal, "Internal server error")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func pageFromQuery(c *fiber.Ctx) database.Page {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(database.DefaultPageSize)))
	return database.NewPage(page, limit)
}

func pageResponse(data interface{}, total int64, p database.Page) dto.PageResponse {
	return dto.PageResponse{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages(total),
	}
}

// viewer returns the authenticated caller, or nil for anonymous requests.
func viewer(c *fiber.Ctx) *dto.Viewer {
	id, err := identity.GetUserID(c)
	if err != nil {
		return nil
	}
	return &dto.Viewer{UserID: id, Role: identity.GetRole(c)}
}
