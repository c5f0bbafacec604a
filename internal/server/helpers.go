package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const handlerTimeout = 5 * time.Second

// requestContext bounds the database work of one handler.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), handlerTimeout)
}

// parseID extracts a route parameter by name as a positive uint.
// A value that can never match a record is answered with 404 and the
// message "Invalid <param>", e.g. "id" -> "Invalid ID", "userId" -> "Invalid user ID".
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "swapId" -> "swap ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// bindBody decodes the JSON body into dst and checks its `required` fields.
// Any failure is answered with 400 and the endpoint's missing-data message.
func bindBody(c *fiber.Ctx, dst any, missing string) error {
	if len(c.Body()) == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(missing))
		return errResponseWritten
	}
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(missing))
		return errResponseWritten
	}
	if err := validation.Struct(dst); err != nil {
		middleware.Logger.DebugContext(c.UserContext(), "request body failed validation",
			slog.String("path", c.Path()),
			slog.Any("fields", validation.FailedFields(err)),
		)
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(missing))
		return errResponseWritten
	}
	return nil
}

// mapServiceError returns the HTTP status implied by a service error.
func mapServiceError(err error) int {
	return models.StatusForError(err)
}

// respondError writes err with its mapped status. Internal errors are logged.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := mapServiceError(err)
	if status == fiber.StatusInternalServerError {
		s.logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(), "error", err.Error())
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// recordID converts a body id to a primary key. Ids that can never match a
// row (zero or negative) become 0, which the services treat as not found.
func recordID(id int64) uint {
	if id <= 0 {
		return 0
	}
	return uint(id)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
