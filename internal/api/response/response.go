// Package response renders the JSON envelope shared by every endpoint:
// {success, message?, data, errors?}.
package response

import (
	"errors"

	"devtasker/internal/apperr"
	"devtasker/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func JSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message, Data: data})
}

func OK(c *fiber.Ctx, message string, data any) error {
	return JSON(c, fiber.StatusOK, message, data)
}

func Created(c *fiber.Ctx, message string, data any) error {
	return JSON(c, fiber.StatusCreated, message, data)
}

// Error renders err. Errors that are not *apperr.Error become a generic 500 and
// never leak their text; framework errors keep their status.
func Error(c *fiber.Ctx, err error) error {
	e, status := fromError(err)

	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("url", c.OriginalURL()),
		zap.Int("status", status),
		zap.String("kind", e.Kind.String()),
	}
	switch {
	case status >= fiber.StatusInternalServerError:
		logger.ErrorLogger.Error(e.Message, append(fields, zap.Error(e.Err))...)
	case e.Kind == apperr.KindUnauthenticated || e.Kind == apperr.KindForbidden:
		logger.SecurityLogger.Warn(e.Message, fields...)
	}

	return c.Status(status).JSON(Envelope{
		Success: false,
		Message: e.Message,
		Data:    nil,
		Errors:  e.Fields,
	})
}

func fromError(err error) (*apperr.Error, int) {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		e := apperr.As(err)
		return e, e.Kind.HTTPStatus()
	}
	if fe.Code == fiber.StatusNotFound {
		return &apperr.Error{
			Kind:    apperr.KindNotFound,
			Message: "The requested resource was not found.",
			Fields:  map[string][]string{"route": {"The requested route does not exist."}},
		}, fe.Code
	}
	// Framework errors (405, 413, 426, 429 ...) carry safe, fixed messages.
	return &apperr.Error{
		Kind:    apperr.KindInternal,
		Message: fe.Message,
		Fields:  map[string][]string{"request": {fe.Message}},
		Err:     fe,
	}, fe.Code
}
