package handlers

import (
	"context"
	"strconv"

	"devtasker/internal/apperr"
	"devtasker/internal/service"
	"devtasker/internal/websocket"

	"github.com/gofiber/fiber/v2"
)

// Handler adapts HTTP requests to the service. Handlers only parse input, call one
// service operation and render the envelope.
type Handler struct {
	svc  *service.Service
	hub  *websocket.Hub
	ping func(ctx context.Context) error
}

func New(svc *service.Service, hub *websocket.Hub, ping func(ctx context.Context) error) *Handler {
	return &Handler{svc: svc, hub: hub, ping: ping}
}

// decode parses the JSON body into a fresh T. A malformed body yields the zero T
// and a "body" validation error. Callers report that error only once the
// operation's authorization checks have passed, see bodyOr.
func decode[T any](c *fiber.Ctx) (T, error) {
	var in T
	if err := c.BodyParser(&in); err != nil {
		var zero T
		return zero, apperr.Field("body", "The request body must be a valid JSON object.")
	}
	return in, nil
}

// bodyOr prefers the body error over the validation failure its zero input caused.
func bodyOr(bodyErr, err error) error {
	if bodyErr != nil && apperr.KindOf(err) == apperr.KindValidation {
		return bodyErr
	}
	return err
}

// paramID reads a positive numeric route parameter. Anything else cannot name an
// existing resource.
func paramID(c *fiber.Ctx, name, resource string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound(resource)
	}
	return id, nil
}
