package handlers

import (
	"devtasker/internal/api/response"
	"devtasker/internal/middleware"
	"devtasker/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) AddComment(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "task")
	if err != nil {
		return err
	}
	in, bodyErr := decode[service.CommentInput](c)
	d, err := h.svc.AddComment(c.UserContext(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return bodyOr(bodyErr, err)
	}
	return response.Created(c, "Comment added.", d)
}

func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "comment")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteComment(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return response.OK(c, "Comment deleted.", nil)
}
