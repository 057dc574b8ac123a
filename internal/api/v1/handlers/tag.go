package handlers

import (
	"devtasker/internal/api/response"
	"devtasker/internal/middleware"
	"devtasker/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LookupTags serves the id/name list any signed-in user needs to fill a tag picker.
func (h *Handler) LookupTags(c *fiber.Ctx) error {
	tags, err := h.svc.LookupTags(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return response.OK(c, "", tags)
}

func (h *Handler) ListTags(c *fiber.Ctx) error {
	tags, err := h.svc.ListTags(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return response.OK(c, "", tags)
}

func (h *Handler) CreateTag(c *fiber.Ctx) error {
	in, bodyErr := decode[service.TagInput](c)
	t, err := h.svc.CreateTag(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return bodyOr(bodyErr, err)
	}
	return response.Created(c, "Tag created.", t)
}

func (h *Handler) UpdateTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "tag")
	if err != nil {
		return err
	}
	in, bodyErr := decode[service.TagInput](c)
	t, err := h.svc.UpdateTag(c.UserContext(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return bodyOr(bodyErr, err)
	}
	return response.OK(c, "Tag updated.", t)
}

func (h *Handler) DeleteTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "tag")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteTag(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return response.OK(c, "Tag deleted.", nil)
}
