package handlers

import (
	"devtasker/internal/api/response"
	"devtasker/internal/middleware"
	"devtasker/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateProject(c *fiber.Ctx) error {
	in, bodyErr := decode[service.ProjectInput](c)
	p, err := h.svc.CreateProject(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return bodyOr(bodyErr, err)
	}
	return response.Created(c, "Project created.", p)
}

func (h *Handler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.svc.ListProjects(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return response.OK(c, "", projects)
}

func (h *Handler) ListDevelopers(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "project")
	if err != nil {
		return err
	}
	devs, err := h.svc.ListDevelopers(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return response.OK(c, "", devs)
}

func (h *Handler) AddMember(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "project")
	if err != nil {
		return err
	}
	in, bodyErr := decode[service.AddMemberInput](c)
	p, err := h.svc.AddMember(c.UserContext(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return bodyOr(bodyErr, err)
	}
	return response.OK(c, "Member added.", p)
}

func (h *Handler) Metrics(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "project")
	if err != nil {
		return err
	}
	snap, err := h.svc.Metrics(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return response.OK(c, "", snap)
}
