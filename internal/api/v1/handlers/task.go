package handlers

import (
	"strconv"

	"devtasker/internal/api/response"
	"devtasker/internal/middleware"
	"devtasker/internal/models"
	"devtasker/internal/service"

	"github.com/gofiber/fiber/v2"
)

// taskQuery reads the list filters. An unparsable tag_id becomes -1 so that the
// service rejects it after its authorization checks.
func taskQuery(c *fiber.Ctx) service.TaskQuery {
	q := service.TaskQuery{
		Status:   models.Status(c.Query("status")),
		Priority: models.Priority(c.Query("priority")),
	}
	if raw := c.Query("tag_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			id = -1
		}
		q.TagID = id
	}
	return q
}

func (h *Handler) ListProjectTasks(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "project")
	if err != nil {
		return err
	}
	tasks, err := h.svc.ListForProject(c.UserContext(), middleware.CurrentUser(c), id, taskQuery(c))
	if err != nil {
		return err
	}
	return response.OK(c, "", tasks)
}

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "project")
	if err != nil {
		return err
	}
	in, bodyErr := decode[service.TaskInput](c)
	t, err := h.svc.CreateTask(c.UserContext(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return bodyOr(bodyErr, err)
	}
	return response.Created(c, "Task created.", t)
}

func (h *Handler) CreatePersonalTask(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "project")
	if err != nil {
		return err
	}
	in, bodyErr := decode[service.PersonalTaskInput](c)
	t, err := h.svc.CreatePersonalTask(c.UserContext(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return bodyOr(bodyErr, err)
	}
	return response.Created(c, "Task created.", t)
}

func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "task")
	if err != nil {
		return err
	}
	in, bodyErr := decode[service.TaskUpdateInput](c)
	t, err := h.svc.UpdateTask(c.UserContext(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return bodyOr(bodyErr, err)
	}
	return response.OK(c, "Task updated.", t)
}

func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "task")
	if err != nil {
		return err
	}
	in, bodyErr := decode[service.StatusInput](c)
	t, err := h.svc.UpdateStatus(c.UserContext(), middleware.CurrentUser(c), id, in)
	if err != nil {
		return bodyOr(bodyErr, err)
	}
	return response.OK(c, "Task status updated.", t)
}

func (h *Handler) ListMine(c *fiber.Ctx) error {
	tasks, err := h.svc.ListMine(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return response.OK(c, "", tasks)
}
