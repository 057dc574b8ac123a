package handlers

import (
	"devtasker/internal/api/response"
	"devtasker/internal/middleware"
	"devtasker/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Register(c *fiber.Ctx) error {
	in, err := decode[service.RegisterInput](c)
	if err != nil {
		return err
	}
	res, err := h.svc.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return response.Created(c, "Registration successful.", res)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	in, err := decode[service.LoginInput](c)
	if err != nil {
		return err
	}
	res, err := h.svc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return response.OK(c, "Login successful.", res)
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.svc.Logout(c.UserContext(), middleware.CurrentToken(c)); err != nil {
		return err
	}
	return response.OK(c, "Logout successful.", nil)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	return response.OK(c, "", middleware.CurrentUser(c).Public())
}

// Health reports whether the backing services answer.
func (h *Handler) Health(c *fiber.Ctx) error {
	if h.ping != nil {
		if err := h.ping(c.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Service Unavailable")
		}
	}
	return response.OK(c, "", fiber.Map{"status": "ok"})
}
