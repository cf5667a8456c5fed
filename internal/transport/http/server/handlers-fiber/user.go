package handlers_fiber

import (
	"net/http"

	"github.com/gabrieldeltasollutions/aws-office/internal/mapper"
	"github.com/gabrieldeltasollutions/aws-office/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// AddUser assigns a user to a free seat and returns the updated license.
func (h *Handler) AddUser(c *fiber.Ctx) error {
	var body dto.UserRequest
	if err := h.parseBody(c, &body); err != nil {
		return h.writeError(c, err)
	}

	l, err := h.uc.AddUser(c.UserContext(), c.Params("id"), mapper.ToUserDraft(body))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(l)
}

// EditUser replaces the fields of an assigned user.
func (h *Handler) EditUser(c *fiber.Ctx) error {
	var body dto.UserRequest
	if err := h.parseBody(c, &body); err != nil {
		return h.writeError(c, err)
	}

	l, err := h.uc.EditUser(c.UserContext(), c.Params("id"), c.Params("userId"), mapper.ToUserDraft(body))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(l)
}

// RemoveUser frees the seat held by a user.
func (h *Handler) RemoveUser(c *fiber.Ctx) error {
	l, err := h.uc.RemoveUser(c.UserContext(), c.Params("id"), c.Params("userId"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(l)
}
