package handlers_fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// GetStats returns cross-license seat totals.
func (h *Handler) GetStats(c *fiber.Ctx) error {
	res, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(res)
}
