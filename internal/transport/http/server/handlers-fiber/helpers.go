package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"
	"github.com/gabrieldeltasollutions/aws-office/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := dto.CodeInternal
	msg := "internal error"

	switch {
	case errors.Is(err, entities.ErrNotFound):
		status = http.StatusNotFound
		code = dto.CodeNotFound
		msg = err.Error()
	case errors.Is(err, entities.ErrInvalidInput):
		status = http.StatusBadRequest
		code = dto.CodeInvalidInput
		msg = err.Error()
	case errors.Is(err, entities.ErrCapacityExceeded):
		status = http.StatusBadRequest
		code = dto.CodeCapacityExceeded
		msg = err.Error()
	case errors.Is(err, entities.ErrCapacityViolation):
		status = http.StatusBadRequest
		code = dto.CodeCapacityViolation
		msg = err.Error()
	default:
		h.log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

// parseBody decodes the JSON body into dst and runs struct validation.
func (h *Handler) parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: invalid body", entities.ErrInvalidInput)
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: validation error: %v", entities.ErrInvalidInput, err)
	}
	return nil
}
