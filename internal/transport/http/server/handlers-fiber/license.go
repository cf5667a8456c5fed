package handlers_fiber

import (
	"net/http"

	"github.com/gabrieldeltasollutions/aws-office/internal/mapper"
	"github.com/gabrieldeltasollutions/aws-office/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// ListLicenses returns every license with its users.
func (h *Handler) ListLicenses(c *fiber.Ctx) error {
	list, err := h.uc.ListLicenses(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(list)
}

// GetLicense returns one license by id.
func (h *Handler) GetLicense(c *fiber.Ctx) error {
	l, err := h.uc.GetLicense(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(l)
}

// CreateLicense creates a license without users.
func (h *Handler) CreateLicense(c *fiber.Ctx) error {
	var body dto.LicenseRequest
	if err := h.parseBody(c, &body); err != nil {
		return h.writeError(c, err)
	}

	l, err := h.uc.CreateLicense(c.UserContext(), mapper.ToLicenseDraft(body))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(l)
}

// EditLicense replaces the license fields, keeping its users.
func (h *Handler) EditLicense(c *fiber.Ctx) error {
	var body dto.LicenseRequest
	if err := h.parseBody(c, &body); err != nil {
		return h.writeError(c, err)
	}

	l, err := h.uc.EditLicense(c.UserContext(), c.Params("id"), mapper.ToLicenseDraft(body))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(l)
}

// DeleteLicense removes a license and its users.
func (h *Handler) DeleteLicense(c *fiber.Ctx) error {
	if err := h.uc.DeleteLicense(c.UserContext(), c.Params("id")); err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.MessageResponse{Message: "License deleted successfully"})
}

// GetLicenseUsage returns seat usage of one license.
func (h *Handler) GetLicenseUsage(c *fiber.Ctx) error {
	usage, err := h.uc.LicenseUsage(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(usage)
}
