// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"github.com/gabrieldeltasollutions/aws-office/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the license API on top of the usecase layer.
type Handler struct {
	log      *zap.SugaredLogger
	uc       usecase.InterfaceUsecase
	validate *validator.Validate
}

// NewHandler constructs an HTTP server with service dependencies.
func NewHandler(log *zap.SugaredLogger, usecase usecase.InterfaceUsecase, validate *validator.Validate) *Handler {
	return &Handler{
		log:      log.Named("http"),
		uc:       usecase,
		validate: validate,
	}
}

// Register mounts the license API on router.
func (h *Handler) Register(router fiber.Router) {
	licenses := router.Group("/licenses")
	licenses.Get("/", h.ListLicenses)
	licenses.Post("/", h.CreateLicense)
	licenses.Get("/:id", h.GetLicense)
	licenses.Put("/:id", h.EditLicense)
	licenses.Delete("/:id", h.DeleteLicense)
	licenses.Get("/:id/usage", h.GetLicenseUsage)

	licenses.Post("/:id/users", h.AddUser)
	licenses.Put("/:id/users/:userId", h.EditUser)
	licenses.Delete("/:id/users/:userId", h.RemoveUser)

	router.Get("/stats", h.GetStats)
}
