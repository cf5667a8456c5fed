// Package dto holds HTTP request and response bodies.
package dto

// LicenseRequest is the body of license create and edit.
type LicenseRequest struct {
	Name               string `json:"name" validate:"required"`
	Email              string `json:"email" validate:"required"`
	ActivationEmail    string `json:"activationEmail"`
	ActivationPassword string `json:"activationPassword" validate:"required"`
	DefaultPassword    string `json:"defaultPassword" validate:"required"`
	MaxUsers           int    `json:"maxUsers" validate:"required,min=1"`
}

// UserRequest is the body of user add and edit.
type UserRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password"`
	DefaultPassword string `json:"defaultPassword"`
}
