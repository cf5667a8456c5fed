// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"github.com/gabrieldeltasollutions/aws-office/internal/entities"
	"github.com/gabrieldeltasollutions/aws-office/internal/transport/http/dto"
)

// ToLicenseDraft builds a license draft from the request body.
func ToLicenseDraft(src dto.LicenseRequest) entities.LicenseDraft {
	return entities.LicenseDraft{
		Name:               src.Name,
		Email:              src.Email,
		ActivationEmail:    src.ActivationEmail,
		ActivationPassword: src.ActivationPassword,
		DefaultPassword:    src.DefaultPassword,
		MaxUsers:           src.MaxUsers,
	}
}

// ToUserDraft builds a user draft from the request body.
func ToUserDraft(src dto.UserRequest) entities.UserDraft {
	return entities.UserDraft{
		Name:            src.Name,
		Email:           src.Email,
		Password:        src.Password,
		DefaultPassword: src.DefaultPassword,
	}
}
