package usecase

import (
	"context"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"
)

// LicenseUsecaseInterface abstracts license operations for delivery layer.
type LicenseUsecaseInterface interface {
	CreateLicense(ctx context.Context, draft entities.LicenseDraft) (*entities.License, error)
	GetLicense(ctx context.Context, id string) (*entities.License, error)
	ListLicenses(ctx context.Context) ([]entities.License, error)
	EditLicense(ctx context.Context, id string, draft entities.LicenseDraft) (*entities.License, error)
	DeleteLicense(ctx context.Context, id string) error
	LicenseUsage(ctx context.Context, id string) (entities.LicenseUsage, error)
}

// UserUsecaseInterface abstracts seat assignment operations.
type UserUsecaseInterface interface {
	AddUser(ctx context.Context, licenseID string, draft entities.UserDraft) (*entities.License, error)
	EditUser(ctx context.Context, licenseID, userID string, draft entities.UserDraft) (*entities.License, error)
	RemoveUser(ctx context.Context, licenseID, userID string) (*entities.License, error)
}

// StatsUsecaseInterface abstracts statistics operations.
type StatsUsecaseInterface interface {
	Stats(ctx context.Context) (entities.Stats, error)
}
