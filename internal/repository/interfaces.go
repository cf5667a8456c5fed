// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// UpdateFunc mutates a license inside an atomic update. Returning an error aborts the write.
type UpdateFunc = func(l *entities.License) error

// LicenseInterface exposes license persistence. Missing ids yield entities.ErrLicenseNotFound.
type LicenseInterface interface {
	ListLicenses(ctx context.Context) ([]entities.License, error)
	GetLicense(ctx context.Context, id string) (*entities.License, error)
	// InsertLicense assigns fresh ids to the license and to users without one.
	InsertLicense(ctx context.Context, license entities.License) (*entities.License, error)
	ReplaceLicense(ctx context.Context, id string, license entities.License) (*entities.License, error)
	DeleteLicense(ctx context.Context, id string) error
	// UpdateLicense runs fn against the current record and stores the result atomically
	// with respect to other updates of the same license.
	UpdateLicense(ctx context.Context, id string, fn UpdateFunc) (*entities.License, error)
}
