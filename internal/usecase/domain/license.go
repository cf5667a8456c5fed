// Package domain contains application services orchestrating license seat logic.
package domain

import (
	"context"
	"fmt"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"
)

// CreateLicense validates the draft and persists a new license with no users.
func (u *Usecase) CreateLicense(ctx context.Context, draft entities.LicenseDraft) (*entities.License, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	draft = draft.Normalize()
	if err := u.validateLicense(draft); err != nil {
		return nil, err
	}

	license := entities.License{Users: []entities.User{}}
	draft.Apply(&license)
	if err := u.sealAll(&license.ActivationPassword, &license.DefaultPassword); err != nil {
		return nil, err
	}

	created, err := u.repo.InsertLicense(ctx, license)
	if err != nil {
		return nil, err
	}
	u.log.Infow("license created", "license_id", created.ID, "max_users", created.MaxUsers)
	return u.openLicense(created)
}

// GetLicense returns a single license with its users.
func (u *Usecase) GetLicense(ctx context.Context, id string) (*entities.License, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return nil, fmt.Errorf("%w: license id is required", entities.ErrInvalidInput)
	}
	l, err := u.repo.GetLicense(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.openLicense(l)
}

// ListLicenses returns every license in creation order.
func (u *Usecase) ListLicenses(ctx context.Context) ([]entities.License, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	list, err := u.repo.ListLicenses(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]entities.License, 0, len(list))
	for i := range list {
		l, err := u.openLicense(&list[i])
		if err != nil {
			return nil, err
		}
		res = append(res, *l)
	}
	return res, nil
}

// EditLicense replaces the descriptive fields of a license. Users are kept and
// maxUsers may not drop below the number of assigned users.
func (u *Usecase) EditLicense(ctx context.Context, id string, draft entities.LicenseDraft) (*entities.License, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return nil, fmt.Errorf("%w: license id is required", entities.ErrInvalidInput)
	}
	draft = draft.Normalize()
	if err := u.validateLicense(draft); err != nil {
		return nil, err
	}
	if err := u.sealAll(&draft.ActivationPassword, &draft.DefaultPassword); err != nil {
		return nil, err
	}

	updated, err := u.repo.UpdateLicense(ctx, id, func(l *entities.License) error {
		if draft.MaxUsers < len(l.Users) {
			return fmt.Errorf("%w: maxUsers %d is below %d assigned users",
				entities.ErrCapacityViolation, draft.MaxUsers, len(l.Users))
		}
		draft.Apply(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Infow("license edited", "license_id", id, "max_users", updated.MaxUsers)
	return u.openLicense(updated)
}

// DeleteLicense removes a license together with its users.
func (u *Usecase) DeleteLicense(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return fmt.Errorf("%w: license id is required", entities.ErrInvalidInput)
	}
	if err := u.repo.DeleteLicense(ctx, id); err != nil {
		return err
	}
	u.log.Infow("license deleted", "license_id", id)
	return nil
}

// LicenseUsage returns the seat usage of one license.
func (u *Usecase) LicenseUsage(ctx context.Context, id string) (entities.LicenseUsage, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return entities.LicenseUsage{}, fmt.Errorf("%w: license id is required", entities.ErrInvalidInput)
	}
	l, err := u.repo.GetLicense(ctx, id)
	if err != nil {
		return entities.LicenseUsage{}, err
	}
	return l.Usage(), nil
}

func (u *Usecase) validateLicense(draft entities.LicenseDraft) error {
	candidate := entities.License{}
	draft.Apply(&candidate)
	if !entities.IsValidLicense(candidate) {
		return fmt.Errorf("%w: name, email, activationPassword, defaultPassword and a positive maxUsers are required",
			entities.ErrInvalidInput)
	}
	if limit := u.policy.MaxUsersLimit; limit > 0 && draft.MaxUsers > limit {
		return fmt.Errorf("%w: maxUsers must not exceed %d", entities.ErrInvalidInput, limit)
	}
	return nil
}
