package domain

import (
	"context"
	"fmt"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"

	"github.com/google/uuid"
)

// AddUser assigns a new user to a free seat of the license.
func (u *Usecase) AddUser(ctx context.Context, licenseID string, draft entities.UserDraft) (*entities.License, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if licenseID == "" {
		return nil, fmt.Errorf("%w: license id is required", entities.ErrInvalidInput)
	}
	user, err := u.buildUser(draft)
	if err != nil {
		return nil, err
	}
	user.ID = uuid.NewString()

	updated, err := u.repo.UpdateLicense(ctx, licenseID, func(l *entities.License) error {
		if !entities.HasCapacity(*l) {
			return fmt.Errorf("%w: license %s has %d of %d seats taken",
				entities.ErrCapacityExceeded, l.ID, len(l.Users), l.MaxUsers)
		}
		for {
			if _, taken := l.FindUser(user.ID); !taken {
				break
			}
			user.ID = uuid.NewString()
		}
		l.Users = append(l.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Infow("user added", "license_id", licenseID, "user_id", user.ID, "used", len(updated.Users))
	return u.openLicense(updated)
}

// EditUser replaces the fields of an assigned user, keeping its id and position.
func (u *Usecase) EditUser(ctx context.Context, licenseID, userID string, draft entities.UserDraft) (*entities.License, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if licenseID == "" || userID == "" {
		return nil, fmt.Errorf("%w: license id and user id are required", entities.ErrInvalidInput)
	}
	user, err := u.buildUser(draft)
	if err != nil {
		return nil, err
	}

	updated, err := u.repo.UpdateLicense(ctx, licenseID, func(l *entities.License) error {
		idx, ok := l.FindUser(userID)
		if !ok {
			return fmt.Errorf("%w: %s", entities.ErrUserNotFound, userID)
		}
		user.ID = userID
		l.Users[idx] = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Infow("user edited", "license_id", licenseID, "user_id", userID)
	return u.openLicense(updated)
}

// RemoveUser frees the seat held by the user.
func (u *Usecase) RemoveUser(ctx context.Context, licenseID, userID string) (*entities.License, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if licenseID == "" || userID == "" {
		return nil, fmt.Errorf("%w: license id and user id are required", entities.ErrInvalidInput)
	}

	updated, err := u.repo.UpdateLicense(ctx, licenseID, func(l *entities.License) error {
		idx, ok := l.FindUser(userID)
		if !ok {
			return fmt.Errorf("%w: %s", entities.ErrUserNotFound, userID)
		}
		l.Users = append(l.Users[:idx], l.Users[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Infow("user removed", "license_id", licenseID, "user_id", userID, "used", len(updated.Users))
	return u.openLicense(updated)
}

// buildUser validates the draft, resolves the email and seals the credentials.
func (u *Usecase) buildUser(draft entities.UserDraft) (entities.User, error) {
	draft = draft.Normalize()
	if draft.Name == "" {
		return entities.User{}, fmt.Errorf("%w: user name is required", entities.ErrInvalidInput)
	}
	email, err := u.policy.Email.Resolve(draft.Email)
	if err != nil {
		return entities.User{}, err
	}

	user := entities.User{
		Name:            draft.Name,
		Email:           email,
		Password:        draft.Password,
		DefaultPassword: draft.DefaultPassword,
	}
	if !entities.IsValidUser(user) {
		return entities.User{}, fmt.Errorf("%w: user name and email are required", entities.ErrInvalidInput)
	}
	if err := u.sealUser(&user); err != nil {
		return entities.User{}, err
	}
	return user, nil
}
