// Package entities contains core business entities and errors.
package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the parent of every missing-resource error.
	ErrNotFound = errors.New("not found")
	// ErrLicenseNotFound is returned when a license does not exist.
	ErrLicenseNotFound = fmt.Errorf("license %w", ErrNotFound)
	// ErrUserNotFound is returned when a user is not assigned to the license.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrInvalidInput signals failed input validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCapacityExceeded signals an add-user attempt on a full license.
	ErrCapacityExceeded = errors.New("license capacity exceeded")
	// ErrCapacityViolation signals an edit that would put maxUsers below occupancy.
	ErrCapacityViolation = errors.New("max users below assigned users")
)
