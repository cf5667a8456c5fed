package entities

import (
	"fmt"
	"strings"
)

// EmailMode selects how user email addresses are supplied.
type EmailMode string

const (
	// EmailModeFull expects a complete address.
	EmailModeFull EmailMode = "full"
	// EmailModePrefix expects a local part joined to the organisation domain.
	EmailModePrefix EmailMode = "prefix"
)

// EmailPolicy turns caller input into the stored user address.
type EmailPolicy struct {
	Mode   EmailMode
	Domain string
}

// Validate checks the policy itself.
func (p EmailPolicy) Validate() error {
	switch p.Mode {
	case EmailModeFull:
		return nil
	case EmailModePrefix:
		if strings.Trim(strings.TrimSpace(p.Domain), "@") == "" {
			return fmt.Errorf("%w: email domain is required in prefix mode", ErrInvalidInput)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown email mode %q", ErrInvalidInput, p.Mode)
	}
}

// Resolve returns the address to store for raw.
func (p EmailPolicy) Resolve(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	if p.Mode == EmailModePrefix {
		if strings.Contains(raw, "@") {
			return "", fmt.Errorf("%w: email prefix must not contain @", ErrInvalidInput)
		}
		return raw + "@" + strings.TrimLeft(strings.TrimSpace(p.Domain), "@"), nil
	}

	local, domain, ok := strings.Cut(raw, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return "", fmt.Errorf("%w: malformed email %q", ErrInvalidInput, raw)
	}
	return raw, nil
}
