package entities

import (
	"math"
	"strings"
)

// License is a pool of seats with administrative credentials.
type License struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	ActivationEmail    string `json:"activationEmail"`
	ActivationPassword string `json:"activationPassword"`
	DefaultPassword    string `json:"defaultPassword"`
	MaxUsers           int    `json:"maxUsers"`
	Users              []User `json:"users"`
}

// LicenseDraft carries the mutable license fields on create and edit.
type LicenseDraft struct {
	Name               string
	Email              string
	ActivationEmail    string
	ActivationPassword string
	DefaultPassword    string
	MaxUsers           int
}

// Normalize trims surrounding whitespace from every string field.
func (d LicenseDraft) Normalize() LicenseDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.ActivationEmail = strings.TrimSpace(d.ActivationEmail)
	d.ActivationPassword = strings.TrimSpace(d.ActivationPassword)
	d.DefaultPassword = strings.TrimSpace(d.DefaultPassword)
	return d
}

// Apply copies the draft onto l, leaving id and users untouched.
func (d LicenseDraft) Apply(l *License) {
	l.Name = d.Name
	l.Email = d.Email
	l.ActivationEmail = d.ActivationEmail
	l.ActivationPassword = d.ActivationPassword
	l.DefaultPassword = d.DefaultPassword
	l.MaxUsers = d.MaxUsers
}

// IsValidLicense reports whether the required license fields are set and capacity is positive.
func IsValidLicense(l License) bool {
	for _, s := range []string{l.Name, l.Email, l.ActivationPassword, l.DefaultPassword} {
		if strings.TrimSpace(s) == "" {
			return false
		}
	}
	return l.MaxUsers >= 1
}

// HasCapacity reports whether one more user fits.
func HasCapacity(l License) bool {
	return len(l.Users) < l.MaxUsers
}

// FindUser returns the position of the user with the given id.
func (l License) FindUser(userID string) (int, bool) {
	for i, u := range l.Users {
		if u.ID == userID {
			return i, true
		}
	}
	return -1, false
}

// AvailableSlots is maxUsers minus occupancy, never negative.
func (l License) AvailableSlots() int {
	if free := l.MaxUsers - len(l.Users); free > 0 {
		return free
	}
	return 0
}

// Usage derives the per-license seat view.
func (l License) Usage() LicenseUsage {
	return LicenseUsage{
		LicenseID:       l.ID,
		UsedSlots:       len(l.Users),
		MaxUsers:        l.MaxUsers,
		AvailableSlots:  l.AvailableSlots(),
		UsagePercentage: percentage(len(l.Users), l.MaxUsers),
		Full:            !HasCapacity(l),
	}
}

// Clone returns a deep copy so callers never share the users slice. Users is never nil in the copy.
func (l License) Clone() License {
	users := make([]User, len(l.Users))
	copy(users, l.Users)
	l.Users = users
	return l
}

func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
