// Package entities contains core business entities.
package entities

import "strings"

// User is a person occupying one seat of a license.
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	DefaultPassword string `json:"defaultPassword"`
}

// UserDraft carries the caller-supplied fields of a user on add and edit.
type UserDraft struct {
	Name            string
	Email           string
	Password        string
	DefaultPassword string
}

// Normalize trims surrounding whitespace from the descriptive fields.
func (d UserDraft) Normalize() UserDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	return d
}

// IsValidUser reports whether the required user fields are set.
func IsValidUser(u User) bool {
	return strings.TrimSpace(u.Name) != "" && strings.TrimSpace(u.Email) != ""
}
