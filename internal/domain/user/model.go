// Package user defines the accounts that import workbooks.
package user

import (
	"errors"
	"strings"
	"time"
)

// Role is the access level of a user.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleStaff   Role = "Staff"
)

// ErrInvalidRole indicates an unknown role name.
var ErrInvalidRole = errors.New("invalid role")

// ParseRole matches a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleStaff} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// User is an account that can be recorded as a project's creator.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Role        Role      `json:"role"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
