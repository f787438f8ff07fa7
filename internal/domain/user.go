package domain

import (
	"fmt"
	"time"
)

// Role is a named capability tag. Roles form a closed set validated at write
// time; free-text role strings never reach storage.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole validates a raw role tag.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is the domain entity for an account. A row exists only after the
// account's MFA secret has been confirmed by one valid code.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	MfaSecret    string
	Roles        []Role
	CreatedAt    time.Time
}

// HasRole reports whether the user carries the given capability tag.
func (u User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}
