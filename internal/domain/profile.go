package domain

import (
	"fmt"
	"time"
)

// Level represents the enrollment level of a student.
type Level string

const (
	LevelL3 Level = "L3"
	LevelL4 Level = "L4"
	LevelL5 Level = "L5"
)

// ParseLevel validates an externally sourced level value.
func ParseLevel(raw string) (Level, error) {
	switch Level(raw) {
	case LevelL3, LevelL4, LevelL5:
		return Level(raw), nil
	default:
		return "", fmt.Errorf("unknown enrollment level %q", raw)
	}
}

// Role distinguishes students from administrators.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// ParseRole validates an externally sourced role value.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleStudent, RoleAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Profile is the business-state record associated one-to-one with an identity.
// It is created once at registration and thereafter mutated only by trusted
// workflows (payment verification, activation, admin role assignment).
type Profile struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	School    string
	Level     Level
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// IsActive reports whether the account has been activated. A nil profile is
// never active.
func (p *Profile) IsActive() bool {
	return p != nil && p.Active
}
