package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleResident  Role = "resident"
	RoleSecretary Role = "secretary"
	// RoleAdmin is reserved. It grants nothing beyond RoleResident today.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleResident, RoleSecretary, RoleAdmin:
		return true
	}
	return false
}

// User models an authenticated member of the community.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Apartment    string    `json:"apartment"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsSecretary reports whether the user holds the secretary role.
func (u *User) IsSecretary() bool {
	return u != nil && u.Role == RoleSecretary
}

// OwnerID lets a user act as a policy target for self-service actions.
func (u *User) OwnerID() string {
	return u.ID
}

// NormalizeEmail trims and lower-cases an email address. Every lookup and
// write of User.Email goes through it so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MinPasswordLength is the shortest password accepted at registration and on
// a password change.
const MinPasswordLength = 6

// CheckPasswordStrength reports a *ValidationError on field when password is
// too short or does not mix letters and digits.
func CheckPasswordStrength(field, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return Invalid(field, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if strings.IndexFunc(password, unicode.IsLetter) < 0 || strings.IndexFunc(password, unicode.IsDigit) < 0 {
		return Invalid(field, "must contain both letters and numbers")
	}
	return nil
}

// UserPatch carries the fields a profile update may change. Nil fields are
// left untouched.
type UserPatch struct {
	Name         *string
	Apartment    *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Apartment == nil && p.Email == nil && p.PasswordHash == nil
}
