// Package models defines the user directory records.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the stored role gating route access.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleRecipient Role = "recipient"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleRecipient, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// AccountStatus marks whether an account may act on the platform.
type AccountStatus string

const (
	StatusActive  AccountStatus = "active"
	StatusBlocked AccountStatus = "blocked"
)

// Valid reports whether s is a known account status.
func (s AccountStatus) Valid() bool {
	return s == StatusActive || s == StatusBlocked
}

// User is a directory record. Email is the unique key; records are created on
// first self-registration and never deleted.
type User struct {
	ID         uuid.UUID     `json:"id"`
	Email      string        `json:"email"`
	Name       string        `json:"name"`
	Role       Role          `json:"role"`
	Status     AccountStatus `json:"status"`
	BloodGroup string        `json:"bloodGroup,omitempty"`
	District   string        `json:"district,omitempty"`
	Upazila    string        `json:"upazila,omitempty"`
	AvatarURL  string        `json:"avatar,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Profile carries the self-editable fields of a user record. Role, email,
// and status are deliberately absent: those change through their own
// privileged operations.
type Profile struct {
	Name       string `json:"name"`
	BloodGroup string `json:"bloodGroup"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
	AvatarURL  string `json:"avatar"`
}

// DonorFilter narrows the public donor search. Empty fields match anything.
type DonorFilter struct {
	BloodGroup string
	District   string
	Upazila    string
}
