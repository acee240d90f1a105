// Package domain holds the auth types shared across bounded contexts.
// Handlers, services, and other domains import these leaf types; module
// wiring stays in the parent auth package.
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role names, in ascending privilege order.
const (
	RoleCitizen    = "citizen"
	RoleWorker     = "worker"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// StaffRoles are the roles allowed to act on reports beyond their own.
var StaffRoles = []string{RoleWorker, RoleAdmin, RoleSuperadmin}

// IsValidRole reports whether the given role name is known.
func IsValidRole(role string) bool {
	switch role {
	case RoleCitizen, RoleWorker, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// Profile represents user information that can be shared with other domains.
type Profile struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Role      string
	// District is the working area assigned to workers, empty otherwise.
	District  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins the profile's name parts for display.
func (p Profile) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Directory defines the cross-domain lookup interface other bounded contexts
// should depend on, rather than on the concrete auth service.
type Directory interface {
	// GetProfile returns the profile of the user with the given ID.
	GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error)
}
