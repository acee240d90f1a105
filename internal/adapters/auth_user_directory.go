// Package adapters contains adapters that bridge different bounded contexts.
// These adapters implement interfaces defined by consuming domains while
// wrapping services from providing domains.
package adapters

import (
	"context"

	authservice "sorun_takip_backend/internal/auth/service"
	reportservice "sorun_takip_backend/internal/reports/service"

	"github.com/google/uuid"
)

// AuthUserDirectory adapts the auth service to the reports domain's
// UserDirectory interface, so the reports domain never touches auth internals.
type AuthUserDirectory struct {
	authSvc *authservice.Service
}

// NewAuthUserDirectory creates a new adapter wrapping the auth service.
func NewAuthUserDirectory(authSvc *authservice.Service) *AuthUserDirectory {
	return &AuthUserDirectory{authSvc: authSvc}
}

// GetUser returns the reports-domain view of a user.
func (d *AuthUserDirectory) GetUser(ctx context.Context, userID uuid.UUID) (reportservice.UserInfo, error) {
	profile, err := d.authSvc.GetProfile(ctx, userID)
	if err != nil {
		return reportservice.UserInfo{}, err
	}

	return reportservice.UserInfo{
		ID:       profile.ID,
		Email:    profile.Email,
		FullName: profile.FullName(),
		Role:     profile.Role,
		District: profile.District,
	}, nil
}

// Compile-time check that AuthUserDirectory implements reports' UserDirectory
var _ reportservice.UserDirectory = (*AuthUserDirectory)(nil)
