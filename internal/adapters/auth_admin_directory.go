package adapters

import (
	"context"

	authservice "sorun_takip_backend/internal/auth/service"
	"sorun_takip_backend/internal/notification"

	"github.com/google/uuid"
)

// adminPageSize bounds each role listing; municipalities have a handful of
// admin accounts, not hundreds.
const adminPageSize = 100

// AuthAdminDirectory adapts the auth service to the notification module's
// AdminDirectory interface.
type AuthAdminDirectory struct {
	authSvc *authservice.Service
}

func NewAuthAdminDirectory(authSvc *authservice.Service) *AuthAdminDirectory {
	return &AuthAdminDirectory{authSvc: authSvc}
}

// ListAdminIDs returns the ids of every admin and superadmin account.
func (d *AuthAdminDirectory) ListAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, adminPageSize)
	for _, role := range []string{"admin", "superadmin"} {
		profiles, err := d.authSvc.ListUsers(ctx, role, adminPageSize, 0)
		if err != nil {
			return nil, err
		}
		for _, profile := range profiles {
			ids = append(ids, profile.ID)
		}
	}
	return ids, nil
}

var _ notification.AdminDirectory = (*AuthAdminDirectory)(nil)
