// internal/domain/profile/repository.go
package profile

import "context"

// Repository looks up poster profiles.
type Repository interface {
	// GetByUserID returns nil and no error when the user has no profile.
	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)
}
