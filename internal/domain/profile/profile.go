// internal/domain/profile/profile.go
package profile

import "strings"

// UserProfile is the contact information of a poster.
type UserProfile struct {
	UserID   string  `json:"user_id"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

// HasEmail reports whether an address is on file.
func (u *UserProfile) HasEmail() bool {
	return u != nil && u.Email != nil && strings.TrimSpace(*u.Email) != ""
}

// DisplayName is the greeting name, "there" when no full name is stored.
func (u *UserProfile) DisplayName() string {
	if u == nil || u.FullName == nil || strings.TrimSpace(*u.FullName) == "" {
		return "there"
	}
	return *u.FullName
}
