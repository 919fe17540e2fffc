package postgrest

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"cpghub_cleanup/internal/domain/profile"
)

const (
	profilesTable   = "user_profiles"
	profilesColumns = "user_id,full_name,email"
)

// ProfileRepository implements profile.Repository over the REST interface.
type ProfileRepository struct {
	client *Client
}

func NewProfileRepository(c *Client) *ProfileRepository {
	return &ProfileRepository{client: c}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*profile.UserProfile, error) {
	q := url.Values{}
	q.Set("select", profilesColumns)
	q.Set("user_id", "eq."+userID)
	q.Set("limit", "1")

	var rows []profile.UserProfile
	err := r.client.do(ctx, http.MethodGet, profilesTable, q, "fetch user profile "+userID, &rows)
	if err != nil {
		var dsErr *DataStoreError
		if errors.As(err, &dsErr) && dsErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
