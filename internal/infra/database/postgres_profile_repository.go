package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cpghub_cleanup/internal/domain/profile"
)

const profileByUserIDQuery = `SELECT user_id::text, full_name, email FROM user_profiles WHERE user_id = $1 LIMIT 1`

// PostgresProfileRepository reads user_profiles rows directly.
type PostgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID string) (*profile.UserProfile, error) {
	var (
		u        profile.UserProfile
		fullName sql.NullString
		email    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, profileByUserIDQuery, userID).Scan(&u.UserID, &fullName, &email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting user profile %s: %w", userID, err)
	}
	if fullName.Valid {
		u.FullName = &fullName.String
	}
	if email.Valid {
		u.Email = &email.String
	}
	return &u, nil
}
