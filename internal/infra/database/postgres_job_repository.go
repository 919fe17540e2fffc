package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cpghub_cleanup/internal/domain/job"
)

// The key is compared uncast so the primary-key index stays usable.
const deleteJobQuery = `DELETE FROM job_listings WHERE id = $1`

// PostgresJobRepository reads and deletes job_listings rows directly.
type PostgresJobRepository struct {
	db *sql.DB
}

func NewPostgresJobRepository(db *sql.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) FetchExpired(ctx context.Context, cutoff time.Time) ([]job.Posting, error) {
	query := `SELECT id::text, job_title, poster_id::text, created_at
               FROM job_listings WHERE created_at < $1`

	rows, err := r.db.QueryContext(ctx, query, cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("error fetching expired jobs: %w", err)
	}
	defer rows.Close()

	postings := make([]job.Posting, 0)
	for rows.Next() {
		var (
			p        job.Posting
			title    sql.NullString
			posterID sql.NullString
		)
		if err := rows.Scan(&p.ID, &title, &posterID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning expired job: %w", err)
		}
		p.JobTitle = title.String
		p.PosterID = posterID.String
		postings = append(postings, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expired jobs: %w", err)
	}
	return postings, nil
}

// Delete removes the row; zero affected rows is treated as success.
func (r *PostgresJobRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteJobQuery, id); err != nil {
		return fmt.Errorf("error deleting job %s: %w", id, err)
	}
	return nil
}
