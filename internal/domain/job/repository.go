// internal/domain/job/repository.go
package job

import (
	"context"
	"time"
)

// Repository defines the job posting operations used by the cleanup batch.
type Repository interface {
	// FetchExpired returns every posting created strictly before cutoff.
	// An empty slice is returned when nothing has expired.
	FetchExpired(ctx context.Context, cutoff time.Time) ([]Posting, error)
	// Delete removes the posting with the given id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}
