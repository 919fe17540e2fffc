// internal/domain/job/job.go
package job

import "time"

// RetentionWindow is how long a posting stays listed before the cleanup batch removes it.
const RetentionWindow = 30 * 24 * time.Hour

// Posting is the subset of a job_listings row the cleanup batch needs.
type Posting struct {
	ID        string    `json:"id"`
	JobTitle  string    `json:"job_title"`
	PosterID  string    `json:"poster_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Cutoff returns the instant before which postings count as expired.
func Cutoff(now time.Time) time.Time {
	return now.Add(-RetentionWindow)
}

// IsExpired reports whether the posting was created strictly before cutoff.
func (p Posting) IsExpired(cutoff time.Time) bool {
	return p.CreatedAt.Before(cutoff)
}
