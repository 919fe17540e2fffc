package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cpghub_cleanup/internal/domain/job"
)

const (
	jobsTable   = "job_listings"
	jobsColumns = "id,job_title,poster_id,created_at"

	// isoMillis matches the timestamp format the data store filters on.
	isoMillis = "2006-01-02T15:04:05.000Z"
)

// JobRepository implements job.Repository over the REST interface.
type JobRepository struct {
	client *Client
}

func NewJobRepository(c *Client) *JobRepository {
	return &JobRepository{client: c}
}

func (r *JobRepository) FetchExpired(ctx context.Context, cutoff time.Time) ([]job.Posting, error) {
	q := url.Values{}
	q.Set("select", jobsColumns)
	q.Set("created_at", "lt."+cutoff.UTC().Format(isoMillis))

	var rows []jobRow
	if err := r.client.do(ctx, http.MethodGet, jobsTable, q, "query job_listings", &rows); err != nil {
		return nil, err
	}

	postings := make([]job.Posting, 0, len(rows))
	for _, row := range rows {
		postings = append(postings, job.Posting{
			ID:        row.ID,
			JobTitle:  row.JobTitle,
			PosterID:  row.PosterID,
			CreatedAt: time.Time(row.CreatedAt),
		})
	}
	return postings, nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return r.client.do(ctx, http.MethodDelete, jobsTable, q, "delete job "+id, nil)
}

type jobRow struct {
	ID        string    `json:"id"`
	JobTitle  string    `json:"job_title"`
	PosterID  string    `json:"poster_id"`
	CreatedAt timestamp `json:"created_at"`
}

var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
}

// Columns declared without a time zone come back with no offset; those are read as UTC.
var offsetlessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// timestamp decodes RFC 3339 values, short "+00" offsets and offset-less values.
type timestamp time.Time

func (ts *timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts = timestamp(t)
			return nil
		}
	}
	for _, layout := range offsetlessLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*ts = timestamp(t)
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
