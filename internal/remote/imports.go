package remote

import (
	"context"
	"fmt"
	"net/http"
)

// ImportJob records that the user uploaded a file.
type ImportJob struct {
	ID        int64  `json:"id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Source    string `json:"source,omitempty"`
	RowsCount int    `json:"rows_count"`
	Status    string `json:"status,omitempty"`
}

// CreateImportJob inserts a pending job and returns the stored row. The
// job counts as created only when the backend assigned a positive id.
func (c *Client) CreateImportJob(ctx context.Context, job ImportJob) (ImportJob, error) {
	if job.Status == "" {
		job.Status = "pending"
	}
	var rows []ImportJob
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/" + TableImports,
		body:   job,
		prefer: "return=representation",
		auth:   authRequired,
	}, &rows)
	if err != nil {
		return ImportJob{}, fmt.Errorf("creating import job: %w", err)
	}
	if len(rows) == 0 || rows[0].ID <= 0 {
		return ImportJob{}, fmt.Errorf("creating import job: backend assigned no id")
	}
	return rows[0], nil
}
