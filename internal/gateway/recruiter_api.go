package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Rym09/resume-screener/pkg/domain"
)

// UploadJobDescription sends a job description file with its title.
// progress, when non-nil, receives monotonic transfer percentages; the
// caller must treat 100 as "sent", not "accepted".
func (c *Client) UploadJobDescription(ctx context.Context, title, filename string, r io.Reader, progress ProgressFunc) (domain.JobPosting, error) {
	fields := map[string]string{"title": title}
	files := []uploadFile{{field: "file", filename: filename, reader: r}}
	var posting domain.JobPosting
	if err := c.doMultipart(ctx, http.MethodPost, "/upload-job-description/", fields, files, progress, &posting); err != nil {
		return domain.JobPosting{}, err
	}
	return posting, nil
}

// JobDescriptions lists the recruiter's own postings.
func (c *Client) JobDescriptions(ctx context.Context) ([]domain.JobPosting, error) {
	var jobs []domain.JobPosting
	if err := c.doJSON(ctx, http.MethodGet, "/job-descriptions/", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// DeleteJobDescription removes one posting by id.
func (c *Client) DeleteJobDescription(ctx context.Context, id int64) (domain.Ack, error) {
	var ack domain.Ack
	path := fmt.Sprintf("/job-descriptions/%d", id)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &ack); err != nil {
		return domain.Ack{}, err
	}
	return ack, nil
}

type rankCandidatesResponse struct {
	RankedCandidates []domain.RankedCandidate `json:"ranked_candidates"`
	Message          string                   `json:"message,omitempty"`
}

// RankCandidates returns the server-computed ranking for one job. The
// result is ephemeral; the server recomputes it per query.
func (c *Client) RankCandidates(ctx context.Context, jobID int64) ([]domain.RankedCandidate, error) {
	path := "/rank-candidates/?" + url.Values{"job_description_id": {fmt.Sprint(jobID)}}.Encode()
	var resp rankCandidatesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.RankedCandidates, nil
}

// RecruiterApplications lists applications across the recruiter's postings.
func (c *Client) RecruiterApplications(ctx context.Context) ([]domain.Application, error) {
	var apps []domain.Application
	if err := c.doJSON(ctx, http.MethodGet, "/recruiter/applications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateApplicationStatus moves an application to a new status.
func (c *Client) UpdateApplicationStatus(ctx context.Context, id int64, status domain.ApplicationStatus) (domain.Application, error) {
	fields := map[string]string{"status": string(status)}
	var app domain.Application
	path := fmt.Sprintf("/recruiter/applications/%d", id)
	if err := c.doMultipart(ctx, http.MethodPut, path, fields, nil, nil, &app); err != nil {
		return domain.Application{}, err
	}
	return app, nil
}

// RecruiterStats fetches dashboard counters.
func (c *Client) RecruiterStats(ctx context.Context) (domain.RecruiterStats, error) {
	var stats domain.RecruiterStats
	if err := c.doJSON(ctx, http.MethodGet, "/stats/recruiter", nil, &stats); err != nil {
		return domain.RecruiterStats{}, err
	}
	return stats, nil
}
