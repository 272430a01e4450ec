package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Rym09/resume-screener/pkg/domain"
)

// UploadResume sends a resume file and returns the created record with the
// skills the server extracted.
func (c *Client) UploadResume(ctx context.Context, filename string, r io.Reader) (domain.Resume, error) {
	files := []uploadFile{{field: "file", filename: filename, reader: r}}
	var resume domain.Resume
	if err := c.doMultipart(ctx, http.MethodPost, "/upload-resume/", nil, files, nil, &resume); err != nil {
		return domain.Resume{}, err
	}
	return resume, nil
}

// MyResumes lists the applicant's resumes.
func (c *Client) MyResumes(ctx context.Context) ([]domain.Resume, error) {
	var resumes []domain.Resume
	if err := c.doJSON(ctx, http.MethodGet, "/resumes/me", nil, &resumes); err != nil {
		return nil, err
	}
	return resumes, nil
}

// DeleteResume removes one resume by id.
func (c *Client) DeleteResume(ctx context.Context, id int64) (domain.Ack, error) {
	var ack domain.Ack
	path := fmt.Sprintf("/resumes/%d", id)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &ack); err != nil {
		return domain.Ack{}, err
	}
	return ack, nil
}

// AvailableJobs lists job postings open to applicants.
func (c *Client) AvailableJobs(ctx context.Context) ([]domain.JobPosting, error) {
	var jobs []domain.JobPosting
	if err := c.doJSON(ctx, http.MethodGet, "/jobs/available", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// MyApplications lists the applicant's submitted applications.
func (c *Client) MyApplications(ctx context.Context) ([]domain.Application, error) {
	var apps []domain.Application
	if err := c.doJSON(ctx, http.MethodGet, "/applications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Apply submits an application linking a job to one of the applicant's
// resumes. The server enforces at most one application per job.
func (c *Client) Apply(ctx context.Context, jobID, resumeID int64) (domain.Application, error) {
	fields := map[string]string{
		"job_id":    strconv.FormatInt(jobID, 10),
		"resume_id": strconv.FormatInt(resumeID, 10),
	}
	var app domain.Application
	if err := c.doMultipart(ctx, http.MethodPost, "/applications", fields, nil, nil, &app); err != nil {
		return domain.Application{}, err
	}
	return app, nil
}
