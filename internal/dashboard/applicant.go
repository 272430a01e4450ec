package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Rym09/resume-screener/internal/collection"
	"github.com/Rym09/resume-screener/internal/credentials"
	"github.com/Rym09/resume-screener/internal/gateway"
	"github.com/Rym09/resume-screener/pkg/domain"
)

// Applicant is the applicant dashboard state machine.
type Applicant struct {
	api    *gateway.Client
	creds  credentials.Store
	logger *slog.Logger

	mu          sync.Mutex
	phase       Phase
	activeTab   Tab
	errText     string
	status      StatusMessage
	profile     domain.UserProfile
	applyState  ApplyState
	applyJobID  int64
	appliedJobs map[int64]struct{}

	resumes       *collection.Collection[domain.Resume]
	applications  *collection.Collection[domain.Application]
	availableJobs *collection.Collection[domain.JobPosting]
}

// NewApplicant constructs the dashboard in its pre-mount state.
func NewApplicant(api *gateway.Client, creds credentials.Store, logger *slog.Logger) *Applicant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applicant{
		api:           api,
		creds:         creds,
		logger:        logger,
		phase:         PhaseLoading,
		activeTab:     TabResumes,
		applyState:    ApplyIdle,
		appliedJobs:   make(map[int64]struct{}),
		resumes:       collection.New[domain.Resume](),
		applications:  collection.New[domain.Application](),
		availableJobs: collection.New[domain.JobPosting](),
	}
}

// Mount verifies the session and loads all applicant collections
// concurrently. Completion order is irrelevant: each load replaces its own
// snapshot. On a missing or mismatched session the machine exits to
// PhaseRedirect without loading anything.
func (a *Applicant) Mount(ctx context.Context) error {
	stored, ok := a.creds.Get()
	if !ok || stored.Role != domain.RoleApplicant {
		a.mu.Lock()
		a.phase = PhaseRedirect
		a.mu.Unlock()
		return fmt.Errorf("%w: applicant session required", gateway.ErrAuth)
	}

	a.mu.Lock()
	a.phase = PhaseLoading
	a.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := a.api.Profile(gctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.profile = profile
		a.mu.Unlock()
		return nil
	})
	g.Go(func() error { return a.loadResumes(gctx) })
	g.Go(func() error { return a.loadApplications(gctx) })
	g.Go(func() error {
		jobs, err := a.api.AvailableJobs(gctx)
		if err != nil {
			return err
		}
		a.availableJobs.Replace(jobs)
		return nil
	})

	if err := g.Wait(); err != nil {
		a.mu.Lock()
		a.phase = PhaseError
		a.errText = gateway.UserMessage(err, "Failed to load data")
		a.mu.Unlock()
		return err
	}

	a.mu.Lock()
	a.phase = PhaseReady
	a.mu.Unlock()
	return nil
}

func (a *Applicant) loadResumes(ctx context.Context) error {
	resumes, err := a.api.MyResumes(ctx)
	if err != nil {
		return err
	}
	a.resumes.Replace(resumes)
	return nil
}

func (a *Applicant) loadApplications(ctx context.Context) error {
	apps, err := a.api.MyApplications(ctx)
	if err != nil {
		return err
	}
	for i := range apps {
		apps[i].Status = apps[i].Status.Normalize()
	}
	a.applications.Replace(apps)

	index := make(map[int64]struct{}, len(apps))
	for _, app := range apps {
		index[app.JobID] = struct{}{}
	}
	a.mu.Lock()
	a.appliedJobs = index
	a.mu.Unlock()
	return nil
}

// SelectTab switches the active tab. Tab selection is a pure transition
// for the applicant: every collection is loaded on mount.
func (a *Applicant) SelectTab(tab Tab) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch tab {
	case TabResumes, TabApplications, TabJobs:
		a.activeTab = tab
	}
}

// UploadResume sends the file and appends the confirmed record. No
// placeholder is inserted before the server resolves the create.
func (a *Applicant) UploadResume(ctx context.Context, filename string, r io.Reader) error {
	if filename == "" || r == nil {
		a.setStatus(false, "Please select a file first")
		return fmt.Errorf("%w: no file selected", gateway.ErrValidation)
	}
	resume, err := a.api.UploadResume(ctx, filename, r)
	if err != nil {
		a.setStatus(false, gateway.UserMessage(err, "Failed to upload resume"))
		return err
	}
	a.resumes.Append(resume)
	detected := "None"
	if len(resume.Skills) > 0 {
		detected = strings.Join(resume.Skills, ", ")
	}
	a.setStatus(true, fmt.Sprintf("Resume %q uploaded successfully! Skills detected: %s", filename, detected))
	return nil
}

// DeleteResume removes the resume once the server confirms.
func (a *Applicant) DeleteResume(ctx context.Context, id int64) error {
	if _, err := a.api.DeleteResume(ctx, id); err != nil {
		a.setStatus(false, gateway.UserMessage(err, "Failed to delete resume"))
		return err
	}
	a.resumes.Remove(func(r domain.Resume) bool { return r.ID == id })
	a.setStatus(true, "Resume deleted successfully!")
	return nil
}

// StartApply opens the resume-picker for a job. With zero resumes the flow
// short-circuits: an instructional message is shown, the active tab jumps
// to resumes, and no modal opens. Reports whether the picker opened.
func (a *Applicant) StartApply(jobID int64) bool {
	if a.resumes.Len() == 0 {
		a.mu.Lock()
		a.activeTab = TabResumes
		a.status = StatusMessage{OK: false, Text: "Please upload a resume before applying to jobs"}
		a.mu.Unlock()
		return false
	}
	a.mu.Lock()
	a.applyState = ApplySelectingResume
	a.applyJobID = jobID
	a.mu.Unlock()
	return true
}

// CancelApply closes the resume-picker without submitting.
func (a *Applicant) CancelApply() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.applyState == ApplySelectingResume {
		a.applyState = ApplyIdle
		a.applyJobID = 0
	}
}

// SubmitApplication submits the picked resume for the pending job. On
// failure the picker stays open so the user can retry or pick another
// resume.
func (a *Applicant) SubmitApplication(ctx context.Context, resumeID int64) error {
	a.mu.Lock()
	if a.applyState != ApplySelectingResume {
		a.mu.Unlock()
		return fmt.Errorf("%w: no application in progress", gateway.ErrValidation)
	}
	jobID := a.applyJobID
	a.applyState = ApplySubmitting
	a.mu.Unlock()

	app, err := a.api.Apply(ctx, jobID, resumeID)
	if err != nil {
		a.mu.Lock()
		a.applyState = ApplySelectingResume
		a.status = StatusMessage{OK: false, Text: gateway.UserMessage(err, "Failed to submit application")}
		a.mu.Unlock()
		return err
	}

	app.Status = app.Status.Normalize()
	a.applications.Append(app)
	a.mu.Lock()
	a.appliedJobs[jobID] = struct{}{}
	a.applyState = ApplyIdle
	a.applyJobID = 0
	a.status = StatusMessage{OK: true, Text: fmt.Sprintf("Successfully applied to %s!", app.JobTitle)}
	a.mu.Unlock()
	return nil
}

// HasApplied reports whether an application exists for the job, via the
// index maintained alongside the applications collection.
func (a *Applicant) HasApplied(jobID int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.appliedJobs[jobID]
	return ok
}

// Logout clears the local session regardless of remote state.
func (a *Applicant) Logout() {
	if err := a.creds.Clear(); err != nil {
		a.logger.Warn("clear credentials on logout", "err", err)
	}
	a.mu.Lock()
	a.phase = PhaseRedirect
	a.mu.Unlock()
}

func (a *Applicant) setStatus(ok bool, text string) {
	a.mu.Lock()
	a.status = StatusMessage{OK: ok, Text: text}
	a.mu.Unlock()
}

// ClearStatus dismisses the transient message.
func (a *Applicant) ClearStatus() {
	a.mu.Lock()
	a.status = StatusMessage{}
	a.mu.Unlock()
}

func (a *Applicant) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

func (a *Applicant) ActiveTab() Tab {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeTab
}

func (a *Applicant) ApplyState() ApplyState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.applyState
}

func (a *Applicant) Status() StatusMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Applicant) ErrorText() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.errText
}

func (a *Applicant) Profile() domain.UserProfile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile
}

func (a *Applicant) Resumes() []domain.Resume { return a.resumes.Items() }

func (a *Applicant) Applications() []domain.Application { return a.applications.Items() }

func (a *Applicant) AvailableJobs() []domain.JobPosting { return a.availableJobs.Items() }
