package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Rym09/resume-screener/internal/collection"
	"github.com/Rym09/resume-screener/internal/credentials"
	"github.com/Rym09/resume-screener/internal/gateway"
	"github.com/Rym09/resume-screener/pkg/domain"
)

// Recruiter is the recruiter dashboard state machine.
type Recruiter struct {
	api    *gateway.Client
	creds  credentials.Store
	logger *slog.Logger

	mu            sync.Mutex
	phase         Phase
	activeTab     Tab
	errText       string
	status        StatusMessage
	profile       domain.UserProfile
	stats         domain.RecruiterStats
	selectedJobID int64
	uploadPercent int
	appsLoaded    bool

	postings     *collection.Collection[domain.JobPosting]
	candidates   *collection.Collection[domain.RankedCandidate]
	applications *collection.Collection[domain.Application]
}

// NewRecruiter constructs the dashboard in its pre-mount state.
func NewRecruiter(api *gateway.Client, creds credentials.Store, logger *slog.Logger) *Recruiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recruiter{
		api:          api,
		creds:        creds,
		logger:       logger,
		phase:        PhaseLoading,
		activeTab:    TabPostings,
		postings:     collection.New[domain.JobPosting](),
		candidates:   collection.New[domain.RankedCandidate](),
		applications: collection.New[domain.Application](),
	}
}

// Mount verifies the session and loads profile, postings and stats
// concurrently. Identity failure exits to PhaseRedirect before loading.
func (r *Recruiter) Mount(ctx context.Context) error {
	stored, ok := r.creds.Get()
	if !ok || stored.Role != domain.RoleRecruiter {
		r.mu.Lock()
		r.phase = PhaseRedirect
		r.mu.Unlock()
		return fmt.Errorf("%w: recruiter session required", gateway.ErrAuth)
	}

	r.mu.Lock()
	r.phase = PhaseLoading
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := r.api.Profile(gctx)
		if err != nil {
			return err
		}
		r.mu.Lock()
		r.profile = profile
		r.mu.Unlock()
		return nil
	})
	g.Go(func() error { return r.loadPostings(gctx) })
	g.Go(func() error { return r.RefreshStats(gctx) })

	if err := g.Wait(); err != nil {
		r.mu.Lock()
		r.phase = PhaseError
		r.errText = gateway.UserMessage(err, "Failed to fetch job postings")
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	r.phase = PhaseReady
	r.mu.Unlock()
	return nil
}

func (r *Recruiter) loadPostings(ctx context.Context) error {
	jobs, err := r.api.JobDescriptions(ctx)
	if err != nil {
		return err
	}
	r.postings.Replace(jobs)
	return nil
}

// RefreshStats reloads the dashboard counters.
func (r *Recruiter) RefreshStats(ctx context.Context) error {
	stats, err := r.api.RecruiterStats(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.stats = stats
	r.mu.Unlock()
	return nil
}

// SelectTab switches the active tab. The applications tab triggers a
// scoped load on first visit this session; other tabs are pure
// transitions. The candidates tab requires a selected job.
func (r *Recruiter) SelectTab(ctx context.Context, tab Tab) error {
	switch tab {
	case TabPostings:
		r.mu.Lock()
		r.activeTab = tab
		r.mu.Unlock()
	case TabCandidates:
		r.mu.Lock()
		if r.selectedJobID == 0 {
			r.mu.Unlock()
			return fmt.Errorf("%w: select a job before screening candidates", gateway.ErrValidation)
		}
		r.activeTab = tab
		r.mu.Unlock()
	case TabApplications:
		r.mu.Lock()
		loaded := r.appsLoaded
		r.activeTab = tab
		r.mu.Unlock()
		if !loaded {
			return r.RefreshApplications(ctx)
		}
	}
	return nil
}

// RefreshApplications reloads the applications snapshot.
func (r *Recruiter) RefreshApplications(ctx context.Context) error {
	apps, err := r.api.RecruiterApplications(ctx)
	if err != nil {
		r.setStatus(false, gateway.UserMessage(err, "Failed to fetch applications"))
		return err
	}
	for i := range apps {
		apps[i].Status = apps[i].Status.Normalize()
	}
	r.applications.Replace(apps)
	r.mu.Lock()
	r.appsLoaded = true
	r.mu.Unlock()
	return nil
}

// UploadJob sends a job description. Transfer progress is tracked as a
// monotonic percentage; hitting 100 only means the body was sent.
// Completion is declared on server acknowledgment, at which point the
// postings collection is reloaded in full: the server owns canonical
// fields like the normalized title.
func (r *Recruiter) UploadJob(ctx context.Context, title, filename string, file io.Reader) error {
	if title == "" || filename == "" || file == nil {
		r.setStatus(false, "Please select a PDF file and enter a job title")
		return fmt.Errorf("%w: file and title are required", gateway.ErrValidation)
	}

	r.mu.Lock()
	r.uploadPercent = 0
	r.mu.Unlock()

	_, err := r.api.UploadJobDescription(ctx, title, filename, file, func(percent int) {
		r.mu.Lock()
		if percent > r.uploadPercent {
			r.uploadPercent = percent
		}
		r.mu.Unlock()
	})
	if err != nil {
		r.mu.Lock()
		r.uploadPercent = 0
		r.mu.Unlock()
		r.setStatus(false, gateway.UserMessage(err, "Failed to upload job description"))
		return err
	}

	if err := r.loadPostings(ctx); err != nil {
		r.setStatus(false, gateway.UserMessage(err, "Failed to fetch job postings"))
		return err
	}
	r.mu.Lock()
	r.uploadPercent = 0
	r.mu.Unlock()
	r.setStatus(true, fmt.Sprintf("Job %q uploaded successfully!", title))
	return nil
}

// SelectJob records the screening selection, switches to the candidates
// tab, and fetches the ranking. A completed fetch whose captured job id no
// longer matches the current selection is discarded (last-selection-wins).
func (r *Recruiter) SelectJob(ctx context.Context, jobID int64) error {
	r.mu.Lock()
	r.selectedJobID = jobID
	r.activeTab = TabCandidates
	gen := r.candidates.Invalidate()
	r.mu.Unlock()

	ranked, err := r.api.RankCandidates(ctx, jobID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selectedJobID != jobID {
		// A newer selection superseded this fetch while it was in
		// flight; its result must not overwrite the current view.
		return nil
	}
	if err != nil {
		r.status = StatusMessage{OK: false, Text: gateway.UserMessage(err, "Failed to fetch candidates")}
		return err
	}
	for i := range ranked {
		if ranked[i].ApplicationStatus != "" {
			ranked[i].ApplicationStatus = ranked[i].ApplicationStatus.Normalize()
		}
	}
	r.candidates.ReplaceIf(gen, ranked)
	return nil
}

// RefreshCandidates re-runs the ranking for the selected job.
func (r *Recruiter) RefreshCandidates(ctx context.Context) error {
	r.mu.Lock()
	jobID := r.selectedJobID
	r.mu.Unlock()
	if jobID == 0 {
		return fmt.Errorf("%w: no job selected", gateway.ErrValidation)
	}
	return r.SelectJob(ctx, jobID)
}

// DeleteJob removes a posting once the server confirms. If the deleted
// posting was the one selected for screening, the selection and the
// candidate list are cleared in the same locked update so the view never
// dangles on a removed job.
func (r *Recruiter) DeleteJob(ctx context.Context, jobID int64) error {
	if _, err := r.api.DeleteJobDescription(ctx, jobID); err != nil {
		r.setStatus(false, gateway.UserMessage(err, "Failed to delete job posting"))
		return err
	}

	r.mu.Lock()
	r.postings.Remove(func(j domain.JobPosting) bool { return j.ID == jobID })
	if r.selectedJobID == jobID {
		r.selectedJobID = 0
		r.candidates.Replace(nil)
		if r.activeTab == TabCandidates {
			r.activeTab = TabPostings
		}
	}
	r.mu.Unlock()
	r.setStatus(true, "Job description deleted successfully")
	return nil
}

// SetApplicationStatus moves an application to a new status. The cached
// application is patched in place on confirmation, as are any ranked
// candidate rows referencing the same application.
func (r *Recruiter) SetApplicationStatus(ctx context.Context, appID int64, status domain.ApplicationStatus) error {
	if status.Normalize() != status {
		return fmt.Errorf("%w: unknown status %q", gateway.ErrValidation, status)
	}
	updated, err := r.api.UpdateApplicationStatus(ctx, appID, status)
	if err != nil {
		r.setStatus(false, gateway.UserMessage(err, "Failed to update application status"))
		return err
	}
	confirmed := updated.Status.Normalize()
	r.applications.Update(
		func(a domain.Application) bool { return a.ID == appID },
		func(a *domain.Application) { a.Status = confirmed },
	)
	r.candidates.UpdateAll(
		func(c domain.RankedCandidate) bool { return c.ApplicationID == appID },
		func(c *domain.RankedCandidate) { c.ApplicationStatus = confirmed },
	)
	r.setStatus(true, fmt.Sprintf("Application marked %s", confirmed))
	return nil
}

// Logout clears the local session regardless of remote state.
func (r *Recruiter) Logout() {
	if err := r.creds.Clear(); err != nil {
		r.logger.Warn("clear credentials on logout", "err", err)
	}
	r.mu.Lock()
	r.phase = PhaseRedirect
	r.mu.Unlock()
}

func (r *Recruiter) setStatus(ok bool, text string) {
	r.mu.Lock()
	r.status = StatusMessage{OK: ok, Text: text}
	r.mu.Unlock()
}

// ClearStatus dismisses the transient message.
func (r *Recruiter) ClearStatus() {
	r.mu.Lock()
	r.status = StatusMessage{}
	r.mu.Unlock()
}

func (r *Recruiter) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

func (r *Recruiter) ActiveTab() Tab {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeTab
}

func (r *Recruiter) SelectedJobID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectedJobID
}

func (r *Recruiter) UploadPercent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uploadPercent
}

func (r *Recruiter) Status() StatusMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Recruiter) ErrorText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errText
}

func (r *Recruiter) Profile() domain.UserProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile
}

func (r *Recruiter) Stats() domain.RecruiterStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Recruiter) Postings() []domain.JobPosting { return r.postings.Items() }

func (r *Recruiter) Candidates() []domain.RankedCandidate { return r.candidates.Items() }

func (r *Recruiter) Applications() []domain.Application { return r.applications.Items() }
