// Package dashboard holds the per-role state machines that orchestrate
// collection loads, gate user actions on prerequisites, and expose derived
// view state.
package dashboard

// Phase is the dashboard lifecycle state.
type Phase string

const (
	// PhaseLoading means the initial data fetch is outstanding.
	PhaseLoading Phase = "loading"
	// PhaseReady means data is present and a tab is active.
	PhaseReady Phase = "ready"
	// PhaseError means a required initial fetch failed.
	PhaseError Phase = "error"
	// PhaseRedirect means identity verification failed before loading:
	// the caller must route to the login entry point.
	PhaseRedirect Phase = "redirect-to-login"
)

// Tab identifies an active dashboard tab.
type Tab string

const (
	TabResumes      Tab = "resumes"
	TabApplications Tab = "applications"
	TabJobs         Tab = "jobs"
	TabPostings     Tab = "postings"
	TabCandidates   Tab = "candidates"
)

// StatusMessage is the transient per-view message produced by operation
// outcomes. A zero value means nothing to show.
type StatusMessage struct {
	OK   bool
	Text string
}

// Empty reports whether there is no message to display.
func (s StatusMessage) Empty() bool { return s.Text == "" }

// ApplyState tracks the applicant's apply-to-job sub-flow.
type ApplyState string

const (
	// ApplyIdle means no application is in progress.
	ApplyIdle ApplyState = "idle"
	// ApplySelectingResume means the resume-picker modal is open.
	ApplySelectingResume ApplyState = "selecting-resume"
	// ApplySubmitting means the application request is in flight.
	ApplySubmitting ApplyState = "submitting"
)
