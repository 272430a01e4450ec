package domain

type Role string

const (
	RoleApplicant Role = "applicant"
	RoleRecruiter Role = "recruiter"
)

// Dashboard names the target view for a role. Any role other than
// "applicant" lands on the recruiter dashboard, mirroring the server's
// permissive role handling.
func (r Role) Dashboard() string {
	if r == RoleApplicant {
		return "applicant-dashboard"
	}
	return "recruiter-dashboard"
}

type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusSubmitted ApplicationStatus = "submitted"
	StatusReviewed  ApplicationStatus = "reviewed"
	StatusAccepted  ApplicationStatus = "accepted"
	StatusRejected  ApplicationStatus = "rejected"
)

// KnownStatuses lists every status the UI can display.
var KnownStatuses = []ApplicationStatus{
	StatusPending, StatusSubmitted, StatusReviewed, StatusAccepted, StatusRejected,
}

// Normalize maps unrecognized server status values onto a neutral default
// so an unexpected value never blocks display.
func (s ApplicationStatus) Normalize() ApplicationStatus {
	for _, known := range KnownStatuses {
		if s == known {
			return s
		}
	}
	return StatusPending
}

// Session is the client-held view of an authenticated session. The token is
// an opaque bearer credential; the client never inspects it for auth decisions.
type Session struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
	Email string `json:"email,omitempty"`
}

type UserProfile struct {
	Email          string `json:"email"`
	Name           string `json:"name,omitempty"`
	Role           Role   `json:"role,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// Resume is an applicant-owned upload. Nil Skills means the server has not
// finished extraction yet.
type Resume struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	Skills     SkillList `json:"skills"`
	Experience string    `json:"experience,omitempty"`
	Education  string    `json:"education,omitempty"`
}

type JobPosting struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Filename       string    `json:"filename"`
	UploadDate     Timestamp `json:"upload_date"`
	SkillsRequired SkillList `json:"skills_required,omitempty"`
}

type Application struct {
	ID             int64             `json:"id"`
	JobID          int64             `json:"job_id"`
	JobTitle       string            `json:"job_title,omitempty"`
	ApplicantID    int64             `json:"applicant_id,omitempty"`
	ApplicantEmail string            `json:"applicant_email,omitempty"`
	ResumeID       int64             `json:"resume_id,omitempty"`
	ResumeFilename string            `json:"resume_filename,omitempty"`
	ResumeSkills   SkillList         `json:"resume_skills,omitempty"`
	Status         ApplicationStatus `json:"status"`
	AppliedDate    Timestamp         `json:"applied_date"`
}

// RankedCandidate is an ephemeral ranking row recomputed server-side per job
// query. MatchScore is left untyped: the server may omit it or send a
// non-numeric value, and the display layer coerces it (dashboard.RenderScore).
type RankedCandidate struct {
	ResumeID          int64             `json:"resume_id"`
	Filename          string            `json:"filename"`
	ApplicantEmail    string            `json:"applicant_email,omitempty"`
	ApplicationID     int64             `json:"application_id,omitempty"`
	ApplicationStatus ApplicationStatus `json:"application_status,omitempty"`
	MatchScore        any               `json:"match_score"`
	MatchingSkills    []string          `json:"matching_skills,omitempty"`
}

type ActiveSessionRecord struct {
	ID         int64     `json:"id"`
	DeviceInfo string    `json:"device_info,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	CreatedAt  Timestamp `json:"created_at"`
	ExpiresAt  Timestamp `json:"expires_at,omitempty"`
}

type RecruiterStats struct {
	TotalCandidates   int `json:"total_candidates"`
	ActiveJobs        int `json:"active_jobs"`
	TotalApplications int `json:"total_applications"`
}

// Ack is the generic server acknowledgment payload.
type Ack struct {
	Message string `json:"message"`
}
