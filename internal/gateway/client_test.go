package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Rym09/resume-screener/internal/credentials"
	"github.com/Rym09/resume-screener/pkg/domain"
)

func newTestClient(t *testing.T, handler http.Handler, policy AuthFailurePolicy) (*Client, credentials.Store, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	creds := credentials.NewMemoryStore()
	client, err := New(Config{
		BaseURL:     server.URL,
		Credentials: creds,
		Policy:      policy,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, creds, server
}

func TestAttachesBearerWhenPresent(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"email":"a@b.c"}`))
	})
	client, creds, _ := newTestClient(t, handler, nil)

	if _, err := client.Profile(context.Background()); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected unauthenticated request, got %q", gotAuth)
	}

	creds.Set(credentials.Credentials{Token: "tok-1", Role: domain.RoleApplicant})
	if _, err := client.Profile(context.Background()); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestSetsRequestIDHeader(t *testing.T) {
	var gotID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{}`))
	})
	client, _, _ := newTestClient(t, handler, nil)
	if _, err := client.Profile(context.Background()); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if gotID == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestUnauthorizedClearsCredentialsBeforeReturning(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Could not validate credentials"}`, http.StatusUnauthorized)
	})
	var policyCalls atomic.Int32
	policy := AuthFailureFunc(func(context.Context) { policyCalls.Add(1) })
	client, creds, _ := newTestClient(t, handler, policy)
	creds.Set(credentials.Credentials{Token: "stale", Role: domain.RoleApplicant})

	_, err := client.Profile(context.Background())
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	// Side effect ordering: by the time the error is delivered, the
	// store is already empty.
	if _, ok := creds.Get(); ok {
		t.Fatalf("expected credentials cleared before error delivery")
	}
	if got := policyCalls.Load(); got != 1 {
		t.Fatalf("expected 1 policy invocation, got %d", got)
	}
}

func TestConcurrentUnauthorizedClearsOnce(t *testing.T) {
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		http.Error(w, `{"detail":"expired"}`, http.StatusUnauthorized)
	})
	var policyCalls atomic.Int32
	policy := AuthFailureFunc(func(context.Context) { policyCalls.Add(1) })
	client, creds, _ := newTestClient(t, handler, policy)
	creds.Set(credentials.Credentials{Token: "stale", Role: domain.RoleRecruiter})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Profile(context.Background())
			if !errors.Is(err, ErrAuth) {
				t.Errorf("expected ErrAuth, got %v", err)
			}
		}()
	}
	close(release)
	wg.Wait()

	if _, ok := creds.Get(); ok {
		t.Fatalf("expected credentials cleared")
	}
	if got := policyCalls.Load(); got != 1 {
		t.Fatalf("expected exactly 1 policy invocation, got %d", got)
	}
}

func TestFailedLoginDoesNotTriggerPolicy(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Incorrect email or password"}`, http.StatusUnauthorized)
	})
	var policyCalls atomic.Int32
	policy := AuthFailureFunc(func(context.Context) { policyCalls.Add(1) })
	client, _, _ := newTestClient(t, handler, policy)

	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if got := policyCalls.Load(); got != 0 {
		t.Fatalf("login failure must not trigger the global policy, got %d calls", got)
	}
}

func TestLoginSendsFormEncodedUsername(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type: %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostFormValue("username") != "a@b.c" {
			t.Errorf("expected email as username, got %q", r.PostFormValue("username"))
		}
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","role":"recruiter"}`))
	})
	client, _, _ := newTestClient(t, handler, nil)

	result, err := client.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken != "tok" || result.Role != domain.RoleRecruiter {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestErrorTaxonomyByStatus(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusForbidden, ErrAuth},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnprocessableEntity, ErrValidation},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
	}
	for _, tc := range cases {
		status := tc.status
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"nope"}`, status)
		})
		client, _, _ := newTestClient(t, handler, nil)
		_, err := client.MyResumes(context.Background())
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "nope" {
			t.Fatalf("status %d: expected detail message, got %v", tc.status, err)
		}
	}
}

func TestNetworkErrorWraps(t *testing.T) {
	creds := credentials.NewMemoryStore()
	client, err := New(Config{
		BaseURL:     "http://127.0.0.1:1", // nothing listens here
		Credentials: creds,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.MyResumes(context.Background()); !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestRankCandidatesUnwrapsEnvelope(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("job_description_id"); got != "7" {
			t.Errorf("unexpected job id: %q", got)
		}
		w.Write([]byte(`{"ranked_candidates":[{"resume_id":3,"filename":"cv.pdf","match_score":0.75,"matching_skills":["Go"]}]}`))
	})
	client, _, _ := newTestClient(t, handler, nil)

	candidates, err := client.RankCandidates(context.Background(), 7)
	if err != nil {
		t.Fatalf("rank candidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ResumeID != 3 {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
}

func TestUploadJobDescriptionReportsMonotonicProgress(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("title") != "Backend Engineer" {
			t.Errorf("unexpected title: %q", r.FormValue("title"))
		}
		w.Write([]byte(`{"id":12,"title":"Backend Engineer","filename":"jd.pdf"}`))
	})
	client, _, _ := newTestClient(t, handler, nil)

	var percents []int
	posting, err := client.UploadJobDescription(
		context.Background(),
		"Backend Engineer",
		"jd.pdf",
		strings.NewReader(strings.Repeat("x", 64*1024)),
		func(p int) { percents = append(percents, p) },
	)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if posting.ID != 12 {
		t.Fatalf("unexpected posting: %+v", posting)
	}
	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Fatalf("expected progress ending at 100, got %v", percents)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("progress went backwards: %v", percents)
		}
	}
}

func TestResumeSkillsDecodeBothShapes(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The list endpoint joins skills into one string.
		w.Write([]byte(`[{"id":1,"filename":"a.pdf","skills":"Go, SQL"},{"id":2,"filename":"b.pdf","skills":null}]`))
	})
	client, _, _ := newTestClient(t, handler, nil)

	resumes, err := client.MyResumes(context.Background())
	if err != nil {
		t.Fatalf("list resumes: %v", err)
	}
	if len(resumes) != 2 {
		t.Fatalf("unexpected resumes: %+v", resumes)
	}
	if len(resumes[0].Skills) != 2 || resumes[0].Skills[0] != "Go" {
		t.Fatalf("unexpected skills: %v", resumes[0].Skills)
	}
	if resumes[1].Skills != nil {
		t.Fatalf("expected nil skills for unprocessed resume, got %v", resumes[1].Skills)
	}
}

func TestDateFieldsDecodeOffsetlessDatetimes(t *testing.T) {
	// The backend serializes datetimes without a timezone offset.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/applications":
			w.Write([]byte(`[{"id":1,"job_id":2,"status":"pending","applied_date":"2024-01-15T12:30:45.123456"}]`))
		case "/job-descriptions/":
			w.Write([]byte(`[{"id":2,"title":"Backend Engineer","filename":"jd.pdf","upload_date":"2024-01-14T09:00:00"}]`))
		case "/sessions":
			w.Write([]byte(`[{"id":3,"device_info":"Firefox on Linux","created_at":"2024-01-15T08:00:00.5","expires_at":"2024-01-16T08:00:00"}]`))
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	})
	client, _, _ := newTestClient(t, handler, nil)

	apps, err := client.MyApplications(context.Background())
	if err != nil {
		t.Fatalf("list applications: %v", err)
	}
	if len(apps) != 1 || apps[0].AppliedDate.IsZero() {
		t.Fatalf("unexpected applications: %+v", apps)
	}
	if got := apps[0].AppliedDate.Year(); got != 2024 {
		t.Fatalf("unexpected applied date: %v", apps[0].AppliedDate)
	}

	jobs, err := client.JobDescriptions(context.Background())
	if err != nil {
		t.Fatalf("list job descriptions: %v", err)
	}
	if len(jobs) != 1 || jobs[0].UploadDate.IsZero() {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}

	sessions, err := client.Sessions(context.Background())
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].CreatedAt.IsZero() || sessions[0].ExpiresAt.IsZero() {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
	if !sessions[0].CreatedAt.Before(sessions[0].ExpiresAt.Time) {
		t.Fatalf("created_at %v not before expires_at %v", sessions[0].CreatedAt, sessions[0].ExpiresAt)
	}
}

func TestValidationDetailArrayIsJoined(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","email"],"msg":"field required","type":"value_error.missing"},{"loc":["body","password"],"msg":"ensure this value has at least 8 characters","type":"value_error"}]}`))
	})
	client, _, _ := newTestClient(t, handler, nil)

	_, err := client.MyResumes(context.Background())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	want := "field required; ensure this value has at least 8 characters"
	if apiErr.Message != want {
		t.Fatalf("expected joined messages %q, got %q", want, apiErr.Message)
	}
}

func TestUserMessagePrefersServerDetail(t *testing.T) {
	err := &APIError{Status: 400, Message: "You have already applied to this job"}
	if got := UserMessage(err, "Failed to submit application"); got != "You have already applied to this job" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := UserMessage(errors.New("boom"), "Failed to submit application"); got != "Failed to submit application" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}
