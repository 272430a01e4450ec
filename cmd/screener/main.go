package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Rym09/resume-screener/internal/config"
	"github.com/Rym09/resume-screener/internal/credentials"
	"github.com/Rym09/resume-screener/internal/dashboard"
	"github.com/Rym09/resume-screener/internal/gateway"
	"github.com/Rym09/resume-screener/internal/session"
	"github.com/Rym09/resume-screener/internal/util"
	"github.com/Rym09/resume-screener/pkg/domain"
)

const usage = `usage: screener <command> [args]

commands:
  register <email> <password> <role>   create an account
  login <email> <password>             sign in and persist the session
  whoami                               show the stored session and profile
  sessions                             list active sessions
  revoke <session-id>                  revoke one session
  logout                               sign out of this device
  logout-all                           revoke every session
  resumes                              list uploaded resumes
  upload-resume <path>                 upload a resume PDF
  jobs                                 list open job postings
  apply <job-id> <resume-id>           apply to a job
  applications                         list my applications
  postings                             list my job postings (recruiter)
  upload-job <title> <path>            upload a job description (recruiter)
  rank <job-id>                        rank candidates for a job (recruiter)
  set-status <app-id> <status>         move an application (recruiter)
  stats                                recruiter dashboard counters
`

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel)
	timeout, err := config.ParseHTTPTimeout(cfg.HTTPTimeout)
	if err != nil {
		log.Fatalf("failed to parse http timeout: %v", err)
	}

	creds, err := newCredentialStore(cfg)
	if err != nil {
		log.Fatalf("failed to init credential store: %v", err)
	}

	api, err := gateway.New(gateway.Config{
		BaseURL:     cfg.APIBaseURL,
		Credentials: creds,
		Timeout:     timeout,
		Logger:      logger,
		Policy: gateway.AuthFailureFunc(func(ctx context.Context) {
			fmt.Fprintln(os.Stderr, "session expired, please log in again")
		}),
	})
	if err != nil {
		log.Fatalf("failed to init api client: %v", err)
	}
	mgr := session.NewManager(api, creds, logger)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := util.ContextWithRequestID(context.Background(), util.NewRequestID())
	if err := run(ctx, mgr, api, creds, args); err != nil {
		fmt.Fprintln(os.Stderr, gateway.UserMessage(err, err.Error()))
		os.Exit(1)
	}
}

func newCredentialStore(cfg config.FileConfig) (credentials.Store, error) {
	switch cfg.CredentialsBackend {
	case "redis":
		return credentials.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, 0), nil
	default:
		return credentials.NewFileStore(cfg.CredentialsPath)
	}
}

func run(ctx context.Context, mgr *session.Manager, api *gateway.Client, creds credentials.Store, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		if len(rest) != 3 {
			return fmt.Errorf("usage: register <email> <password> <role>")
		}
		if err := mgr.Register(ctx, rest[0], rest[1], domain.Role(rest[2])); err != nil {
			return err
		}
		fmt.Println("account created, you can now log in")
		return nil
	case "login":
		if len(rest) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		sess, err := mgr.Login(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", rest[0], sess.Role)
		return nil
	case "whoami":
		return whoami(ctx, mgr)
	case "sessions":
		records, err := mgr.ActiveSessions(ctx)
		if err != nil {
			return err
		}
		return printJSON(records)
	case "revoke":
		if len(rest) != 1 {
			return fmt.Errorf("usage: revoke <session-id>")
		}
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session id %q", rest[0])
		}
		loggedOut, err := mgr.RevokeSession(ctx, id)
		if err != nil {
			return err
		}
		if loggedOut {
			fmt.Println("revoked the current session, logged out")
		} else {
			fmt.Println("session revoked")
		}
		return nil
	case "logout":
		if err := mgr.LogoutCurrent(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	case "logout-all":
		if err := mgr.LogoutAll(ctx); err != nil {
			return err
		}
		fmt.Println("all sessions revoked")
		return nil
	case "resumes", "upload-resume", "jobs", "apply", "applications":
		return applicantCommand(ctx, api, creds, cmd, rest)
	case "postings", "upload-job", "rank", "set-status", "stats":
		return recruiterCommand(ctx, api, creds, cmd, rest)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func whoami(ctx context.Context, mgr *session.Manager) error {
	sess, ok := mgr.Current()
	if !ok {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("role: %s\n", sess.Role)
	if info, ok := mgr.TokenInfo(); ok {
		fmt.Printf("email: %s\nexpires: %s\n", info.Email, info.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
	profile, err := mgr.Profile(ctx)
	if err != nil {
		return err
	}
	return printJSON(profile)
}

func applicantCommand(ctx context.Context, api *gateway.Client, creds credentials.Store, cmd string, rest []string) error {
	d := dashboard.NewApplicant(api, creds, nil)
	if err := d.Mount(ctx); err != nil {
		return err
	}
	switch cmd {
	case "resumes":
		return printJSON(d.Resumes())
	case "jobs":
		return printJSON(d.AvailableJobs())
	case "applications":
		return printJSON(d.Applications())
	case "upload-resume":
		if len(rest) != 1 {
			return fmt.Errorf("usage: upload-resume <path>")
		}
		f, err := os.Open(rest[0])
		if err != nil {
			return err
		}
		defer f.Close()
		if err := d.UploadResume(ctx, f.Name(), f); err != nil {
			return err
		}
		fmt.Println(d.Status().Text)
		return nil
	case "apply":
		if len(rest) != 2 {
			return fmt.Errorf("usage: apply <job-id> <resume-id>")
		}
		jobID, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid job id %q", rest[0])
		}
		resumeID, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid resume id %q", rest[1])
		}
		if !d.StartApply(jobID) {
			return fmt.Errorf("%s", d.Status().Text)
		}
		if err := d.SubmitApplication(ctx, resumeID); err != nil {
			return err
		}
		fmt.Println(d.Status().Text)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func recruiterCommand(ctx context.Context, api *gateway.Client, creds credentials.Store, cmd string, rest []string) error {
	d := dashboard.NewRecruiter(api, creds, nil)
	if err := d.Mount(ctx); err != nil {
		return err
	}
	switch cmd {
	case "postings":
		return printJSON(d.Postings())
	case "stats":
		return printJSON(d.Stats())
	case "upload-job":
		if len(rest) != 2 {
			return fmt.Errorf("usage: upload-job <title> <path>")
		}
		f, err := os.Open(rest[1])
		if err != nil {
			return err
		}
		defer f.Close()
		if err := d.UploadJob(ctx, rest[0], f.Name(), f); err != nil {
			return err
		}
		fmt.Println(d.Status().Text)
		return nil
	case "rank":
		if len(rest) != 1 {
			return fmt.Errorf("usage: rank <job-id>")
		}
		jobID, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid job id %q", rest[0])
		}
		if err := d.SelectJob(ctx, jobID); err != nil {
			return err
		}
		for _, c := range d.Candidates() {
			fmt.Printf("%s\t%s\t%s\n", c.Filename, dashboard.RenderScore(c.MatchScore), c.ApplicationStatus)
		}
		return nil
	case "set-status":
		if len(rest) != 2 {
			return fmt.Errorf("usage: set-status <app-id> <status>")
		}
		appID, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid application id %q", rest[0])
		}
		if err := d.SetApplicationStatus(ctx, appID, domain.ApplicationStatus(rest[1])); err != nil {
			return err
		}
		fmt.Println(d.Status().Text)
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
