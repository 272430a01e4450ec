// Package gateway is the single point through which every request to the
// screening backend passes. It attaches the bearer credential from the
// store, tags requests for log correlation, and enforces the global
// authorization-failure policy: any 401 clears the credential store and
// invokes the configured policy before the error reaches the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Rym09/resume-screener/internal/credentials"
	"github.com/Rym09/resume-screener/internal/util"
)

// AuthFailurePolicy is invoked when the backend rejects the session. The
// production policy redirects to the login entry point; tests substitute
// counters or no-ops.
type AuthFailurePolicy interface {
	OnAuthFailure(ctx context.Context)
}

// AuthFailureFunc adapts a function to an AuthFailurePolicy.
type AuthFailureFunc func(ctx context.Context)

func (f AuthFailureFunc) OnAuthFailure(ctx context.Context) { f(ctx) }

// NopAuthFailurePolicy ignores authorization failures beyond the
// credential clear. Useful for one-shot commands.
var NopAuthFailurePolicy AuthFailurePolicy = AuthFailureFunc(func(context.Context) {})

// Config holds gateway construction parameters.
type Config struct {
	BaseURL     string
	Credentials credentials.Store
	Policy      AuthFailurePolicy
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client calls the screening backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      credentials.Store
	policy     AuthFailurePolicy
	logger     *slog.Logger

	authMu sync.Mutex
}

// New constructs the gateway client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("gateway base URL is required")
	}
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	policy := cfg.Policy
	if policy == nil {
		policy = NopAuthFailurePolicy
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		creds:      cfg.Credentials,
		policy:     policy,
		logger:     logger,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	contentType := ""
	if payload != nil {
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) doForm(ctx context.Context, method, path string, form url.Values, out any) error {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, method, path, body, "application/x-www-form-urlencoded", out)
}

// uploadFile is one file part of a multipart request.
type uploadFile struct {
	field    string
	filename string
	reader   io.Reader
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, files []uploadFile, progress ProgressFunc, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, value := range fields {
		if err := writer.WriteField(field, value); err != nil {
			return fmt.Errorf("write field %s: %w", field, err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			return fmt.Errorf("create file part %s: %w", file.field, err)
		}
		if _, err := io.Copy(part, file.reader); err != nil {
			return fmt.Errorf("read upload %s: %w", file.filename, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}
	body := newProgressReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()), progress)
	return c.do(ctx, method, path, body, writer.FormDataContentType(), out)
}

// do performs one request. The 401 side effect (credential clear + policy)
// happens before the error is returned, so a caller can never race a stale
// token onto a follow-up request.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	requestID := util.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = util.NewRequestID()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set(util.RequestIDHeader, requestID)
	if creds, ok := c.creds.Get(); ok && creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			"method", method, "path", path, "request_id", requestID, "err", err)
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		"method", method, "path", path, "status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(), "request_id", requestID)

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleAuthFailure(ctx)
	}
	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: decodeDetail(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// handleAuthFailure clears the credential store and invokes the policy.
// The mutex plus the presence check make the pair run at most once per
// credential lifetime even when concurrent requests fail together; a 401
// on an already-unauthenticated request (e.g. a failed login) triggers
// nothing.
func (c *Client) handleAuthFailure(ctx context.Context) {
	c.authMu.Lock()
	defer c.authMu.Unlock()
	if _, ok := c.creds.Get(); !ok {
		return
	}
	if err := c.creds.Clear(); err != nil {
		c.logger.Error("clear credentials after auth failure", "err", err)
	}
	c.logger.Warn("session rejected by server, credentials cleared")
	c.policy.OnAuthFailure(ctx)
}

// decodeDetail extracts the server's error message. The backend sends
// {"detail": "..."} on most failures, but validation rejections carry
// detail as an array of {loc, msg, type} objects; those are joined so the
// per-field messages still reach the user.
func decodeDetail(r io.Reader) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil {
			return detail
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			var msgs []string
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return payload.Message
}
