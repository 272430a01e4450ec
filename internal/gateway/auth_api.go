package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Rym09/resume-screener/pkg/domain"
)

// LoginResult is the token grant returned by POST /login.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	Role        domain.Role `json:"role"`
}

// Login exchanges credentials for a bearer token. The backend follows the
// OAuth2 password form convention: the email travels as "username".
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	var result LoginResult
	if err := c.doForm(ctx, http.MethodPost, "/login", form, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

// Register creates an account with a fixed role.
func (c *Client) Register(ctx context.Context, email, password string, role domain.Role) error {
	payload := map[string]string{
		"email":    email,
		"password": password,
		"role":     string(role),
	}
	return c.doJSON(ctx, http.MethodPost, "/register", payload, nil)
}

// Logout invalidates every active session for the identity.
func (c *Client) Logout(ctx context.Context) (domain.Ack, error) {
	var ack domain.Ack
	if err := c.doJSON(ctx, http.MethodPost, "/logout", nil, &ack); err != nil {
		return domain.Ack{}, err
	}
	return ack, nil
}

// LogoutCurrent invalidates only the session issuing the call.
func (c *Client) LogoutCurrent(ctx context.Context) (domain.Ack, error) {
	var ack domain.Ack
	if err := c.doJSON(ctx, http.MethodPost, "/logout-current", nil, &ack); err != nil {
		return domain.Ack{}, err
	}
	return ack, nil
}

// Sessions lists the identity's active sessions.
func (c *Client) Sessions(ctx context.Context) ([]domain.ActiveSessionRecord, error) {
	var records []domain.ActiveSessionRecord
	if err := c.doJSON(ctx, http.MethodGet, "/sessions", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// RevokeSession invalidates one session by id.
func (c *Client) RevokeSession(ctx context.Context, id int64) (domain.Ack, error) {
	var ack domain.Ack
	path := fmt.Sprintf("/sessions/%d", id)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &ack); err != nil {
		return domain.Ack{}, err
	}
	return ack, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &profile); err != nil {
		return domain.UserProfile{}, err
	}
	return profile, nil
}

// ProfileUpdate is the multipart payload for PUT /users/me. Zero-valued
// fields are omitted from the request.
type ProfileUpdate struct {
	Email           string
	CurrentPassword string
	NewPassword     string
	PictureFilename string
	Picture         io.Reader
}

// UpdateProfile applies a profile mutation and returns the server's view.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (domain.UserProfile, error) {
	fields := map[string]string{}
	if update.Email != "" {
		fields["email"] = update.Email
	}
	if update.CurrentPassword != "" {
		fields["current_password"] = update.CurrentPassword
	}
	if update.NewPassword != "" {
		fields["new_password"] = update.NewPassword
	}
	var files []uploadFile
	if update.Picture != nil {
		files = append(files, uploadFile{field: "profile_picture", filename: update.PictureFilename, reader: update.Picture})
	}
	var profile domain.UserProfile
	if err := c.doMultipart(ctx, http.MethodPut, "/users/me", fields, files, nil, &profile); err != nil {
		return domain.UserProfile{}, err
	}
	return profile, nil
}
