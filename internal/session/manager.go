// Package session owns the login, registration and logout flows, plus the
// active-session and profile views built on top of the gateway.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/Rym09/resume-screener/internal/collection"
	"github.com/Rym09/resume-screener/internal/credentials"
	"github.com/Rym09/resume-screener/internal/gateway"
	"github.com/Rym09/resume-screener/pkg/domain"
)

// MinPasswordLength is enforced client-side before any network call.
const MinPasswordLength = 8

// Manager drives authentication flows and caches the active-session list.
type Manager struct {
	api      *gateway.Client
	creds    credentials.Store
	logger   *slog.Logger
	sessions *collection.Collection[domain.ActiveSessionRecord]
}

// NewManager constructs a session manager over the gateway and store.
func NewManager(api *gateway.Client, creds credentials.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		api:      api,
		creds:    creds,
		logger:   logger,
		sessions: collection.New[domain.ActiveSessionRecord](),
	}
}

// Current returns the locally persisted session, if any.
func (m *Manager) Current() (domain.Session, bool) {
	creds, ok := m.creds.Get()
	if !ok {
		return domain.Session{}, false
	}
	session := domain.Session{Token: creds.Token, Role: creds.Role}
	if info, ok := m.TokenInfo(); ok {
		session.Email = info.Email
	}
	return session, true
}

// Login authenticates and persists the granted token and role. Fails
// closed: nothing is stored unless the server accepts the credentials.
func (m *Manager) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: email and password are required", gateway.ErrValidation)
	}
	result, err := m.api.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	creds := credentials.Credentials{Token: result.AccessToken, Role: result.Role}
	if err := m.creds.Set(creds); err != nil {
		return domain.Session{}, fmt.Errorf("persist credentials: %w", err)
	}
	m.logger.Info("logged in", "role", result.Role)
	return domain.Session{Token: result.AccessToken, Role: result.Role, Email: email}, nil
}

// Register creates an account. The role is fixed at registration and never
// changes without re-authentication.
func (m *Manager) Register(ctx context.Context, email, password string, role domain.Role) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", gateway.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", gateway.ErrValidation, MinPasswordLength)
	}
	return m.api.Register(ctx, email, password, role)
}

// LogoutCurrent invalidates the session on this device. Remote
// invalidation is best-effort; the local credential clear is
// unconditional so the user is never stuck logged in.
func (m *Manager) LogoutCurrent(ctx context.Context) error {
	if _, err := m.api.LogoutCurrent(ctx); err != nil {
		m.logger.Warn("remote logout failed, clearing local session anyway", "err", err)
	}
	if err := m.creds.Clear(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// LogoutAll invalidates every session for the identity. Local state is
// cleared only after the server confirms.
func (m *Manager) LogoutAll(ctx context.Context) error {
	if _, err := m.api.Logout(ctx); err != nil {
		return err
	}
	if err := m.creds.Clear(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	m.sessions.Replace(nil)
	return nil
}

// ActiveSessions fetches the session list, replacing the cached snapshot.
func (m *Manager) ActiveSessions(ctx context.Context) ([]domain.ActiveSessionRecord, error) {
	records, err := m.api.Sessions(ctx)
	if err != nil {
		return nil, err
	}
	m.sessions.Replace(records)
	return records, nil
}

// CachedSessions returns the last fetched session list without a refetch.
func (m *Manager) CachedSessions() []domain.ActiveSessionRecord {
	return m.sessions.Items()
}

// RevokeSession invalidates one session and removes it from the cached
// list. The token carries no session id, so whether the revoked record was
// this client's own session is detected by probing the profile endpoint:
// if the probe comes back unauthorized the gateway has already cleared the
// store and run the auth-failure policy, and loggedOut reports true.
func (m *Manager) RevokeSession(ctx context.Context, id int64) (loggedOut bool, err error) {
	if _, err := m.api.RevokeSession(ctx, id); err != nil {
		return false, err
	}
	m.sessions.Remove(func(r domain.ActiveSessionRecord) bool { return r.ID == id })

	if _, err := m.api.Profile(ctx); err != nil {
		if errors.Is(err, gateway.ErrAuth) {
			m.logger.Info("revoked own session, logged out")
			return true, nil
		}
		m.logger.Warn("session probe after revoke failed", "err", err)
	}
	return false, nil
}

// Profile fetches the authenticated user's profile.
func (m *Manager) Profile(ctx context.Context) (domain.UserProfile, error) {
	return m.api.Profile(ctx)
}

// ProfileUpdate is a profile mutation request with its confirmation field.
type ProfileUpdate struct {
	Email           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
	PictureFilename string
	Picture         io.Reader
}

// UpdateProfile validates the mutation client-side (avoiding a round trip
// for predictable rejections) and applies it.
func (m *Manager) UpdateProfile(ctx context.Context, update ProfileUpdate) (domain.UserProfile, error) {
	if update.NewPassword != "" {
		if update.NewPassword != update.ConfirmPassword {
			return domain.UserProfile{}, fmt.Errorf("%w: new passwords do not match", gateway.ErrValidation)
		}
		if len(update.NewPassword) < MinPasswordLength {
			return domain.UserProfile{}, fmt.Errorf("%w: new password must be at least %d characters", gateway.ErrValidation, MinPasswordLength)
		}
		if update.CurrentPassword == "" {
			return domain.UserProfile{}, fmt.Errorf("%w: current password is required to change password", gateway.ErrValidation)
		}
	}
	return m.api.UpdateProfile(ctx, gateway.ProfileUpdate{
		Email:           update.Email,
		CurrentPassword: update.CurrentPassword,
		NewPassword:     update.NewPassword,
		PictureFilename: update.PictureFilename,
		Picture:         update.Picture,
	})
}

// TokenInfo is a display-only view of the persisted token's claims.
type TokenInfo struct {
	Email     string
	Role      string
	ExpiresAt time.Time
}

// TokenInfo decodes the persisted token's claims without verifying its
// signature. The token stays an opaque bearer credential for every auth
// decision; this exists solely so the UI can show identity and expiry.
func (m *Manager) TokenInfo() (TokenInfo, bool) {
	creds, ok := m.creds.Get()
	if !ok {
		return TokenInfo{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(creds.Token, claims); err != nil {
		return TokenInfo{}, false
	}
	info := TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Email = sub
	}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, true
}
