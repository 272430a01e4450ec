// Package credentials holds the durable session credential for the client:
// the opaque bearer token and the role it was issued for.
package credentials

import "github.com/Rym09/resume-screener/pkg/domain"

// Credentials is the persisted session credential pair.
type Credentials struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

// Store persists the session credential across process restarts.
// Clear on an empty store is a no-op, never an error: the gateway may clear
// from multiple concurrent request completions.
type Store interface {
	Get() (Credentials, bool)
	Set(Credentials) error
	Clear() error
}
