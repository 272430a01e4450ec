package credentials

import "sync"

// MemoryStore keeps credentials in-process. Used as a test double and for
// one-shot commands that should not persist a session.
type MemoryStore struct {
	mu      sync.RWMutex
	creds   Credentials
	present bool
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored credentials, if any.
func (m *MemoryStore) Get() (Credentials, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creds, m.present
}

// Set stores or replaces the credentials.
func (m *MemoryStore) Set(c Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = c
	m.present = true
	return nil
}

// Clear removes the credentials. Clearing an empty store is a no-op.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = Credentials{}
	m.present = false
	return nil
}
