// ABOUTME: In-process credential store
// ABOUTME: Used by tests and by --ephemeral runs that must not touch disk

package tokenstore

import "sync"

// MemoryStore keeps the credential in memory only.
type MemoryStore struct {
	mu  sync.Mutex
	rec *Record
	cfg settings
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...Option) *MemoryStore {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryStore{cfg: cfg}
}

func (m *MemoryStore) Set(token string) error {
	rec := m.cfg.newRecord(token)
	m.mu.Lock()
	m.rec = &rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return "", false
	}
	if m.rec.Expired(m.cfg.now()) {
		m.rec = nil
		return "", false
	}
	return m.rec.Value, true
}

func (m *MemoryStore) Remove() error {
	m.mu.Lock()
	m.rec = nil
	m.mu.Unlock()
	return nil
}

// Record returns a copy of the stored record, if any.
func (m *MemoryStore) Record() (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return Record{}, false
	}
	return *m.rec, true
}
