// Package session keeps per-client UI state (the selected day) keyed by a
// cookie-carried session id.
package session

import (
	"context"
	"net/http"
	"time"

	"alugueis/internal/cache"

	"github.com/google/uuid"
)

// Store is a key-value store of session id -> selected day string.
type Store interface {
	Get(ctx context.Context, id string) (string, bool)
	Set(ctx context.Context, id string, day string)
	Size() int
}

// MemoryStore holds sessions in a TTL LRU cache.
type MemoryStore struct {
	entries *cache.LRUCache[string]
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: cache.NewLRUCache[string](maxEntries, ttl)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (string, bool) {
	return s.entries.Get(id)
}

func (s *MemoryStore) Set(_ context.Context, id string, day string) {
	s.entries.Set(id, day)
}

func (s *MemoryStore) Size() int {
	return s.entries.Size()
}

// CleanExpired lets a cache.Manager drop idle sessions.
func (s *MemoryStore) CleanExpired() int {
	return s.entries.CleanExpired()
}

// Manager binds a Store to the session cookie.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
}

func NewManager(store Store, cookieName string, ttl time.Duration) *Manager {
	return &Manager{store: store, cookieName: cookieName, ttl: ttl}
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// ID returns the session id carried by r, if it is a well-formed one.
func (m *Manager) ID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// SelectedDay returns the raw day string stored for the caller's session.
func (m *Manager) SelectedDay(r *http.Request) (string, bool) {
	id, ok := m.ID(r)
	if !ok {
		return "", false
	}
	return m.store.Get(r.Context(), id)
}

// SetSelectedDay stores day for the caller, issuing a new session cookie
// when the request carries none. It returns the session id used.
func (m *Manager) SetSelectedDay(w http.ResponseWriter, r *http.Request, day string) string {
	id, ok := m.ID(r)
	if !ok {
		id = uuid.NewString()
	}
	m.store.Set(r.Context(), id, day)
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
