package usecase

import (
	"sync"
	"time"

	"github.com/bilmo/backend/internal/domain"
)

// Session entry states. An entry is appended as loading, transitions
// to loaded exactly once, or is dropped on failure; loaded entries are
// never mutated again.
const (
	EntryStatusLoading = "loading"
	EntryStatusLoaded  = "loaded"
)

// SessionEntry is one completed or in-flight chat turn.
type SessionEntry struct {
	ID        int                    `json:"id"`
	Query     string                 `json:"query"`
	Status    string                 `json:"status"`
	Plan      *domain.ProductPlan    `json:"plan,omitempty"`
	Results   []domain.ProductRecord `json:"results,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// SessionStore is an append-only, in-memory history of chat turns.
type SessionStore struct {
	mutex   sync.Mutex
	entries []SessionEntry
	nextID  int
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{nextID: 1}
}

// Begin appends a loading entry for a new query and returns its id.
func (s *SessionStore) Begin(query string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := s.nextID
	s.nextID++
	s.entries = append(s.entries, SessionEntry{
		ID:        id,
		Query:     query,
		Status:    EntryStatusLoading,
		CreatedAt: time.Now(),
	})
	return id
}

// Complete transitions an entry to loaded with its plan and results.
func (s *SessionStore) Complete(id int, plan *domain.ProductPlan, results []domain.ProductRecord) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id && s.entries[i].Status == EntryStatusLoading {
			s.entries[i].Status = EntryStatusLoaded
			s.entries[i].Plan = plan
			s.entries[i].Results = results
			return
		}
	}
}

// Drop removes a failed entry from the history.
func (s *SessionStore) Drop(id int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// History returns a copy of the entries in append order.
func (s *SessionStore) History() []SessionEntry {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	out := make([]SessionEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
