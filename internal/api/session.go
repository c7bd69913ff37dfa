package api

import (
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/heart-risk-server/internal/report"
)

// sessionHeader carries the client's session identity. Responses always echo
// it so a client without one can adopt the assigned ID.
const sessionHeader = "X-Session-ID"

// defaultMaxSessions bounds how many client sessions the server tracks at
// once; the least recently used session is evicted beyond that.
const defaultMaxSessions = 1024

// clientSession pairs one session state machine with the lock that serializes
// access to it. report.Session is single-owner state; every handler touching
// it must hold mu.
type clientSession struct {
	mu      sync.Mutex
	session *report.Session
}

// sessionManager hands out per-client assessment sessions keyed by session
// ID. Each client gets its own state machine and bounded history, so requests
// from different clients never share mutable session state.
type sessionManager struct {
	mu              sync.Mutex
	sessions        *lru.Cache[string, *clientSession]
	historyCapacity int
}

func newSessionManager(maxSessions, historyCapacity int) *sessionManager {
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	if historyCapacity <= 0 {
		historyCapacity = report.DefaultHistoryCapacity
	}
	// lru.New only fails for a non-positive size, which is excluded above.
	cache, _ := lru.New[string, *clientSession](maxSessions)
	return &sessionManager{sessions: cache, historyCapacity: historyCapacity}
}

// acquire returns the session for the given ID, creating it on first use. An
// empty ID starts a fresh session under a newly assigned ID.
func (m *sessionManager) acquire(id string) (string, *clientSession) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	}
	if cs, ok := m.sessions.Get(id); ok {
		return id, cs
	}

	cs := &clientSession{session: report.NewSession(m.historyCapacity)}
	m.sessions.Add(id, cs)
	return id, cs
}

// len returns the number of tracked sessions.
func (m *sessionManager) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions.Len()
}
