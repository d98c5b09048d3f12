package build

import (
	"sync"
	"time"
)

// PendingSession is an optimistic session entry: created locally the
// moment the user asks for a new session, before the server has
// acknowledged it. Its ID is client-generated and sent along with the
// create request so the eventual authoritative record matches it.
type PendingSession struct {
	ID           string
	Name         string
	AgentID      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SharedStatus SharedStatus
	ProjectID    *int
}

// Session converts the pending entry to the common session shape so
// list views can render pending and authoritative rows uniformly.
func (p PendingSession) Session() Session {
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = p.CreatedAt
	}
	shared := p.SharedStatus
	if shared == "" {
		shared = SharedStatusPrivate
	}
	return Session{
		ID:           p.ID,
		Name:         p.Name,
		AgentID:      p.AgentID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    updated,
		SharedStatus: shared,
		ProjectID:    p.ProjectID,
	}
}

type storeListener struct {
	token int
	fn    func()
}

// PendingSessionStore tracks optimistic sessions and notifies
// subscribers on changes. Unlike a UI event loop, callers here may be
// on stream goroutines, so the store is safe for concurrent use.
//
// Snapshot returns the same slice value until a mutation actually
// changes the set, letting consumers skip work by comparing for
// identity. Notifications fire synchronously in subscription order,
// outside the store's lock; a listener may call back into the store.
type PendingSessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]PendingSession
	order     []string
	listeners []storeListener
	nextToken int
	snapshot  []PendingSession
}

// PendingSessions is the process-wide store instance shared by every
// view of the session list.
var PendingSessions = NewPendingSessionStore()

// NewPendingSessionStore creates an empty store.
func NewPendingSessionStore() *PendingSessionStore {
	return &PendingSessionStore{
		sessions: make(map[string]PendingSession),
		snapshot: []PendingSession{},
	}
}

// Add inserts a pending session. If the ID is already present the
// existing entry wins and the stored set is unchanged, but subscribers
// are still notified: a duplicate add means two code paths raced to
// create the same session, and both deserve a render pass.
func (s *PendingSessionStore) Add(session PendingSession) {
	s.mu.Lock()
	if _, exists := s.sessions[session.ID]; !exists {
		s.sessions[session.ID] = session
		s.order = append(s.order, session.ID)
		s.rebuildSnapshot()
	}
	listeners := s.copyListeners()
	s.mu.Unlock()

	notify(listeners)
}

// Remove deletes a pending session. Removing an absent ID is a no-op
// and notifies nobody.
func (s *PendingSessionStore) Remove(id string) {
	s.mu.Lock()
	if _, exists := s.sessions[id]; !exists {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.rebuildSnapshot()
	listeners := s.copyListeners()
	s.mu.Unlock()

	notify(listeners)
}

// Has reports whether a pending session with the given ID exists.
func (s *PendingSessionStore) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// Subscribe registers a change listener and returns its unsubscribe
// function. Unsubscribing twice is harmless.
func (s *PendingSessionStore) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	token := s.nextToken
	s.nextToken++
	s.listeners = append(s.listeners, storeListener{token: token, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.token == token {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns the pending sessions in insertion order. The
// returned slice must not be mutated; it is shared across calls until
// the set changes.
func (s *PendingSessionStore) Snapshot() []PendingSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// rebuildSnapshot must be called with the write lock held.
func (s *PendingSessionStore) rebuildSnapshot() {
	next := make([]PendingSession, 0, len(s.order))
	for _, id := range s.order {
		next = append(next, s.sessions[id])
	}
	s.snapshot = next
}

// copyListeners must be called with the lock held; the copy is invoked
// after release so listeners can safely re-enter the store.
func (s *PendingSessionStore) copyListeners() []storeListener {
	return append([]storeListener(nil), s.listeners...)
}

func notify(listeners []storeListener) {
	for _, l := range listeners {
		l.fn()
	}
}

// ReconcilePending removes every pending session whose ID appears in
// the authoritative list: once the server reports a session, the
// optimistic placeholder has served its purpose.
func ReconcilePending(store *PendingSessionStore, authoritative []Session) {
	for _, session := range authoritative {
		if store.Has(session.ID) {
			store.Remove(session.ID)
		}
	}
}

// MergeSessions builds the display list: pending sessions not yet
// acknowledged by the server first (they are the newest), followed by
// the authoritative sessions in server order. A pending entry whose ID
// the server already reports is dropped in favor of the server record.
func MergeSessions(pending []PendingSession, authoritative []Session) []Session {
	known := make(map[string]bool, len(authoritative))
	for _, session := range authoritative {
		known[session.ID] = true
	}

	merged := make([]Session, 0, len(pending)+len(authoritative))
	for _, p := range pending {
		if !known[p.ID] {
			merged = append(merged, p.Session())
		}
	}
	return append(merged, authoritative...)
}
