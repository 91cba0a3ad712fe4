package ratelimit

import (
	"context"
	"sync"
	"time"
)

type userWindow struct {
	times     []time.Time
	last      time.Time
	firstSent bool
	lastSeen  time.Time
}

// MemoryStore keeps windows in process memory
type MemoryStore struct {
	mu    sync.Mutex
	users map[int64]*userWindow
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[int64]*userWindow)}
}

// Allow implements Store
func (m *MemoryStore) Allow(_ context.Context, userID int64, now time.Time, limits Limits) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.users[userID]
	if !ok {
		w = &userWindow{}
		m.users[userID] = w
	}
	w.lastSeen = now
	w.times = prune(w.times, now)

	d := evaluate(w.firstSent, w.last, w.times, now, limits)
	if d.Allowed {
		w.times = append(w.times, now)
		w.last = now
		w.firstSent = true
	}
	return d, nil
}

// Sweep implements Store
func (m *MemoryStore) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for userID, w := range m.users {
		if w.lastSeen.Before(cutoff) {
			delete(m.users, userID)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of tracked users
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
