package session

import (
	"log"
	"sync"
	"time"
)

// Store is a keyed session container. Implementations must serialize
// read-modify-write access per user key: two concurrent Updates for the same
// user never interleave, and a Remove never runs in the middle of one.
type Store interface {
	// GetOrCreate returns a copy of the session for userID, creating a fresh
	// one if none exists.
	GetOrCreate(userID string) *Session

	// Update applies fn to the session for userID under the per-key lock.
	// The session is created first if missing.
	Update(userID string, fn func(*Session))

	// Remove deletes the session for userID, if any. It blocks until any
	// in-flight Update for the key finishes, so it must never be called
	// from inside an Update fn.
	Remove(userID string)
}

const janitorInterval = time.Minute

// memoryEntry is one live session slot. removed is guarded by the store
// mutex; sess by the entry mutex. A removed entry is a tombstone: it stays
// detached from the map and is never written again, so an Update that raced
// the removal retries against a fresh entry instead of a dead one.
type memoryEntry struct {
	mu      sync.Mutex
	sess    *Session
	removed bool
}

// MemoryStore keeps sessions in process memory with an optional TTL sweep.
// A zero TTL disables eviction.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	stopCh  chan struct{}
	once    sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

// entry returns the live per-key entry, creating it if needed.
func (s *MemoryStore) entry(userID string) *memoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &memoryEntry{sess: New(userID)}
		s.entries[userID] = e
	}
	return e
}

// isRemoved reads the tombstone flag under the store mutex.
func (s *MemoryStore) isRemoved(e *memoryEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return e.removed
}

func (s *MemoryStore) GetOrCreate(userID string) *Session {
	for {
		e := s.entry(userID)
		e.mu.Lock()
		if s.isRemoved(e) {
			e.mu.Unlock()
			continue
		}
		sess := copySession(e.sess)
		e.mu.Unlock()
		return sess
	}
}

func (s *MemoryStore) Update(userID string, fn func(*Session)) {
	for {
		e := s.entry(userID)
		e.mu.Lock()
		if s.isRemoved(e) {
			// Tombstoned between lookup and lock; retry against the
			// fresh entry.
			e.mu.Unlock()
			continue
		}
		fn(e.sess)
		e.sess.UpdatedAt = time.Now()
		e.mu.Unlock()
		return
	}
}

func (s *MemoryStore) Remove(userID string) {
	s.mu.Lock()
	e, ok := s.entries[userID]
	s.mu.Unlock()
	if !ok {
		return
	}
	// Taking the entry lock first means an in-flight Update finishes and its
	// write lands before the tombstone is set.
	e.mu.Lock()
	s.mu.Lock()
	e.removed = true
	if cur, ok := s.entries[userID]; ok && cur == e {
		delete(s.entries, userID)
	}
	s.mu.Unlock()
	e.mu.Unlock()
}

// Stop shuts down the TTL janitor, if running.
func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.stopCh) })
}

// janitor periodically sweeps sessions idle for longer than the TTL.
func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	snapshot := make(map[string]*memoryEntry, len(s.entries))
	for id, e := range s.entries {
		snapshot[id] = e
	}
	s.mu.Unlock()

	for id, e := range snapshot {
		e.mu.Lock()
		s.mu.Lock()
		expired := !e.removed && e.sess.UpdatedAt.Before(cutoff)
		if expired {
			e.removed = true
			if cur, ok := s.entries[id]; ok && cur == e {
				delete(s.entries, id)
			}
		}
		s.mu.Unlock()
		e.mu.Unlock()
		if expired {
			log.Printf("[SessionStore] Evicted idle session for user %s", id)
		}
	}
}

func copySession(src *Session) *Session {
	dst := *src
	dst.Slots = make(map[string]string, len(src.Slots))
	for k, v := range src.Slots {
		dst.Slots[k] = v
	}
	if src.LastOutput != nil {
		out := *src.LastOutput
		dst.LastOutput = &out
	}
	return &dst
}
