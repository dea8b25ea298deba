package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	entry      Entry
	expiryTime time.Time
}

// MemoryStore provides a thread-safe in-process response cache. Capacity is
// a hard bound: inserting into a full cache evicts the entry closest to
// expiry, so the cache can never grow without limit.
type MemoryStore struct {
	mutex    sync.RWMutex
	entries  map[string]memoryEntry
	capacity int
}

const defaultMemoryCapacity = 1024

func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryStore{
		entries:  make(map[string]memoryEntry),
		capacity: capacity,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, bool) {
	s.mutex.RLock()
	me, found := s.entries[key]
	s.mutex.RUnlock()

	if !found || !time.Now().Before(me.expiryTime) {
		return nil, false
	}

	entry := me.entry
	return &entry, true
}

func (s *MemoryStore) Set(_ context.Context, key string, entry *Entry, ttl time.Duration) error {
	now := time.Now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.capacity {
		s.evictLocked(now)
	}

	s.entries[key] = memoryEntry{
		entry:      *entry,
		expiryTime: now.Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mutex.Lock()
	delete(s.entries, key)
	s.mutex.Unlock()
	return nil
}

// evictLocked drops all expired entries, then the soonest-to-expire live one
// if the cache is still full. Caller holds the write lock.
func (s *MemoryStore) evictLocked(now time.Time) {
	var victim string
	var victimExpiry time.Time

	for key, me := range s.entries {
		if !now.Before(me.expiryTime) {
			delete(s.entries, key)
			continue
		}
		if victim == "" || me.expiryTime.Before(victimExpiry) {
			victim = key
			victimExpiry = me.expiryTime
		}
	}

	if len(s.entries) >= s.capacity && victim != "" {
		delete(s.entries, victim)
	}
}

// Purge removes expired entries. Run periodically from a background task.
func (s *MemoryStore) Purge() {
	now := time.Now()

	s.mutex.Lock()
	for key, me := range s.entries {
		if !now.Before(me.expiryTime) {
			delete(s.entries, key)
		}
	}
	s.mutex.Unlock()
}

// Len reports the number of entries currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.entries)
}
