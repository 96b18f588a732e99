package activity

import (
	"sync"
	"time"
)

// DefaultRecentLimit is how many activities the store keeps.
const DefaultRecentLimit = 50

// Store keeps upload and delete counters plus a bounded list of recent
// activities. It is safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	limit         int
	uploads       int
	deletes       int
	bytesUploaded int64
	recent        []Activity
}

// NewStore creates a store keeping at most limit recent activities.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &Store{
		limit:  limit,
		recent: make([]Activity, 0, limit),
	}
}

// RecordStored records a completed upload.
func (s *Store) RecordStored(name string, size int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.uploads++
	s.bytesUploaded += size
	s.push(Activity{Kind: KindStored, Name: name, Size: size, At: at})
}

// RecordDeleted records a completed delete.
func (s *Store) RecordDeleted(name string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deletes++
	s.push(Activity{Kind: KindDeleted, Name: name, At: at})
}

// Summary returns the counters and recent activities, newest first.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := make([]Activity, len(s.recent))
	for i, a := range s.recent {
		recent[len(s.recent)-1-i] = a
	}

	return Summary{
		Uploads:       s.uploads,
		Deletes:       s.deletes,
		BytesUploaded: s.bytesUploaded,
		Recent:        recent,
	}
}

// push appends a, dropping the oldest entry when full. Caller holds mu.
func (s *Store) push(a Activity) {
	if len(s.recent) == s.limit {
		copy(s.recent, s.recent[1:])
		s.recent = s.recent[:len(s.recent)-1]
	}
	s.recent = append(s.recent, a)
}
