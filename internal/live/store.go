package live

import (
	"sync"
	"time"
)

// Position is the latest known location of one vehicle.
type Position struct {
	BusNumber string    `json:"busNumber"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	HDOP      float64   `json:"hdop"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store keeps the latest position per bus number. Positions older than
// staleAfter are dropped from snapshots and pruned periodically.
type Store struct {
	mu         sync.RWMutex
	positions  map[string]Position
	staleAfter time.Duration
	now        func() time.Time
}

// NewStore creates a Store with the given staleness cutoff.
func NewStore(staleAfter time.Duration) *Store {
	return &Store{
		positions:  make(map[string]Position),
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Upsert records the latest position for a bus.
func (s *Store) Upsert(p Position) {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now()
	}
	s.mu.Lock()
	s.positions[p.BusNumber] = p
	s.mu.Unlock()
}

// Get returns the latest fresh position for a bus.
func (s *Store) Get(busNumber string) (Position, bool) {
	s.mu.RLock()
	p, ok := s.positions[busNumber]
	s.mu.RUnlock()
	if !ok || s.stale(p) {
		return Position{}, false
	}
	return p, true
}

// Snapshot returns every fresh position.
func (s *Store) Snapshot() []Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Position, 0, len(s.positions))
	for _, p := range s.positions {
		if !s.stale(p) {
			out = append(out, p)
		}
	}
	return out
}

// Prune removes stale positions. Meant to run on a ticker.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k, p := range s.positions {
		if s.stale(p) {
			delete(s.positions, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked buses, stale or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.positions)
}

func (s *Store) stale(p Position) bool {
	return s.staleAfter > 0 && s.now().Sub(p.UpdatedAt) > s.staleAfter
}
