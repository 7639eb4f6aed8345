// Package annotations stores the three kinds of user artifacts taken against
// clips (annotations, note/flags and bookmarks) and serves them over HTTP.
package annotations

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"sitecam/internal/timeline"
)

var (
	ErrNotFound     = errors.New("artifact not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnknownKind  = errors.New("unknown artifact kind")
)

// Store is the persistence abstraction for artifacts.
// Ids are assigned by the store, increase monotonically and are never reused.
type Store interface {
	// List returns the artifacts of kind recorded on date, oldest first.
	// An empty date lists every date.
	List(ctx context.Context, kind timeline.Kind, date string) ([]timeline.Artifact, error)
	Get(ctx context.Context, kind timeline.Kind, id int64) (timeline.Artifact, error)
	// Create stores a and returns it with ID and CreatedAt set.
	Create(ctx context.Context, a timeline.Artifact) (timeline.Artifact, error)
	// Update replaces the mutable fields of the artifact with a.Kind and a.ID.
	Update(ctx context.Context, a timeline.Artifact) (timeline.Artifact, error)
	Delete(ctx context.Context, kind timeline.Kind, id int64) error
	Count(ctx context.Context, kind timeline.Kind) (int, error)
	Close() error
}

// MemoryStore is a concurrency-safe in-memory implementation of Store.
// Its content is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[timeline.Kind]map[int64]timeline.Artifact
	lastID int64
	now    func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[timeline.Kind]map[int64]timeline.Artifact),
		now:   time.Now,
	}
}

// List implements Store.List.
func (s *MemoryStore) List(_ context.Context, kind timeline.Kind, date string) ([]timeline.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Build a sorted copy to avoid exposing internal maps.
	out := make([]timeline.Artifact, 0, len(s.items[kind]))
	for _, a := range s.items[kind] {
		if date == "" || a.Date == date {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, kind timeline.Kind, id int64) (timeline.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.items[kind][id]
	if !ok {
		return timeline.Artifact{}, ErrNotFound
	}
	return a, nil
}

// Create implements Store.Create.
func (s *MemoryStore) Create(_ context.Context, a timeline.Artifact) (timeline.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	a.ID = s.lastID
	a.CreatedAt = s.now().UTC()

	byID, ok := s.items[a.Kind]
	if !ok {
		byID = make(map[int64]timeline.Artifact)
		s.items[a.Kind] = byID
	}
	byID[a.ID] = a
	return a, nil
}

// Update implements Store.Update.
func (s *MemoryStore) Update(_ context.Context, a timeline.Artifact) (timeline.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[a.Kind][a.ID]
	if !ok {
		return timeline.Artifact{}, ErrNotFound
	}
	cur.ClipTime = a.ClipTime
	cur.VideoTime = a.VideoTime
	cur.Content = a.Content
	cur.IsFlag = a.IsFlag
	s.items[a.Kind][a.ID] = cur
	return cur, nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(_ context.Context, kind timeline.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[kind][id]; !ok {
		return ErrNotFound
	}
	delete(s.items[kind], id)
	return nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context, kind timeline.Kind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items[kind]), nil
}

// Close implements Store.Close.
func (s *MemoryStore) Close() error { return nil }
