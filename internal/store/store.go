package store

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
)

// Store owns the process-wide itinerary state. It replaces what would
// otherwise be a global map with an injectable object whose only I/O
// boundary is the repository port.
//
// Concurrency discipline: one exclusive writer per itinerary id at a time.
// Every mutation clones the current value, applies the change to the clone,
// persists it, and only then swaps it into the map, so readers always see a
// consistent schedule and a failed save leaves nothing half-written.
type Store struct {
	cfg   config.Planning
	repo  ports.ItineraryRepository
	cache ports.ItineraryCache
	now   func() time.Time
	newID func() string

	mu          sync.RWMutex
	itineraries map[string]*domain.Itinerary
	current     string

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	listenersMu sync.RWMutex
	listeners   []Listener
}

type Option func(*Store)

// WithCache installs an optional document cache in front of the repository.
func WithCache(c ports.ItineraryCache) Option {
	return func(s *Store) { s.cache = c }
}

// WithClock injects the time source (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator injects the itinerary id source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func New(repo ports.ItineraryRepository, cfg config.Planning, opts ...Option) *Store {
	s := &Store{
		cfg:         cfg,
		repo:        repo,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
		itineraries: make(map[string]*domain.Itinerary),
		locks:       make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener for subsequent mutation events.
func (s *Store) Subscribe(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) publish(ev Event) {
	s.listenersMu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}

// LoadAll hydrates the in-memory map from the repository at startup.
func (s *Store) LoadAll(ctx context.Context) error {
	its, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("store: load all itineraries: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range its {
		s.itineraries[it.ID] = it
	}
	return nil
}

// Create builds a new itinerary for the inclusive date range and persists it.
func (s *Store) Create(ctx context.Context, name, description string, start, end time.Time) (*domain.Itinerary, error) {
	it, err := domain.NewItinerary(s.newID(), name, description, start, end, s.cfg.MaxDaysPerItinerary, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, it); err != nil {
		return nil, fmt.Errorf("store: create itinerary: %w", err)
	}

	snapshot := it.Clone()
	s.publish(Event{Type: EventItineraryCreated, ItineraryID: it.ID, Itinerary: snapshot})
	return snapshot, nil
}

// Get returns a deep-copied snapshot of the itinerary. On a memory miss it
// falls back to the cache, then the repository.
func (s *Store) Get(ctx context.Context, id string) (*domain.Itinerary, error) {
	s.mu.RLock()
	it, ok := s.itineraries[id]
	s.mu.RUnlock()
	if ok {
		return it.Clone(), nil
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			log.Printf("store: cache get id=%s err=%v", id, err)
		} else if cached != nil {
			s.remember(cached)
			return cached.Clone(), nil
		}
	}

	loaded, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.remember(loaded)
	return loaded.Clone(), nil
}

// List returns snapshots of every itinerary, oldest first.
func (s *Store) List(ctx context.Context) []*domain.Itinerary {
	s.mu.RLock()
	out := make([]*domain.Itinerary, 0, len(s.itineraries))
	for _, it := range s.itineraries {
		out = append(out, it.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Delete removes the itinerary from the repository, cache, and memory.
func (s *Store) Delete(ctx context.Context, id string) error {
	unlock := s.lockID(id)
	defer unlock()

	s.mu.RLock()
	it, ok := s.itineraries[id]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrItineraryNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("store: delete itinerary %s: %w", id, err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			log.Printf("store: cache invalidate id=%s err=%v", id, err)
		}
	}

	s.mu.Lock()
	delete(s.itineraries, id)
	if s.current == id {
		s.current = ""
	}
	s.mu.Unlock()

	s.publish(Event{Type: EventItineraryDeleted, ItineraryID: id, Itinerary: it.Clone()})
	return nil
}

// SetCurrent marks the itinerary the UI is working on.
func (s *Store) SetCurrent(id string) error {
	s.mu.Lock()
	it, ok := s.itineraries[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrItineraryNotFound
	}
	s.current = id
	s.mu.Unlock()

	s.publish(Event{Type: EventCurrentChanged, ItineraryID: id, Itinerary: it.Clone()})
	return nil
}

// Current returns a snapshot of the current itinerary, if one is set.
func (s *Store) Current() (*domain.Itinerary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.itineraries[s.current]
	if !ok {
		return nil, false
	}
	return it.Clone(), true
}

// AddExperience books an experience onto one day of the itinerary and
// persists the result. The stored schedule is untouched on any rejection.
func (s *Store) AddExperience(ctx context.Context, itineraryID string, dayIndex int, exp *domain.Experience, req services.SlotRequest) (*domain.Itinerary, error) {
	unlock := s.lockID(itineraryID)
	defer unlock()

	it, err := s.snapshot(itineraryID)
	if err != nil {
		return nil, err
	}

	day, err := it.Day(dayIndex)
	if err != nil {
		return nil, err
	}

	if req.AddedAt.IsZero() {
		req.AddedAt = s.now()
	}
	if _, err := services.AddExperience(day, exp, req, s.cfg); err != nil {
		return nil, err
	}

	it.UpdatedAt = s.now()
	if err := s.commit(ctx, it); err != nil {
		return nil, fmt.Errorf("store: add experience to %s: %w", itineraryID, err)
	}

	snapshot := it.Clone()
	s.publish(Event{
		Type:         EventExperienceAdded,
		ItineraryID:  itineraryID,
		Itinerary:    snapshot,
		ExperienceID: exp.ID,
		DayIndex:     dayIndex,
	})
	return snapshot, nil
}

// RemoveExperience drops an experience from one day. The boolean reports
// whether a removal occurred; nothing is saved when it did not.
func (s *Store) RemoveExperience(ctx context.Context, itineraryID string, dayIndex int, experienceID string) (*domain.Itinerary, bool, error) {
	unlock := s.lockID(itineraryID)
	defer unlock()

	it, err := s.snapshot(itineraryID)
	if err != nil {
		return nil, false, err
	}

	day, err := it.Day(dayIndex)
	if err != nil {
		return nil, false, err
	}

	if !services.RemoveExperience(day, experienceID) {
		return it, false, nil
	}

	it.UpdatedAt = s.now()
	if err := s.commit(ctx, it); err != nil {
		return nil, false, fmt.Errorf("store: remove experience from %s: %w", itineraryID, err)
	}

	snapshot := it.Clone()
	s.publish(Event{
		Type:         EventExperienceRemoved,
		ItineraryID:  itineraryID,
		Itinerary:    snapshot,
		ExperienceID: experienceID,
		DayIndex:     dayIndex,
	})
	return snapshot, true, nil
}

// UpdateEntry patches the mutable lifecycle fields (notes, completed flag)
// of one booked experience.
func (s *Store) UpdateEntry(ctx context.Context, itineraryID string, dayIndex int, experienceID string, notes *string, completed *bool) (*domain.Itinerary, error) {
	unlock := s.lockID(itineraryID)
	defer unlock()

	it, err := s.snapshot(itineraryID)
	if err != nil {
		return nil, err
	}

	day, err := it.Day(dayIndex)
	if err != nil {
		return nil, err
	}

	var entry *domain.ItineraryExperience
	for _, e := range day.Experiences {
		if e.Experience.ID == experienceID {
			entry = e
			break
		}
	}
	if entry == nil {
		return nil, domain.ErrExperienceNotFound
	}

	if notes != nil {
		entry.Notes = *notes
	}
	if completed != nil {
		entry.Completed = *completed
	}

	it.UpdatedAt = s.now()
	if err := s.commit(ctx, it); err != nil {
		return nil, fmt.Errorf("store: update entry on %s: %w", itineraryID, err)
	}
	return it.Clone(), nil
}

// Optimize reorders and re-times the itinerary's days. With apply false the
// result is a preview only; with apply true it replaces the stored schedule
// and an optimized event carries both the old and new itineraries.
func (s *Store) Optimize(ctx context.Context, itineraryID string, opts services.OptimizeOptions, apply bool) (*domain.Itinerary, error) {
	unlock := s.lockID(itineraryID)
	defer unlock()

	old, err := s.snapshot(itineraryID)
	if err != nil {
		return nil, err
	}

	optimized, err := services.Optimize(old, opts, s.cfg)
	if err != nil {
		return nil, err
	}

	if !apply {
		return optimized, nil
	}

	optimized.UpdatedAt = s.now()
	if err := s.commit(ctx, optimized); err != nil {
		return nil, fmt.Errorf("store: optimize %s: %w", itineraryID, err)
	}

	snapshot := optimized.Clone()
	s.publish(Event{
		Type:        EventItineraryOptimized,
		ItineraryID: itineraryID,
		Itinerary:   snapshot,
		Previous:    old,
	})
	return snapshot, nil
}

// Conflicts runs the read-only conflict report against a consistent snapshot.
func (s *Store) Conflicts(ctx context.Context, itineraryID string) ([]services.Conflict, error) {
	it, err := s.Get(ctx, itineraryID)
	if err != nil {
		return nil, err
	}
	return services.DetectConflicts(it, s.cfg), nil
}

// snapshot returns a private deep copy of the stored itinerary for mutation.
func (s *Store) snapshot(id string) (*domain.Itinerary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.itineraries[id]
	if !ok {
		return nil, domain.ErrItineraryNotFound
	}
	return it.Clone(), nil
}

// commit persists the itinerary and swaps it into the in-memory map. The
// repository save is the all-or-nothing step; the cache write is best-effort.
func (s *Store) commit(ctx context.Context, it *domain.Itinerary) error {
	if err := it.Validate(); err != nil {
		return fmt.Errorf("invariant violation: %w", err)
	}

	if err := s.repo.Save(ctx, it); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, it); err != nil {
			log.Printf("store: cache put id=%s err=%v", it.ID, err)
		}
	}

	s.mu.Lock()
	s.itineraries[it.ID] = it
	s.mu.Unlock()
	return nil
}

func (s *Store) remember(it *domain.Itinerary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.itineraries[it.ID]; !ok {
		s.itineraries[it.ID] = it
	}
}

// lockID takes the per-itinerary writer lock and returns its release func.
func (s *Store) lockID(id string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}
