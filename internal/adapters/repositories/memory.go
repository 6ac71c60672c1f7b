package repositories

import (
	"context"
	"fmt"
	"sync"

	"itinerary-planner-service/internal/domain"
)

// In-memory ExperienceRepository for tests and local development.
type MemoryExperienceRepository struct {
	m map[string]*domain.Experience
}

func NewMemoryExperienceRepository(experiences []*domain.Experience) *MemoryExperienceRepository {
	m := make(map[string]*domain.Experience, len(experiences))
	for _, exp := range experiences {
		m[exp.ID] = exp
	}
	return &MemoryExperienceRepository{m: m}
}

func (r *MemoryExperienceRepository) GetExperience(ctx context.Context, id string) (*domain.Experience, error) {
	exp, ok := r.m[id]
	if !ok {
		return nil, fmt.Errorf("get experience %q: %w", id, domain.ErrExperienceNotFound)
	}
	return exp, nil
}

func (r *MemoryExperienceRepository) ListExperiences(ctx context.Context) ([]*domain.Experience, error) {
	out := make([]*domain.Experience, 0, len(r.m))
	for _, exp := range r.m {
		out = append(out, exp)
	}
	return out, nil
}

// In-memory ItineraryRepository storing marshaled documents, so tests
// exercise the same codec path as the postgres adapter.
type MemoryItineraryRepository struct {
	mu          sync.Mutex
	docs        map[string][]byte
	Experiences *MemoryExperienceRepository
}

func NewMemoryItineraryRepository(experiences *MemoryExperienceRepository) *MemoryItineraryRepository {
	return &MemoryItineraryRepository{
		docs:        make(map[string][]byte),
		Experiences: experiences,
	}
}

func (r *MemoryItineraryRepository) Save(ctx context.Context, it *domain.Itinerary) error {
	doc, err := domain.MarshalItinerary(it)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[it.ID] = doc
	return nil
}

func (r *MemoryItineraryRepository) Load(ctx context.Context, id string) (*domain.Itinerary, error) {
	r.mu.Lock()
	doc, ok := r.docs[id]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("load itinerary %q: %w", id, domain.ErrItineraryNotFound)
	}
	return domain.UnmarshalItinerary(doc, r.lookup(ctx))
}

func (r *MemoryItineraryRepository) LoadAll(ctx context.Context) ([]*domain.Itinerary, error) {
	r.mu.Lock()
	docs := make([][]byte, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc)
	}
	r.mu.Unlock()

	out := make([]*domain.Itinerary, 0, len(docs))
	for _, doc := range docs {
		it, err := domain.UnmarshalItinerary(doc, r.lookup(ctx))
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *MemoryItineraryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *MemoryItineraryRepository) lookup(ctx context.Context) domain.ExperienceLookup {
	return func(id string) (*domain.Experience, error) {
		return r.Experiences.GetExperience(ctx, id)
	}
}
